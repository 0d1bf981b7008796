package maxmind_test

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/services/maxmind"
	"github.com/tbckr/vantage/internal/testutil"
)

const (
	tokenURL = "https://www.maxmind.com/en/geoip2/demo/token"
	token    = "v2.local.demo-token"
)

func tokenResponder(req *http.Request) (*http.Response, error) {
	resp := httpmock.NewStringResponse(http.StatusCreated, `{"token":"`+token+`"}`)
	resp.Header.Set("Set-Cookie", "mm_session=s3ss10n; Domain=maxmind.com; Path=/")
	return resp, nil
}

// lookupResponder only answers requests that carry the token and the session cookie.
func lookupResponder(body []byte) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "Bearer "+token {
			return httpmock.NewStringResponse(http.StatusUnauthorized, `{"code":"AUTHORIZATION_INVALID"}`), nil
		}
		if c, err := req.Cookie("mm_session"); err != nil || c.Value != "s3ss10n" {
			return httpmock.NewStringResponse(http.StatusForbidden, `{"code":"NO_SESSION"}`), nil
		}
		return httpmock.NewBytesResponse(http.StatusOK, body), nil
	}
}

func TestCheck_TwoStepFlow(t *testing.T) {
	fixture, err := os.ReadFile("testdata/city.json")
	require.NoError(t, err)

	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodPost, tokenURL, tokenResponder)
	clients.Transport.RegisterResponder(http.MethodGet, "https://geoip.maxmind.com/geoip/v2.1/city/8.8.8.8?demo=1",
		lookupResponder(fixture))

	results := maxmind.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.MustParseAddr("8.8.8.8"))
	require.Len(t, results, 1)
	r := results[0]
	require.True(t, r.Success, r.String())
	assert.Equal(t, netip.MustParseAddr("8.8.8.8"), r.IP)
	assert.Equal(t, &services.AS{Number: 15169, Name: "GOOGLE"}, r.AS)
	assert.Equal(t, &services.Region{
		Country:     "United States",
		Region:      "California",
		City:        "Mountain View",
		Coordinates: &services.Coordinates{Lat: "37.4223", Lon: "-122.085"},
		TimeZone:    "America/Los_Angeles",
	}, r.Region)
	require.NotNil(t, r.Risk)
	assert.Equal(t, []services.RiskTag{services.TagHosting}, r.Risk.Tags)

	assert.Equal(t, 2, clients.TotalCalls())
	assert.Len(t, clients.Families(), 1, "both steps share one client")
}

func TestCheck_SelfUsesMe(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodPost, tokenURL, tokenResponder)
	clients.Transport.RegisterResponder(http.MethodGet, "https://geoip.maxmind.com/geoip/v2.1/city/me?demo=1",
		lookupResponder([]byte(`{"traits":{"ip_address":"2001:db8::1","user_type":"cellular","is_anonymous_vpn":true}}`)))

	results := maxmind.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	r := results[0]
	require.True(t, r.Success, r.String())
	assert.Equal(t, []services.RiskTag{services.TagMobile, services.OtherTag("vpn")}, r.Risk.Tags)
	assert.Nil(t, r.Region)
}

func TestCheck_TokenFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		want      services.Failure
	}{
		{"no token", httpmock.NewStringResponder(http.StatusOK, `{}`),
			services.Failure{Kind: services.ErrorRequest, Message: "unable to get token"}},
		{"rejected", httpmock.NewStringResponder(http.StatusTooManyRequests, `{}`),
			services.Failure{Kind: services.ErrorRequest, Message: "unexpected HTTP status 429"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clients := testutil.NewClients()
			clients.Transport.RegisterResponder(http.MethodPost, tokenURL, tc.responder)

			results := maxmind.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.Addr{})
			require.Len(t, results, 1)
			assert.Equal(t, tc.want, results[0].Error)
			assert.Equal(t, 1, clients.TotalCalls(), "lookup is never attempted")
		})
	}
}

func TestCheck_LookupRejected(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodPost, tokenURL, tokenResponder)
	clients.Transport.RegisterResponder(http.MethodGet, "https://geoip.maxmind.com/geoip/v2.1/city/10.0.0.1?demo=1",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"code":"IP_ADDRESS_RESERVED","error":"reserved"}`))

	results := maxmind.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.MustParseAddr("10.0.0.1"))
	require.Len(t, results, 1)
	assert.Equal(t, "unexpected HTTP status 400", results[0].Error.Message)
}

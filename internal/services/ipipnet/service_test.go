package ipipnet_test

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/services/ipipnet"
	"github.com/tbckr/vantage/internal/testutil"
)

const endpoint = "https://myip.ipip.net/json"

func newService(t *testing.T, responder httpmock.Responder) (*ipipnet.Service, *testutil.Clients) {
	t.Helper()
	clients := testutil.NewClients()
	if responder != nil {
		clients.Transport.RegisterResponder(http.MethodGet, endpoint, responder)
	}
	return ipipnet.NewService(clients, testutil.NopLogger()), clients
}

func TestCheck_SelfLookup(t *testing.T) {
	svc, clients := newService(t, httpmock.NewStringResponder(http.StatusOK,
		`{"ret":"ok","data":{"ip":"1.2.3.4","location":["USA","California","Mountain View","","google.com"]}}`))

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	r := results[0]
	assert.True(t, r.Success)
	assert.Equal(t, services.ErrorNone, r.Error.Kind)
	assert.Equal(t, "Ipip.Net", r.Provider)
	assert.Equal(t, netip.MustParseAddr("1.2.3.4"), r.IP)
	require.NotNil(t, r.Region)
	assert.Equal(t, services.Region{Country: "USA", Region: "California", City: "Mountain View"}, *r.Region)
	assert.Nil(t, r.AS)
	assert.Nil(t, r.Risk)
	assert.Positive(t, r.Elapsed)
	assert.Equal(t, []httpclient.Family{httpclient.FamilyIPv4}, clients.Families())
}

func TestCheck_ShortLocation(t *testing.T) {
	svc, _ := newService(t, httpmock.NewStringResponder(http.StatusOK,
		`{"data":{"ip":"1.2.3.4","location":["USA"]}}`))

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	assert.Equal(t, services.Region{Country: "USA"}, *results[0].Region)
}

func TestCheck_MissingData(t *testing.T) {
	svc, _ := newService(t, httpmock.NewStringResponder(http.StatusOK, `{"ret":"ok"}`))

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, services.ErrorParseIP, results[0].Error.Kind)
	assert.False(t, results[0].IP.IsValid())
	assert.Nil(t, results[0].Region)
}

func TestCheck_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind services.ErrorKind
	}{
		{"ip not a string", `{"data":{"ip":1234,"location":[]}}`, services.ErrorParseIP},
		{"ip not an address", `{"data":{"ip":"localhost","location":[]}}`, services.ErrorParseIP},
		{"location missing", `{"data":{"ip":"1.2.3.4"}}`, services.ErrorParseIP},
		{"location not an array", `{"data":{"ip":"1.2.3.4","location":"USA"}}`, services.ErrorParseIP},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t, httpmock.NewStringResponder(http.StatusOK, tc.body))
			results := svc.Check(context.Background(), netip.Addr{})
			require.Len(t, results, 1)
			assert.False(t, results[0].Success)
			assert.Equal(t, tc.kind, results[0].Error.Kind)
			assert.Nil(t, results[0].Region)
		})
	}
}

func TestCheck_Unreachable(t *testing.T) {
	svc, _ := newService(t, httpmock.NewErrorResponder(errors.New("dial tcp: i/o timeout")))

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, services.ErrorRequest, results[0].Error.Kind)
	assert.Equal(t, services.MsgConnect, results[0].Error.Message)
}

func TestCheck_ExplicitTargetUnsupported(t *testing.T) {
	svc, clients := newService(t, httpmock.NewStringResponder(http.StatusOK, `{}`))

	results := svc.Check(context.Background(), netip.MustParseAddr("8.8.8.8"))
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, services.ErrorUnsupported, results[0].Error.Kind)
	assert.Equal(t, 0, clients.TotalCalls())
	assert.Empty(t, clients.Families(), "no client may be built")
}

func TestCheck_ClientCreationFailed(t *testing.T) {
	svc, clients := newService(t, nil)
	clients.Err = errors.New("boom")

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 1)
	assert.Equal(t, services.ErrorClientCreation, results[0].Error.Kind)
}

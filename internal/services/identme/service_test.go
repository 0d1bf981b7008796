package identme_test

import (
	"context"
	"net/http"
	"net/netip"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/services/identme"
	"github.com/tbckr/vantage/internal/testutil"
)

func TestCheck(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodGet, "https://4.ident.me/json",
		httpmock.NewStringResponder(http.StatusOK, `{"ip":"203.0.113.44","aso":"Example ISP","asn":"64500","type":"isp",
			"continent":"EU","cc":"GB","country":"United Kingdom","city":"London","postal":"EC1A",
			"latitude":51.5085,"longitude":-0.1257,"tz":"Europe/London"}`))
	clients.Transport.RegisterResponder(http.MethodGet, "https://6.ident.me/json",
		httpmock.NewStringResponder(http.StatusOK, `{"ip":"not an address"}`))

	results := identme.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.Addr{})
	require.Len(t, results, 2)

	v4 := results[0]
	require.True(t, v4.Success, v4.String())
	assert.Equal(t, &services.AS{Number: 64500, Name: "Example ISP"}, v4.AS)
	assert.Equal(t, &services.Region{
		Country:     "United Kingdom",
		City:        "London",
		Coordinates: &services.Coordinates{Lat: "51.5085", Lon: "-0.1257"},
		TimeZone:    "Europe/London",
	}, v4.Region)

	assert.Equal(t, services.ErrorParseIP, results[1].Error.Kind)
	assert.ElementsMatch(t, []httpclient.Family{httpclient.FamilyIPv4, httpclient.FamilyIPv6}, clients.Families())
}

func TestCheck_TargetUnsupported(t *testing.T) {
	clients := testutil.NewClients()
	results := identme.NewService(clients, testutil.NopLogger()).Check(context.Background(), netip.MustParseAddr("2001:db8::1"))
	require.Len(t, results, 1)
	assert.Equal(t, services.ErrorUnsupported, results[0].Error.Kind)
	assert.Empty(t, clients.Families())
}

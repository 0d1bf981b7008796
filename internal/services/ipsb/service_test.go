package ipsb_test

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
	"github.com/tbckr/vantage/internal/services/ipsb"
	"github.com/tbckr/vantage/internal/testutil"
)

func TestCheck_SelfProbesBothFamilies(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodGet, "https://api-ipv4.ip.sb/geoip",
		httpmock.NewStringResponder(http.StatusOK, `{"ip":"198.51.100.9","country":"Japan","city":"Tokyo",
			"latitude":35.6895,"longitude":139.6917,"timezone":"Asia/Tokyo","asn":2516,"asn_organization":"KDDI"}`))
	clients.Transport.RegisterResponder(http.MethodGet, "https://api-ipv6.ip.sb/geoip",
		httpmock.NewStringResponder(http.StatusBadGateway, ``))
	svc := ipsb.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 2)

	v4 := results[0]
	require.True(t, v4.Success, v4.String())
	assert.Equal(t, netip.MustParseAddr("198.51.100.9"), v4.IP)
	assert.Equal(t, &services.AS{Number: 2516, Name: "KDDI"}, v4.AS)
	assert.Equal(t, &services.Region{
		Country:     "Japan",
		City:        "Tokyo",
		Coordinates: &services.Coordinates{Lat: "35.6895", Lon: "139.6917"},
		TimeZone:    "Asia/Tokyo",
	}, v4.Region)

	assert.Equal(t, services.ErrorRequest, results[1].Error.Kind)
	assert.ElementsMatch(t, []httpclient.Family{httpclient.FamilyIPv4, httpclient.FamilyIPv6}, clients.Families())
}

func TestCheck_TargetSingleProbe(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodGet, "https://api.ip.sb/geoip/2001:4860:4860::8888",
		httpmock.NewStringResponder(http.StatusOK, `{"ip":"2001:4860:4860::8888","asn":15169}`))
	svc := ipsb.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.MustParseAddr("2001:4860:4860::8888"))
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, &services.AS{Number: 15169}, results[0].AS)
	assert.Nil(t, results[0].Region)
	assert.Equal(t, []httpclient.Family{httpclient.FamilyAny}, clients.Families())
}

func TestCheck_MissingIP(t *testing.T) {
	clients := testutil.NewClients()
	clients.Transport.RegisterResponder(http.MethodGet, "https://api.ip.sb/geoip/192.0.2.1",
		httpmock.NewStringResponder(http.StatusOK, `{"country":"Reserved"}`))
	svc := ipsb.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.MustParseAddr("192.0.2.1"))
	require.Len(t, results, 1)
	assert.Equal(t, services.ErrorParseIP, results[0].Error.Kind)
}

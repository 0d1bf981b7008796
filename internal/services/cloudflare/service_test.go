package cloudflare_test

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"os"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/services/cloudflare"
	"github.com/tbckr/vantage/internal/testutil"
)

const endpoint = "https://speed.cloudflare.com/meta"

func newClients(v4, v6 httpmock.Responder) *testutil.Clients {
	clients := testutil.NewClients()
	clients.PerFamily = map[httpclient.Family]*httpmock.MockTransport{
		httpclient.FamilyIPv4: httpmock.NewMockTransport(),
		httpclient.FamilyIPv6: httpmock.NewMockTransport(),
	}
	clients.PerFamily[httpclient.FamilyIPv4].RegisterResponder(http.MethodGet, endpoint, v4)
	clients.PerFamily[httpclient.FamilyIPv6].RegisterResponder(http.MethodGet, endpoint, v6)
	return clients
}

func TestCheck_BothFamilies(t *testing.T) {
	fixture, err := os.ReadFile("testdata/meta_v4.json")
	require.NoError(t, err)

	clients := newClients(
		httpmock.NewBytesResponder(http.StatusOK, fixture),
		httpmock.NewStringResponder(http.StatusOK, `{"clientIp":"2001:db8::7","asn":64496,"asOrganization":"Example Networks"}`),
	)
	svc := cloudflare.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 2)

	v4 := results[0]
	assert.True(t, v4.Success)
	assert.Equal(t, netip.MustParseAddr("203.0.113.7"), v4.IP)
	assert.Equal(t, &services.AS{Number: 64496, Name: "Example Networks"}, v4.AS)
	require.NotNil(t, v4.Region)
	assert.Equal(t, "DE", v4.Region.Country)
	assert.Equal(t, "Hesse", v4.Region.Region)
	assert.Equal(t, "Frankfurt am Main", v4.Region.City)
	assert.Equal(t, &services.Coordinates{Lat: "50.11520", Lon: "8.68420"}, v4.Region.Coordinates)

	v6 := results[1]
	assert.True(t, v6.Success)
	assert.Equal(t, netip.MustParseAddr("2001:db8::7"), v6.IP)
	assert.Nil(t, v6.Region)

	assert.ElementsMatch(t, []httpclient.Family{httpclient.FamilyIPv4, httpclient.FamilyIPv6}, clients.Families())
}

func TestCheck_OneFamilyFails(t *testing.T) {
	clients := newClients(
		httpmock.NewStringResponder(http.StatusOK, `{"clientIp":"203.0.113.7"}`),
		httpmock.NewErrorResponder(errors.New("connect: network is unreachable")),
	)
	svc := cloudflare.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Nil(t, results[0].AS)
	assert.False(t, results[1].Success)
	assert.Equal(t, services.ErrorRequest, results[1].Error.Kind)
	assert.Equal(t, services.MsgConnect, results[1].Error.Message)
}

func TestCheck_MissingClientIP(t *testing.T) {
	clients := newClients(
		httpmock.NewStringResponder(http.StatusOK, `{"asn":64496}`),
		httpmock.NewStringResponder(http.StatusOK, `{"clientIp":"not-an-ip"}`),
	)
	svc := cloudflare.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.Addr{})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, services.ErrorParseIP, r.Error.Kind)
		assert.Nil(t, r.AS)
	}
}

func TestCheck_TargetUnsupported(t *testing.T) {
	clients := testutil.NewClients()
	svc := cloudflare.NewService(clients, testutil.NopLogger())

	results := svc.Check(context.Background(), netip.MustParseAddr("1.1.1.1"))
	require.Len(t, results, 1)
	assert.Equal(t, services.ErrorUnsupported, results[0].Error.Kind)
	assert.Equal(t, 0, clients.TotalCalls())
}

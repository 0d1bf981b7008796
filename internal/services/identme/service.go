// Package identme implements the ident.me self-lookup adapter.
package identme

import (
	"context"
	"log/slog"
	"net/netip"

	jsoniter "github.com/json-iterator/go"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
)

const (
	// ID is the provider selection key.
	ID = "identme"
	// Name is the provider name reported in results.
	Name = "Ident.me"
	// Mode declares that ident.me only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "ipv4+ipv6"

	// The 4. and 6. hosts only publish A and AAAA records respectively.
	ipv4URL = "https://4.ident.me/json"
	ipv6URL = "https://6.ident.me/json"
)

// Service queries ident.me once per address family.
type Service struct {
	services.Prober
}

// NewService creates a new ident.me service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check returns one record for the IPv4 probe and one for the IPv6 probe.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name,
		s.JSONProbe(ctx, httpclient.FamilyIPv4, ipv4URL, parse),
		s.JSONProbe(ctx, httpclient.FamilyIPv6, ipv6URL, parse),
	)
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "aso"))
	result.Region = services.NewRegion(
		services.Text(body, "country"),
		"",
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		services.Text(body, "tz"),
	)
	return result
}

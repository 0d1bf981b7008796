// Package ipsb implements the IP.SB GeoIP adapter.
package ipsb

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
	ID = "ipsb"
	// Name is the provider name reported in results.
	Name = "IP.SB"
	// Mode declares that IP.SB serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "self: ipv4+ipv6, target: any"

	selfIPv4URL = "https://api-ipv4.ip.sb/geoip"
	selfIPv6URL = "https://api-ipv6.ip.sb/geoip"
	targetURL   = "https://api.ip.sb/geoip/"
)

// Service queries the IP.SB GeoIP API. Self-lookups probe both families
// through the family-specific hostnames.
type Service struct {
	services.Prober
}

// NewService creates a new IP.SB service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check looks up target, or the caller's IPv4 and IPv6 addresses when target is invalid.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	if target.IsValid() {
		return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, targetURL+target.String(), parse))
	}
	return services.RunProbes(Name,
		s.JSONProbe(ctx, httpclient.FamilyIPv4, selfIPv4URL, parse),
		s.JSONProbe(ctx, httpclient.FamilyIPv6, selfIPv6URL, parse),
	)
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "asn_organization"))
	result.Region = services.NewRegion(
		services.Text(body, "country"),
		services.Text(body, "region"),
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		services.Text(body, "timezone"),
	)
	return result
}

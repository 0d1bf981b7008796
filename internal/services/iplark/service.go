// Package iplark implements the IPLark.com adapter.
package iplark

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
	ID = "iplark"
	// Name is the provider name reported in results.
	Name = "IPLark.com"
	// Mode declares that IPLark serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "self: ipv4+ipv6, target: any"

	selfIPv4URL = "https://4.iplark.com/ipapi/public/ipinfo"
	selfIPv6URL = "https://6.iplark.com/ipapi/public/ipinfo"
	targetURL   = "https://iplark.com/ipapi/public/ipinfo?ip="
)

// Service queries the IPLark public ipinfo endpoint.
type Service struct {
	services.Prober
}

// NewService creates a new IPLark service.
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
	if msg := services.Text(body, "error"); msg != "" {
		return services.RequestFailure(Name, msg)
	}
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asName := services.Text(body, "as_name")
	if asName == "" {
		asName = services.Text(body, "isp")
	}
	asn, asnOK := services.ASNumber(body, "asn")
	result.AS = services.NewAS(asn, asnOK, asName)

	country := services.Text(body, "country_name")
	if country == "" {
		country = services.Text(body, "country")
	}
	region := services.Text(body, "province")
	if region == "" {
		region = services.Text(body, "region")
	}
	result.Region = services.NewRegion(
		country,
		region,
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		services.Text(body, "timezone"),
	)
	return result
}

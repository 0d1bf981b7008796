// Package freeipapi implements the freeipapi.com adapter.
package freeipapi

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
	ID = "freeipapi"
	// Name is the provider name reported in results.
	Name = "FreeIpApi.com"
	// Mode declares that freeipapi.com serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://freeipapi.com/api/json"
)

// Service queries freeipapi.com.
type Service struct {
	services.Prober
}

// NewService creates a new freeipapi.com service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check looks up target, or the caller's address when target is invalid.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	url := baseURL
	if target.IsValid() {
		url += "/" + target.String()
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "ipAddress")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "asnOrganization"))

	// timeZones carries IANA names; timeZone is only a UTC offset.
	tz, ok := services.String(body, "timeZones", 0)
	if !ok {
		tz = services.Text(body, "timeZone")
	}
	result.Region = services.NewRegion(
		services.Text(body, "countryName"),
		services.Text(body, "regionName"),
		services.Text(body, "cityName"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		tz,
	)
	result.Risk = services.NewRisk(nil, services.Flags{}.Add(services.Flag(body, "isProxy"), services.TagProxy)...)
	return result
}

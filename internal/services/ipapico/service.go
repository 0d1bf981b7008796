// Package ipapico implements the ipapi.co adapter.
package ipapico

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
	ID = "ipapico"
	// Name is the provider name reported in results.
	Name = "IpApi.co"
	// Mode declares that ipapi.co serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://ipapi.co/"
)

// Service queries ipapi.co.
type Service struct {
	services.Prober
}

// NewService creates a new ipapi.co service.
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
	url := baseURL + "json/"
	if target.IsValid() {
		url = baseURL + target.String() + "/json/"
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

func parse(body jsoniter.Any) services.Result {
	if services.Flag(body, "error") {
		reason, ok := services.String(body, "reason")
		if !ok {
			reason = "lookup failed"
		}
		return services.RequestFailure(Name, reason)
	}
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "org"))
	result.Region = services.NewRegion(
		services.Text(body, "country_name"),
		services.Text(body, "region"),
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		services.Text(body, "timezone"),
	)
	return result
}

// Package ipwhois implements the ipwho.is adapter.
package ipwhois

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
	ID = "ipwhois"
	// Name is the provider name reported in results.
	Name = "IpWhois.app"
	// Mode declares that ipwho.is serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://ipwho.is/"
)

// Service queries ipwho.is.
type Service struct {
	services.Prober
}

// NewService creates a new ipwho.is service.
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
		url += target.String()
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

func parse(body jsoniter.Any) services.Result {
	success, ok := services.Bool(body, "success")
	if !ok {
		return services.JSONParseFailure(Name, "missing success flag")
	}
	if !success {
		msg, ok := services.String(body, "message")
		if !ok {
			msg = "lookup failed"
		}
		return services.RequestFailure(Name, msg)
	}
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "connection", "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "connection", "org"))
	result.Region = services.NewRegion(
		services.Text(body, "country"),
		services.Text(body, "region"),
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"latitude"}, []any{"longitude"}),
		services.Text(body, "timezone", "id"),
	)
	return result
}

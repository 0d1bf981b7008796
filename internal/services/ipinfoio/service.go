// Package ipinfoio implements the ipinfo.io adapter.
package ipinfoio

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
	ID = "ipinfoio"
	// Name is the provider name reported in results.
	Name = "IpInfo.io"
	// Mode declares that ipinfo.io serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://ipinfo.io/"
)

// Service queries ipinfo.io without a token.
type Service struct {
	services.Prober
}

// NewService creates a new ipinfo.io service.
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
	url := baseURL + "json"
	if target.IsValid() {
		url = baseURL + target.String() + "/json"
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

// parse maps the ipinfo.io lite schema. Bogon addresses come back with
// only "ip" and "bogon" set and are still a successful lookup.
func parse(body jsoniter.Any) services.Result {
	if msg, ok := services.String(body, "error", "message"); ok {
		return services.RequestFailure(Name, msg)
	}
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	if as, ok := services.SplitAS(services.Text(body, "org")); ok {
		result.AS = as
	}
	result.Region = services.NewRegion(
		services.Text(body, "country"),
		services.Text(body, "region"),
		services.Text(body, "city"),
		services.SplitCoordinates(services.Text(body, "loc")),
		services.Text(body, "timezone"),
	)
	return result
}

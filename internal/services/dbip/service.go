// Package dbip implements the db-ip.com free API adapter.
package dbip

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
	ID = "dbip"
	// Name is the provider name reported in results.
	Name = "Db-Ip.com"
	// Mode declares that db-ip.com serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://api.db-ip.com/v2/free/"
)

// Service queries the db-ip.com free API. The free tier only returns location.
type Service struct {
	services.Prober
}

// NewService creates a new db-ip.com service.
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
	url := baseURL + "self"
	if target.IsValid() {
		url = baseURL + target.String()
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

func parse(body jsoniter.Any) services.Result {
	if msg, ok := services.String(body, "error"); ok {
		return services.RequestFailure(Name, msg)
	}
	ip, ok := services.Addr(body, "ipAddress")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	result.Region = services.NewRegion(
		services.Text(body, "countryName"),
		services.Text(body, "stateProv"),
		services.Text(body, "city"),
		nil,
		"",
	)
	return result
}

// Package myipla implements the MyIP.La self-lookup adapter.
package myipla

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
	ID = "myipla"
	// Name is the provider name reported in results.
	Name = "MyIP.La"
	// Mode declares that MyIP.La only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "any"

	endpoint = "https://api.myip.la/en?json"
)

// Service queries api.myip.la.
type Service struct {
	services.Prober
}

// NewService creates a new MyIP.La service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check reports the caller's address and location as seen by MyIP.La.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, endpoint, parse))
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	result := services.Succeeded(Name, ip)
	result.Region = services.NewRegion(
		services.Text(body, "location", "country_name"),
		services.Text(body, "location", "province"),
		services.Text(body, "location", "city"),
		services.CoordinatesAt(body, []any{"location", "latitude"}, []any{"location", "longitude"}),
		"",
	)
	return result
}

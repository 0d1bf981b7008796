// Package baidu implements the Baidu Qifu self-lookup adapter.
package baidu

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
	ID = "baidu"
	// Name is the provider name reported in results.
	Name = "Baidu"
	// Mode declares that Baidu only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "ipv4"

	endpoint = "https://qifu-api.baidubce.com/ip/local/geo/v1/district"
)

// Service queries the Baidu Qifu district API.
type Service struct {
	services.Prober
}

// NewService creates a new Baidu service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check reports the caller's IPv4 address as seen from mainland China.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyIPv4, endpoint, parse))
}

func parse(body jsoniter.Any) services.Result {
	code, ok := services.String(body, "code")
	if !ok {
		return services.JSONParseFailure(Name, "missing status code")
	}
	if code != "Success" {
		return services.RequestFailure(Name, code)
	}
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	if !services.Has(body, "data") {
		return services.JSONParseFailure(Name, "missing data")
	}

	result := services.Succeeded(Name, ip)
	result.Region = services.NewRegion(
		services.Text(body, "data", "country"),
		services.Text(body, "data", "prov"),
		services.Text(body, "data", "city"),
		nil,
		"",
	)
	return result
}

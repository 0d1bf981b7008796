// Package itdog implements the ItDog.cn self-lookup adapter.
package itdog

import (
	"context"
	"log/slog"
	"net/netip"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
)

const (
	// ID is the provider selection key.
	ID = "itdog"
	// Name is the provider name reported in results.
	Name = "ItDog.cn"
	// Mode declares that ItDog only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "ipv4+ipv6"

	ipv4URL = "https://ipv4.itdog.cn/"
	ipv6URL = "https://ipv6.itdog.cn/"
)

// Service queries ItDog's family-specific "my ip" hosts.
type Service struct {
	services.Prober
}

// NewService creates a new ItDog service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check reports the caller's IPv4 and IPv6 addresses.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name,
		s.JSONProbe(ctx, httpclient.FamilyIPv4, ipv4URL, parse),
		s.JSONProbe(ctx, httpclient.FamilyIPv6, ipv6URL, parse),
	)
}

// parse maps {"type":"success","ip":"...","address":"country region city isp"}.
func parse(body jsoniter.Any) services.Result {
	status, ok := services.String(body, "type")
	if !ok {
		return services.JSONParseFailure(Name, "missing status")
	}
	if status != "success" {
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
	parts := strings.Fields(services.Text(body, "address"))
	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	result.Region = services.NewRegion(at(0), at(1), at(2), nil, "")
	return result
}

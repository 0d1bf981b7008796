// Package httpbin implements the httpbin.org self-lookup adapter.
package httpbin

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
	ID = "httpbin"
	// Name is the provider name reported in results.
	Name = "HttpBin.org"
	// Mode declares that httpbin.org only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "any"

	endpoint = "https://httpbin.org/ip"
)

// Service asks httpbin.org for the request origin. It reports no metadata.
type Service struct {
	services.Prober
}

// NewService creates a new httpbin.org service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check reports the caller's address as seen by httpbin.org.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, endpoint, parse))
}

// parse reads "origin". Behind forwarding proxies it is a comma separated
// chain and the first entry is the client.
func parse(body jsoniter.Any) services.Result {
	origin, ok := services.String(body, "origin")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	first, _, _ := strings.Cut(origin, ",")
	ip, ok := services.ParseAddr(first)
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	return services.Succeeded(Name, ip)
}

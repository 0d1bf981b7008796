// Package ipipnet implements the Ipip.Net self-lookup adapter.
package ipipnet

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
	ID = "ipipnet"
	// Name is the provider name reported in results.
	Name = "Ipip.Net"
	// Mode declares that Ipip.Net only reports the caller's own address.
	Mode = services.ModeSelf
	// Families describes the probes the adapter runs.
	Families = "ipv4"

	endpoint = "https://myip.ipip.net/json"
)

// Service queries the Ipip.Net "my ip" API over IPv4.
type Service struct {
	services.Prober
}

// NewService creates a new Ipip.Net service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check reports the caller's IPv4 address and location as seen by Ipip.Net.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyIPv4, endpoint, parse))
}

// parse maps {"data":{"ip":"...","location":["country","region","city",...]}}.
func parse(body jsoniter.Any) services.Result {
	if !services.Has(body, "data") {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	ip, ok := services.Addr(body, "data", "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}
	if body.Get("data", "location").ValueType() != jsoniter.ArrayValue {
		return services.ParseIPFailure(Name, "unable to parse location")
	}

	result := services.Succeeded(Name, ip)
	result.Region = services.NewRegion(
		services.Text(body, "data", "location", 0),
		services.Text(body, "data", "location", 1),
		services.Text(body, "data", "location", 2),
		nil,
		"",
	)
	return result
}

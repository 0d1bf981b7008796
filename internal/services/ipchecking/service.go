// Package ipchecking implements the IPCheck.ing adapter.
//
// Self-lookups first learn the caller's address from a family-specific
// plain-text host, then ask the lookup API about that address through the
// same client.
package ipchecking

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"

	jsoniter "github.com/json-iterator/go"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
)

const (
	// ID is the provider selection key.
	ID = "ipchecking"
	// Name is the provider name reported in results.
	Name = "IPCheck.ing"
	// Mode declares that IPCheck.ing serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "self: ipv4+ipv6, target: any"

	selfIPv4URL = "https://4.ipcheck.ing/"
	selfIPv6URL = "https://6.ipcheck.ing/"
	lookupURL   = "https://ipcheck.ing/api/ipchecking?lang=en&ip="
)

// Service queries the IPCheck.ing lookup API.
type Service struct {
	services.Prober
}

// NewService creates a new IPCheck.ing service.
func NewService(clients services.ClientFactory, logger *slog.Logger) *Service {
	return &Service{Prober: services.NewProber(Name, clients, logger)}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check looks up target, or the caller's IPv4 and IPv6 addresses when target is invalid.
func (s *Service) Check(ctx context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	if target.IsValid() {
		return services.RunProbes(Name, func() services.Result {
			return s.lookup(ctx, httpclient.FamilyAny, target)
		})
	}
	return services.RunProbes(Name,
		func() services.Result { return s.lookup(ctx, httpclient.FamilyIPv4, netip.Addr{}) },
		func() services.Result { return s.lookup(ctx, httpclient.FamilyIPv6, netip.Addr{}) },
	)
}

func (s *Service) lookup(ctx context.Context, family httpclient.Family, target netip.Addr) services.Result {
	client, err := s.Client(family)
	if err != nil {
		return s.Failed(err)
	}

	if !target.IsValid() {
		text, err := services.FetchText(ctx, client.R(), http.MethodGet, selfURL(family))
		if err != nil {
			return s.Failed(err)
		}
		addr, ok := services.ParseAddr(text)
		if !ok {
			return services.ParseIPFailure(Name, services.MsgParseIP)
		}
		target = addr
	}

	body, err := services.Fetch(ctx, client.R(), http.MethodGet, lookupURL+target.String())
	if err != nil {
		return s.Failed(err)
	}
	return parse(body, target)
}

func selfURL(family httpclient.Family) string {
	if family == httpclient.FamilyIPv6 {
		return selfIPv6URL
	}
	return selfIPv4URL
}

// parse maps the lookup response. The API may omit ip, in which case the
// queried address is reported.
func parse(body jsoniter.Any, queried netip.Addr) services.Result {
	ip := queried
	if services.Has(body, "ip") {
		addr, ok := services.Addr(body, "ip")
		if !ok {
			return services.ParseIPFailure(Name, services.MsgParseIP)
		}
		ip = addr
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
	result.Risk = services.NewRisk(nil, services.Flags{}.
		Add(services.Flag(body, "isProxy"), services.TagProxy).
		Add(services.Flag(body, "isHosting"), services.TagHosting)...)
	return result
}

// Package ipquery implements the ipquery.io adapter.
package ipquery

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
	ID = "ipquery"
	// Name is the provider name reported in results.
	Name = "IpQuery.io"
	// Mode declares that ipquery.io serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	baseURL = "https://api.ipquery.io/"
	format  = "?format=json"
)

// Service queries ipquery.io, the only free provider that reports a risk score.
type Service struct {
	services.Prober
}

// NewService creates a new ipquery.io service.
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
	url := baseURL + format
	if target.IsValid() {
		url = baseURL + target.String() + format
	}
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, url, parse))
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "ip")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "isp", "asn")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "isp", "org"))
	result.Region = services.NewRegion(
		services.Text(body, "location", "country"),
		services.Text(body, "location", "state"),
		services.Text(body, "location", "city"),
		services.CoordinatesAt(body, []any{"location", "latitude"}, []any{"location", "longitude"}),
		services.Text(body, "location", "timezone"),
	)

	tags := services.Flags{}.
		Add(services.Flag(body, "risk", "is_mobile"), services.TagMobile).
		Add(services.Flag(body, "risk", "is_vpn"), services.OtherTag("vpn")).
		Add(services.Flag(body, "risk", "is_tor"), services.TagTor).
		Add(services.Flag(body, "risk", "is_proxy"), services.TagProxy).
		Add(services.Flag(body, "risk", "is_datacenter"), services.TagHosting)
	result.Risk = services.NewRisk(services.Score(body, "risk", "risk_score"), tags...)
	return result
}

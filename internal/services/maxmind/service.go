// Package maxmind implements the MaxMind GeoIP2 web demo adapter.
//
// The demo is a two-step flow: a token is issued by www.maxmind.com together
// with a session cookie, then presented as a bearer token to the GeoIP2
// precision API. Both steps go through the same client so the cookie jar
// carries the session.
package maxmind

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
	ID = "maxmind"
	// Name is the provider name reported in results.
	Name = "Maxmind.com"
	// Mode declares that the MaxMind demo serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	tokenURL  = "https://www.maxmind.com/en/geoip2/demo/token"
	lookupURL = "https://geoip.maxmind.com/geoip/v2.1/city/"
)

// Service queries the MaxMind GeoIP2 City demo.
type Service struct {
	services.Prober
}

// NewService creates a new MaxMind service.
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
	return services.RunProbes(Name, func() services.Result {
		return s.lookup(ctx, target)
	})
}

func (s *Service) lookup(ctx context.Context, target netip.Addr) services.Result {
	client, err := s.Client(httpclient.FamilyAny)
	if err != nil {
		return s.Failed(err)
	}

	tokenBody, err := services.Fetch(ctx, client.R(), http.MethodPost, tokenURL)
	if err != nil {
		return s.Failed(err)
	}
	token, ok := services.String(tokenBody, "token")
	if !ok {
		return services.RequestFailure(Name, "unable to get token")
	}

	subject := "me"
	if target.IsValid() {
		subject = target.String()
	}
	body, err := services.Fetch(ctx, client.R().SetBearerAuthToken(token), http.MethodGet, lookupURL+subject+"?demo=1")
	if err != nil {
		return s.Failed(err)
	}
	return parse(body)
}

func parse(body jsoniter.Any) services.Result {
	ip, ok := services.Addr(body, "traits", "ip_address")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	asn, asnOK := services.ASNumber(body, "traits", "autonomous_system_number")
	result.AS = services.NewAS(asn, asnOK, services.Text(body, "traits", "autonomous_system_organization"))
	result.Region = services.NewRegion(
		services.Text(body, "country", "names", "en"),
		services.Text(body, "subdivisions", 0, "names", "en"),
		services.Text(body, "city", "names", "en"),
		services.CoordinatesAt(body, []any{"location", "latitude"}, []any{"location", "longitude"}),
		services.Text(body, "location", "time_zone"),
	)

	userType := services.Text(body, "traits", "user_type")
	tags := services.Flags{}.
		Add(userType == "hosting" || services.Flag(body, "traits", "is_hosting_provider"), services.TagHosting).
		Add(userType == "cellular", services.TagMobile).
		Add(services.Flag(body, "traits", "is_tor_exit_node"), services.TagTor).
		Add(services.Flag(body, "traits", "is_public_proxy") || services.Flag(body, "traits", "is_anonymous_proxy"), services.TagProxy).
		Add(services.Flag(body, "traits", "is_anonymous_vpn"), services.OtherTag("vpn")).
		Add(services.Flag(body, "traits", "is_residential_proxy"), services.OtherTag("residential_proxy"))
	result.Risk = services.NewRisk(nil, tags...)
	return result
}

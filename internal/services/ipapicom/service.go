// Package ipapicom implements the ip-api.com adapter.
package ipapicom

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
	ID = "ipapicom"
	// Name is the provider name reported in results.
	Name = "Ip-Api.com"
	// Mode declares that ip-api.com serves self and target lookups.
	Mode = services.ModeBoth
	// Families describes the probes the adapter runs.
	Families = "any"

	// The free tier is plain HTTP only.
	baseURL = "http://ip-api.com/json/"
	fields  = "?fields=status,message,country,regionName,city,lat,lon,timezone,as,asname,mobile,proxy,hosting,query"
)

// Service queries ip-api.com.
type Service struct {
	services.Prober
}

// NewService creates a new ip-api.com service.
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
	return services.RunProbes(Name, s.JSONProbe(ctx, httpclient.FamilyAny, lookupURL(target), parse))
}

func lookupURL(target netip.Addr) string {
	if !target.IsValid() {
		return baseURL + fields
	}
	return baseURL + target.String() + fields
}

func parse(body jsoniter.Any) services.Result {
	if status, _ := services.String(body, "status"); status != "success" {
		msg, ok := services.String(body, "message")
		if !ok {
			msg = "lookup failed"
		}
		return services.RequestFailure(Name, msg)
	}
	ip, ok := services.Addr(body, "query")
	if !ok {
		return services.ParseIPFailure(Name, services.MsgParseIP)
	}

	result := services.Succeeded(Name, ip)
	if as, ok := services.SplitAS(services.Text(body, "as")); ok {
		if as.Name == "" {
			as.Name = services.Text(body, "asname")
		}
		result.AS = as
	}
	result.Region = services.NewRegion(
		services.Text(body, "country"),
		services.Text(body, "regionName"),
		services.Text(body, "city"),
		services.CoordinatesAt(body, []any{"lat"}, []any{"lon"}),
		services.Text(body, "timezone"),
	)
	tags := services.Flags{}.
		Add(services.Flag(body, "mobile"), services.TagMobile).
		Add(services.Flag(body, "proxy"), services.TagProxy).
		Add(services.Flag(body, "hosting"), services.TagHosting)
	result.Risk = services.NewRisk(nil, tags...)
	return result
}

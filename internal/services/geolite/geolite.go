// Package geolite implements an offline adapter backed by local MaxMind
// GeoLite2 City and ASN databases.
package geolite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"strconv"

	"github.com/oschwald/geoip2-golang"

	"github.com/tbckr/vantage/internal/services"
)

const (
	// ID is the provider selection key.
	ID = "geolite"
	// Name is the provider name reported in results.
	Name = "GeoLite2"
	// Mode declares that local databases can only answer for explicit targets.
	Mode = services.ModeTarget
	// Families describes the probes the adapter runs.
	Families = "local database"

	msgReadDatabase = "unable to read database"
)

// CityReader is the part of *geoip2.Reader used for location lookups.
type CityReader interface {
	City(ip net.IP) (*geoip2.City, error)
}

// ASNReader is the part of *geoip2.Reader used for AS lookups.
type ASNReader interface {
	ASN(ip net.IP) (*geoip2.ASN, error)
}

// Databases holds the opened readers. Either may be nil.
type Databases struct {
	City CityReader
	ASN  ASNReader
}

// Open opens the databases at the given paths. An empty path skips that
// database; when both are empty Open returns nil, nil.
func Open(cityPath, asnPath string) (*Databases, error) {
	if cityPath == "" && asnPath == "" {
		return nil, nil
	}
	db := &Databases{}
	if cityPath != "" {
		r, err := geoip2.Open(cityPath)
		if err != nil {
			return nil, fmt.Errorf("opening city database: %w", err)
		}
		db.City = r
	}
	if asnPath != "" {
		r, err := geoip2.Open(asnPath)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("opening asn database: %w", err)
		}
		db.ASN = r
	}
	return db, nil
}

// Close releases every reader that implements io.Closer.
func (db *Databases) Close() error {
	if db == nil {
		return nil
	}
	var errs []error
	for _, r := range []any{db.City, db.ASN} {
		if c, ok := r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Service answers lookups from the local databases without network access.
type Service struct {
	db     *Databases
	logger *slog.Logger
}

// NewService creates a new GeoLite2 service.
func NewService(db *Databases, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Name returns the provider name.
func (s *Service) Name() string { return Name }

// Check looks target up in the configured databases.
func (s *Service) Check(_ context.Context, target netip.Addr) []services.Result {
	if results, ok := services.CheckMode(Name, Mode, target); !ok {
		return results
	}
	return services.RunProbes(Name, func() services.Result {
		return s.lookup(target)
	})
}

func (s *Service) lookup(target netip.Addr) services.Result {
	if s.db == nil || (s.db.City == nil && s.db.ASN == nil) {
		return services.RequestFailure(Name, "no database configured")
	}
	ip := net.IP(target.Unmap().AsSlice())
	result := services.Succeeded(Name, target)

	if s.db.City != nil {
		city, err := s.db.City.City(ip)
		if err != nil {
			s.logger.Debug("city lookup failed", "provider", Name, "error", err)
			return services.RequestFailure(Name, msgReadDatabase)
		}
		result.Region = region(city)
		result.Risk = services.NewRisk(nil, services.Flags{}.
			Add(city.Traits.IsAnonymousProxy, services.TagProxy).
			Add(city.Traits.IsSatelliteProvider, services.OtherTag("satellite"))...)
	}
	if s.db.ASN != nil {
		asn, err := s.db.ASN.ASN(ip)
		if err != nil {
			s.logger.Debug("asn lookup failed", "provider", Name, "error", err)
			return services.RequestFailure(Name, msgReadDatabase)
		}
		if asn.AutonomousSystemNumber != 0 {
			result.AS = &services.AS{
				Number: uint32(asn.AutonomousSystemNumber),
				Name:   services.Sanitize(asn.AutonomousSystemOrganization),
			}
		}
	}
	return result
}

func region(city *geoip2.City) *services.Region {
	var subdivision string
	if len(city.Subdivisions) > 0 {
		subdivision = city.Subdivisions[0].Names["en"]
	}
	var coords *services.Coordinates
	if loc := city.Location; loc.Latitude != 0 || loc.Longitude != 0 {
		coords = &services.Coordinates{
			Lat: strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			Lon: strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
		}
	}
	return services.NewRegion(
		services.Sanitize(city.Country.Names["en"]),
		services.Sanitize(subdivision),
		services.Sanitize(city.City.Names["en"]),
		coords,
		services.Sanitize(city.Location.TimeZone),
	)
}

package lookup

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tbckr/vantage/internal/apperr"
	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/services/baidu"
	"github.com/tbckr/vantage/internal/services/cloudflare"
	"github.com/tbckr/vantage/internal/services/dbip"
	"github.com/tbckr/vantage/internal/services/freeipapi"
	"github.com/tbckr/vantage/internal/services/geolite"
	"github.com/tbckr/vantage/internal/services/httpbin"
	"github.com/tbckr/vantage/internal/services/identme"
	"github.com/tbckr/vantage/internal/services/ipapico"
	"github.com/tbckr/vantage/internal/services/ipapicom"
	"github.com/tbckr/vantage/internal/services/ipchecking"
	"github.com/tbckr/vantage/internal/services/ipinfoio"
	"github.com/tbckr/vantage/internal/services/ipipnet"
	"github.com/tbckr/vantage/internal/services/iplark"
	"github.com/tbckr/vantage/internal/services/ipquery"
	"github.com/tbckr/vantage/internal/services/ipsb"
	"github.com/tbckr/vantage/internal/services/ipwhois"
	"github.com/tbckr/vantage/internal/services/itdog"
	"github.com/tbckr/vantage/internal/services/maxmind"
	"github.com/tbckr/vantage/internal/services/myipla"
)

// Deps are the shared dependencies providers are built from.
type Deps struct {
	Clients services.ClientFactory
	Logger  *slog.Logger
	// GeoLite is nil unless a local database was configured.
	GeoLite *geolite.Databases
}

// Entry describes one registered provider.
type Entry struct {
	ID       string
	Name     string
	Mode     services.Mode
	Families string
	// Local marks providers that answer from local data and must be configured.
	Local bool

	build func(Deps) services.Provider
}

// httpEntry registers an adapter whose constructor takes the shared client factory.
func httpEntry[P services.Provider](id, name string, mode services.Mode, families string,
	newService func(services.ClientFactory, *slog.Logger) P,
) Entry {
	return Entry{
		ID:       id,
		Name:     name,
		Mode:     mode,
		Families: families,
		build: func(d Deps) services.Provider {
			return newService(d.Clients, d.Logger)
		},
	}
}

var registry = []Entry{
	httpEntry(ipipnet.ID, ipipnet.Name, ipipnet.Mode, ipipnet.Families, ipipnet.NewService),
	httpEntry(cloudflare.ID, cloudflare.Name, cloudflare.Mode, cloudflare.Families, cloudflare.NewService),
	httpEntry(ipapicom.ID, ipapicom.Name, ipapicom.Mode, ipapicom.Families, ipapicom.NewService),
	httpEntry(ipinfoio.ID, ipinfoio.Name, ipinfoio.Mode, ipinfoio.Families, ipinfoio.NewService),
	httpEntry(ipapico.ID, ipapico.Name, ipapico.Mode, ipapico.Families, ipapico.NewService),
	httpEntry(ipsb.ID, ipsb.Name, ipsb.Mode, ipsb.Families, ipsb.NewService),
	httpEntry(ipwhois.ID, ipwhois.Name, ipwhois.Mode, ipwhois.Families, ipwhois.NewService),
	httpEntry(freeipapi.ID, freeipapi.Name, freeipapi.Mode, freeipapi.Families, freeipapi.NewService),
	httpEntry(ipquery.ID, ipquery.Name, ipquery.Mode, ipquery.Families, ipquery.NewService),
	httpEntry(dbip.ID, dbip.Name, dbip.Mode, dbip.Families, dbip.NewService),
	httpEntry(myipla.ID, myipla.Name, myipla.Mode, myipla.Families, myipla.NewService),
	httpEntry(httpbin.ID, httpbin.Name, httpbin.Mode, httpbin.Families, httpbin.NewService),
	httpEntry(maxmind.ID, maxmind.Name, maxmind.Mode, maxmind.Families, maxmind.NewService),
	httpEntry(baidu.ID, baidu.Name, baidu.Mode, baidu.Families, baidu.NewService),
	httpEntry(identme.ID, identme.Name, identme.Mode, identme.Families, identme.NewService),
	httpEntry(iplark.ID, iplark.Name, iplark.Mode, iplark.Families, iplark.NewService),
	httpEntry(itdog.ID, itdog.Name, itdog.Mode, itdog.Families, itdog.NewService),
	httpEntry(ipchecking.ID, ipchecking.Name, ipchecking.Mode, ipchecking.Families, ipchecking.NewService),
	{
		ID:       geolite.ID,
		Name:     geolite.Name,
		Mode:     geolite.Mode,
		Families: geolite.Families,
		Local:    true,
		build: func(d Deps) services.Provider {
			return geolite.NewService(d.GeoLite, d.Logger)
		},
	},
}

// Registry returns every known provider in registration order.
func Registry() []Entry {
	return slices.Clone(registry)
}

// IDs returns the selection key of every known provider.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, e := range registry {
		ids[i] = e.ID
	}
	return ids
}

// Select builds the providers named by ids. An empty selection means every
// provider that can run with deps; local providers are skipped when
// unconfigured. Unknown IDs, or a local provider named explicitly without its
// data, yield an error wrapping apperr.ErrInvalidInput. Duplicates collapse.
func Select(ids []string, deps Deps) ([]services.Provider, error) {
	if len(ids) == 0 {
		var providers []services.Provider
		for _, e := range registry {
			if e.Local && !deps.hasLocal(e.ID) {
				continue
			}
			providers = append(providers, e.build(deps))
		}
		return providers, nil
	}

	var (
		providers []services.Provider
		seen      = make(map[string]bool, len(ids))
	)
	for _, raw := range ids {
		id := strings.ToLower(strings.TrimSpace(raw))
		if seen[id] {
			continue
		}
		seen[id] = true

		i := slices.IndexFunc(registry, func(e Entry) bool { return e.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: unknown provider %q (known: %s)", apperr.ErrInvalidInput, raw, strings.Join(IDs(), ", "))
		}
		e := registry[i]
		if e.Local && !deps.hasLocal(e.ID) {
			return nil, fmt.Errorf("%w: provider %q needs --geoip-city or --geoip-asn", apperr.ErrInvalidInput, e.ID)
		}
		providers = append(providers, e.build(deps))
	}
	return providers, nil
}

func (d Deps) hasLocal(id string) bool {
	switch id {
	case geolite.ID:
		return d.GeoLite != nil
	default:
		return false
	}
}

// Package lookup fans a query out to the selected providers and folds their
// records into one sorted batch.
package lookup

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/worker"
)

const (
	msgAbnormal = "provider terminated abnormally"
	msgNoResult = "provider returned no result"
)

// Engine runs one lookup across a fixed set of providers.
type Engine struct {
	providers []services.Provider
	logger    *slog.Logger
}

// New returns an Engine over providers.
func New(providers []services.Provider, logger *slog.Logger) *Engine {
	return &Engine{providers: providers, logger: logger}
}

// Run checks target against every provider concurrently and returns the
// flattened, sorted records. An invalid target requests a self-lookup.
//
// Run never fails: every provider contributes at least one record, and a
// provider that panics is represented by a JSONParse failure.
func (e *Engine) Run(ctx context.Context, target netip.Addr) []services.Result {
	jobs := make([]worker.Job[[]services.Result], len(e.providers))
	for i, p := range e.providers {
		jobs[i] = worker.Job[[]services.Result]{
			Name: p.Name(),
			Fn: func(ctx context.Context) []services.Result {
				return p.Check(ctx, target)
			},
		}
	}

	var results []services.Result
	for _, o := range worker.Run(ctx, jobs, 0) {
		switch {
		case o.Panic != nil:
			e.logger.Warn(msgAbnormal, "provider", o.Name, "panic", o.Panic.Value)
			results = append(results, services.JSONParseFailure(o.Name, msgAbnormal))
		case len(o.Value) == 0:
			e.logger.Warn(msgNoResult, "provider", o.Name)
			results = append(results, services.JSONParseFailure(o.Name, msgNoResult))
		default:
			results = append(results, o.Value...)
		}
	}
	services.Sort(results)
	return results
}

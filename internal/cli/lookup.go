package cli

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tbckr/vantage/internal/apperr"
	"github.com/tbckr/vantage/internal/lookup"
	"github.com/tbckr/vantage/internal/services"
	"github.com/tbckr/vantage/internal/worker"
)

func runLookup(cmd *cobra.Command, d *deps, args []string) error {
	inputs, err := resolveInputs(cmd, args)
	if err != nil {
		return err
	}
	targets, err := parseTargets(inputs)
	if err != nil {
		return err
	}

	engine, closeDB, err := d.newEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	reports := lookupAll(cmd.Context(), d, engine, targets)
	return writeResult(cmd.OutOrStdout(), d, reports)
}

// resolveInputs returns positional args, or reads non-empty lines from stdin
// when it is piped. With neither, the result is a single self-lookup.
func resolveInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int on all supported platforms
		return []string{lookup.SelfTarget}, nil
	}
	inputs, err := worker.ReadInputs(r)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return []string{lookup.SelfTarget}, nil
	}
	return inputs, nil
}

// parseTargets converts inputs to lookup targets. "self" maps to the zero
// Addr; zones are dropped and IPv4-mapped IPv6 addresses are unmapped.
func parseTargets(inputs []string) ([]netip.Addr, error) {
	targets := make([]netip.Addr, 0, len(inputs))
	for _, in := range inputs {
		s := strings.TrimSpace(in)
		if strings.EqualFold(s, lookup.SelfTarget) {
			targets = append(targets, netip.Addr{})
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an IP address", apperr.ErrInvalidInput, in)
		}
		targets = append(targets, addr.WithZone("").Unmap())
	}
	return targets, nil
}

// lookupAll runs engine for every target, at most cfg.Concurrency at a time,
// and returns the reports in target order.
func lookupAll(ctx context.Context, d *deps, engine *lookup.Engine, targets []netip.Addr) lookup.Reports {
	jobs := make([]worker.Job[[]services.Result], len(targets))
	for i, target := range targets {
		jobs[i] = worker.Job[[]services.Result]{
			Name: targetLabel(target),
			Fn: func(ctx context.Context) []services.Result {
				return engine.Run(ctx, target)
			},
		}
	}

	outcomes := worker.Run(ctx, jobs, d.cfg.Concurrency)
	reports := make(lookup.Reports, len(outcomes))
	for i, o := range outcomes {
		if o.Panic != nil {
			d.logger.Error("lookup terminated abnormally", "target", o.Name, "panic", o.Panic.Value)
		}
		reports[i] = lookup.Report{Target: o.Name, Results: o.Value}
	}
	return reports
}

func targetLabel(target netip.Addr) string {
	if !target.IsValid() {
		return lookup.SelfTarget
	}
	return target.String()
}

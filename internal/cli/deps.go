package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/config"
	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/lookup"
	"github.com/tbckr/vantage/internal/output"
	"github.com/tbckr/vantage/internal/services/geolite"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
	format output.Format
}

// buildDeps resolves config, logger and output format.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Concurrency)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	logger.Debug("config resolved",
		"file", cfg.ConfigFile,
		"proxy", httpclient.ResolveProxy(cfg.Proxy),
		"concurrency", cfg.Concurrency,
	)

	return &deps{cfg: cfg, logger: logger, format: format}, nil
}

// newEngine opens the local databases, builds the selected providers and
// returns an engine over them. The returned close func releases the databases.
func (d *deps) newEngine() (*lookup.Engine, func(), error) {
	clients, err := httpclient.NewFactory(httpclient.Options{
		UserAgent: d.cfg.UserAgent,
		Proxy:     d.cfg.Proxy,
		Logger:    d.logger,
		Debug:     d.cfg.Verbose,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating HTTP client factory: %w", err)
	}

	db, err := geolite.Open(d.cfg.GeoIPCity, d.cfg.GeoIPASN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			d.logger.Warn("closing geolite databases", "error", err)
		}
	}

	providers, err := lookup.Select(d.cfg.Providers, lookup.Deps{
		Clients: clients,
		Logger:  d.logger,
		GeoLite: db,
	})
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	d.logger.Debug("providers selected", "count", len(providers))

	return lookup.New(providers, d.logger), closeDB, nil
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, d.format, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

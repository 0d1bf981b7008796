package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Inspect the effective vantage configuration",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

// configRow holds one key-value pair for display.
type configRow struct {
	key   string
	value string
}

// configRows is the effective configuration in file-key order.
type configRows []configRow

// buildConfigRows reads from the resolved config, so values reflect
// defaults, the file, the environment and flags alike.
func buildConfigRows(d *deps) configRows {
	return configRows{
		{"concurrency", strconv.Itoa(d.cfg.Concurrency)},
		{"geoip_asn", d.cfg.GeoIPASN},
		{"geoip_city", d.cfg.GeoIPCity},
		{"output", d.cfg.Output},
		{"providers", strings.Join(d.cfg.Providers, ",")},
		{"proxy", d.cfg.Proxy},
		{"user_agent", d.cfg.UserAgent},
		{"verbose", strconv.FormatBool(d.cfg.Verbose)},
	}
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, buildConfigRows(d))
		},
	}
}

// MarshalJSON renders the rows as a single object.
func (rows configRows) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.key] = r.value
	}
	return json.Marshal(m)
}

// WriteTable implements output.TableFormattable.
func (rows configRows) WriteTable(w io.Writer) error {
	tableRows := make([][]string, len(rows))
	for i, r := range rows {
		tableRows[i] = []string{r.key, r.value}
	}
	return output.Table{
		Header:      []string{"KEY", "VALUE"},
		Rows:        tableRows,
		MinColWidth: 20,
		Overhead:    6,
	}.Render(w)
}

// WritePlain implements output.PlainFormattable.
func (rows configRows) WritePlain(w io.Writer) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s=%s\n", r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}

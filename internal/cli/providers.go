package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/lookup"
	"github.com/tbckr/vantage/internal/output"
)

type providerEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	Families string `json:"families"`
	Local    bool   `json:"local,omitempty"`
}

type providerList []providerEntry

// allProviders returns every registered provider in registration order.
func allProviders() providerList {
	reg := lookup.Registry()
	entries := make(providerList, len(reg))
	for i, e := range reg {
		entries[i] = providerEntry{
			ID:       e.ID,
			Name:     e.Name,
			Mode:     e.Mode.String(),
			Families: e.Families,
			Local:    e.Local,
		}
	}
	return entries
}

func newProvidersCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "providers",
		Short:   "List every provider and the lookups it supports",
		Args:    cobra.NoArgs,
		GroupID: "utility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, allProviders())
		},
	}
}

// WriteTable implements output.TableFormattable.
func (l providerList) WriteTable(w io.Writer) error {
	rows := make([][]string, len(l))
	for i, e := range l {
		source := "http"
		if e.Local {
			source = "local"
		}
		rows[i] = []string{e.ID, e.Name, e.Mode, e.Families, source}
	}
	return output.Table{
		Header:      []string{"ID", "Provider", "Mode", "Families", "Source"},
		Rows:        rows,
		MinColWidth: 12,
		Overhead:    50,
	}.Render(w)
}

// WritePlain implements output.PlainFormattable.
func (l providerList) WritePlain(w io.Writer) error {
	for _, e := range l {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Mode, e.Families); err != nil {
			return err
		}
	}
	return nil
}

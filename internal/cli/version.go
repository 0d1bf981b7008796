package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/output"
	"github.com/tbckr/vantage/internal/version"
)

func newVersionCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the vantage version",
		Args:    cobra.NoArgs,
		GroupID: "utility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			if d.format == output.FormatJSON {
				return writeResult(cmd.OutOrStdout(), d, info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
}

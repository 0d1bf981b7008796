// Package cli provides the Cobra command tree and output wiring for vantage.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/config"
	"github.com/tbckr/vantage/internal/lookup"
	"github.com/tbckr/vantage/internal/version"
)

// newRootCmd builds the top-level Cobra command for vantage.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// Cobra only executes the innermost PersistentPreRunE, so subcommands must
	// not define their own unless they never touch d.
	var d deps

	cmd := &cobra.Command{
		Use:   "vantage [ip...]",
		Short: "Ask many public IP intelligence services about an address at once",
		Long: `Vantage queries public IP intelligence services concurrently and prints
what each of them reports: address, autonomous system, region and risk.

Without arguments vantage looks up the address you are connecting from, over
IPv4 and IPv6 where the service supports it. Pass one or more addresses, or
pipe them on stdin one per line, to look those up instead. The literal "self"
requests a self-lookup alongside explicit targets.`,
		Example: `  vantage
  vantage 1.1.1.1 2606:4700:4700::1111
  vantage -p ipinfoio,ipsb -o json 8.8.8.8
  cat addresses.txt | vantage -o plain`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, &d, args)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd, lookup.IDs())

	cmd.Version = version.Current().Version
	cmd.SetVersionTemplate("vantage version {{.Version}}\n")

	cmd.AddGroup(&cobra.Group{ID: "utility", Title: "Utility Commands:"})

	cmd.AddCommand(
		newProvidersCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with args under ctx.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("vantage: %w", err)
	}
	return nil
}

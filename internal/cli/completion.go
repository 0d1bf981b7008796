package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type completionShell struct {
	name  string
	setup string
	gen   func(root *cobra.Command, w io.Writer) error
}

var completionShells = []completionShell{
	{
		name: "bash",
		setup: `  $ source <(vantage completion bash)
  $ vantage completion bash > /etc/bash_completion.d/vantage`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		name: "zsh",
		setup: `  $ source <(vantage completion zsh)
  $ vantage completion zsh > "${fpath[1]}/_vantage"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		setup: `  $ vantage completion fish | source
  $ vantage completion fish > ~/.config/fish/completions/vantage.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name:  "powershell",
		setup: `  PS> vantage completion powershell | Out-String | Invoke-Expression`,
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

func newCompletionCmd() *cobra.Command {
	completion := &cobra.Command{
		Use:     "completion [bash|zsh|fish|powershell]",
		Short:   "Generate shell completion scripts",
		GroupID: "utility",
		Long: `Generate shell completion scripts for vantage.

Load them into the current session, or write them once to the directory your
shell reads completions from. See "vantage completion <shell> --help".`,
		// Completion never loads config; deps stay zero-valued.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}

	for _, sh := range completionShells {
		completion.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 "Generate " + sh.name + " completion script",
			Long:                  "Generate the autocompletion script for " + sh.name + ".\n\n" + sh.setup,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return sh.gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}

	return completion
}

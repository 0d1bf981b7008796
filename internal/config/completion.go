package config

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/vantage/internal/output"
)

// CompleteOutputFormat provides shell completion candidates for the --output flag.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	vals := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		vals[i] = string(f)
	}
	return vals, cobra.ShellCompDirectiveNoFileComp
}

// ProviderCompletion returns a completion function offering ids for the
// --providers flag.
func ProviderCompletion(ids []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// RegisterFlagCompletions wires completion for the flags added by
// RegisterFlags onto cmd's persistent flags.
func RegisterFlagCompletions(cmd *cobra.Command, providerIDs []string) {
	_ = cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat)
	_ = cmd.RegisterFlagCompletionFunc("providers", ProviderCompletion(providerIDs))
	_ = cmd.RegisterFlagCompletionFunc("geoip-city", databaseCompletion)
	_ = cmd.RegisterFlagCompletionFunc("geoip-asn", databaseCompletion)
}

func databaseCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"mmdb"}, cobra.ShellCompDirectiveFilterFileExt
}

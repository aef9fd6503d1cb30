package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the configured embedding function",
		Long: `Resolve the configured provider into an embedding function without
calling it. Useful for checking a config file before deploying it.

Examples:
  embedkit resolve --config embedkit.yaml
  EMBEDDING_PROVIDER=ollama embedkit resolve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			_, fn, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provider %s resolved (%T)\n", a.providerLabel(), fn)
			return nil
		},
	}
}

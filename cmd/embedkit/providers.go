package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fyrsmithlabs/embedkit/internal/embedder"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func newProvidersCmd(opts *options) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported embedding providers",
		Long: `List the provider identifiers accepted in embedder.provider, in
registration order. The provider selected by the current configuration is
marked.

Examples:
  embedkit providers
  embedkit providers --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			out := cmd.OutOrStdout()
			providers := a.resolver.Providers()
			if plain {
				for _, p := range providers {
					fmt.Fprintln(out, p)
				}
				return nil
			}
			fmt.Fprintln(out, renderProviders(providers, a.providerLabel()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print one identifier per line without styling")
	return cmd
}

func renderProviders(providers []embedder.ProviderID, active string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Embedding providers"))
	b.WriteString("\n")
	for _, p := range providers {
		if string(p) == active {
			b.WriteString(activeStyle.Render("* " + string(p)))
			b.WriteString(dimStyle.Render("  (configured)"))
		} else {
			b.WriteString("  " + string(p))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

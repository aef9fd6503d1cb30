// Package main implements the embedkit CLI: list providers, resolve the
// configured embedding function, embed text, or serve it over HTTP.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set via ldflags during build.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "embedkit",
		Short: "Resolve and run embedding providers",
		Long: `embedkit turns a provider name plus a provider config into a ready
embedding function.

Without --config the environment defaults are used:
  EMBEDDING_PROVIDER  provider identifier (default openai)
  OPENAI_API_KEY      api key for the default provider
  EMBEDDING_MODEL     model name (default text-embedding-3-small)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML or TOML config file")

	root.AddCommand(
		newProvidersCmd(opts),
		newResolveCmd(opts),
		newEmbedCmd(opts),
		newServeCmd(opts),
	)
	return root
}

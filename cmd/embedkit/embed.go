package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	httpserver "github.com/fyrsmithlabs/embedkit/internal/http"
	"github.com/spf13/cobra"
)

func newEmbedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "embed [text...|-]",
		Short: "Embed text with the configured provider",
		Long: `Embed each argument as one document and print the vectors as JSON.
With "-" (or no arguments) documents are read from stdin, one per line;
blank lines are skipped.

Examples:
  embedkit embed "first document" "second document"
  cat docs.txt | embedkit embed -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			documents, err := readDocuments(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			ctx, fn, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}
			vectors, err := fn.Embed(ctx, documents)
			if err != nil {
				return fmt.Errorf("embedding failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(httpserver.EmbedResponse{Vectors: vectors, Count: len(vectors)})
		},
	}
}

// readDocuments returns args as documents, or stdin lines for "-" or no
// arguments.
func readDocuments(stdin io.Reader, args []string) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}

	var documents []string
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			documents = append(documents, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(documents) == 0 {
		return nil, errors.New("no documents to embed")
	}
	return documents, nil
}

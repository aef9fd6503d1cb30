//go:build nowatsonx

package watsonx

import (
	"context"

	"github.com/fyrsmithlabs/embedkit/internal/logging"
)

// Available reports whether the client is compiled in.
const Available = false

// Client is a placeholder when built with nowatsonx.
type Client struct{}

// New always returns ErrUnavailable.
func New(_ Config, _ *logging.Logger) (*Client, error) {
	return nil, ErrUnavailable
}

// Embed always returns ErrUnavailable.
func (c *Client) Embed(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

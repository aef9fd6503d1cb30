// Package tei calls a Hugging Face text-embeddings-inference server.
//
// The configured URL is the full embed endpoint (for example
// http://localhost:8080/embed). Requests carry every document in one
// {"inputs": [...]} body and the server answers with one vector per input.
package tei

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Config holds configuration for the TEI client.
type Config struct {
	// URL is the embed endpoint.
	URL string

	// APIKey is sent as a bearer token when set (Inference Endpoints).
	APIKey string

	// Truncate asks the server to cut inputs at the model's max length.
	Truncate bool

	Timeout time.Duration
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: api_url required", ErrInvalidConfig)
	}
	return nil
}

// Client provides embedding generation against a TEI server.
type Client struct {
	config Config
	client *resty.Client
}

// New creates a Client with the given configuration.
func New(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(config.Timeout)
	if config.APIKey != "" {
		c.SetAuthToken(config.APIKey)
	}

	return &Client{config: config, client: c}, nil
}

// URL returns the embed endpoint.
func (c *Client) URL() string { return c.config.URL }

type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate,omitempty"`
}

// Embed generates embeddings for multiple texts.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&embedRequest{Inputs: texts, Truncate: c.config.Truncate}).
		Post(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode(), resp.String())
	}

	var vectors [][]float32
	if err := json.Unmarshal(resp.Body(), &vectors); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", ErrEmbeddingFailed, len(vectors), len(texts))
	}

	return vectors, nil
}

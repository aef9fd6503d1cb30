// Package ollama calls the Ollama embeddings API.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultURL is the local Ollama embeddings endpoint.
	DefaultURL = "http://localhost:11434/api/embeddings"

	// DefaultModel is used when no model is configured.
	DefaultModel = "nomic-embed-text"

	defaultTimeout = 5 * time.Minute
)

// ErrEmptyInput indicates an empty document.
var ErrEmptyInput = errors.New("empty input text")

// Config holds the endpoint and model for an Ollama client.
type Config struct {
	// URL is the full embeddings endpoint, not the server root.
	URL     string
	Model   string
	Timeout time.Duration
}

// Client embeds documents one request at a time against URL.
type Client struct {
	client *resty.Client
	url    string
	model  string
}

// New creates a Client, filling defaults for empty fields.
func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{client: c, url: cfg.URL, model: cfg.Model}
}

// URL returns the embeddings endpoint.
func (c *Client) URL() string { return c.url }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns one vector per document, in order.
func (c *Client) Embed(ctx context.Context, documents []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(documents))
	for i, doc := range documents {
		vec, err := c.embedOne(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (c *Client) embedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&embedRequest{Model: c.model, Prompt: text}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())
	}

	var er embedResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(er.Embedding) == 0 {
		return nil, errors.New("ollama returned an empty embedding")
	}

	vec := make([]float32, len(er.Embedding))
	for i, v := range er.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

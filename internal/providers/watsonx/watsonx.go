//go:build !nowatsonx

package watsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Available reports whether the client is compiled in.
const Available = true

// Client embeds documents through watsonx.ai. Every Embed call performs its
// own token exchange; nothing is cached between calls.
type Client struct {
	config Config
	client *resty.Client
	logger *logging.Logger
}

// New creates a Client. No network I/O happens until Embed.
func New(cfg Config, logger *logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	cfg = cfg.withDefaults()

	c := resty.New().SetTimeout(cfg.Timeout)

	return &Client{
		config: cfg,
		client: c,
		logger: logger.Named("watsonx"),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type returnOptions struct {
	InputText bool `json:"input_text"`
}

type embedParameters struct {
	TruncateInputTokens int           `json:"truncate_input_tokens"`
	ReturnOptions       returnOptions `json:"return_options"`
}

type embedRequest struct {
	Inputs     []string        `json:"inputs"`
	ModelID    string          `json:"model_id"`
	ProjectID  string          `json:"project_id"`
	Parameters embedParameters `json:"parameters"`
}

type embedResult struct {
	Embedding []float32 `json:"embedding"`
	Input     string    `json:"input,omitempty"`
}

type embedResponse struct {
	ModelID string        `json:"model_id"`
	Results []embedResult `json:"results"`
}

// Embed returns one vector per document. Failures are logged and returned.
func (c *Client) Embed(ctx context.Context, documents []string) ([][]float32, error) {
	vectors, err := c.embed(ctx, documents)
	if err != nil {
		c.logger.Error(ctx, "watson embedding failed",
			zap.String("model", c.config.Model),
			zap.Int("documents", len(documents)),
			zap.Error(err))
		return nil, err
	}
	return vectors, nil
}

func (c *Client) embed(ctx context.Context, documents []string) ([][]float32, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	body := embedRequest{
		Inputs:    documents,
		ModelID:   c.config.Model,
		ProjectID: c.config.ProjectID,
		Parameters: embedParameters{
			TruncateInputTokens: TruncateInputTokens,
			ReturnOptions:       returnOptions{InputText: true},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetQueryParam("version", APIVersion).
		SetBody(&body).
		Post(strings.TrimRight(c.config.URL, "/") + "/ml/v1/text/embeddings")
	if err != nil {
		return nil, fmt.Errorf("watsonx embeddings request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("watsonx embeddings status %d: %s", resp.StatusCode(), resp.String())
	}

	var er embedResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(er.Results) != len(documents) {
		return nil, fmt.Errorf("watsonx returned %d embeddings for %d documents", len(er.Results), len(documents))
	}

	vectors := make([][]float32, len(er.Results))
	for i, r := range er.Results {
		vectors[i] = r.Embedding
	}
	return vectors, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{
			"grant_type": "urn:ibm:params:oauth:grant-type:apikey",
			"apikey":     c.config.APIKey,
		}).
		Post(c.config.IAMURL)
	if err != nil {
		return "", fmt.Errorf("iam token request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("iam token status %d", resp.StatusCode())
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", fmt.Errorf("decode iam token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("iam token response missing access_token")
	}
	return tr.AccessToken, nil
}

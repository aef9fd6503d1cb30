// Package watsonx calls the IBM watsonx.ai text embeddings API.
//
// The client is optional: building with the nowatsonx tag drops it, and New
// then reports ErrUnavailable so callers can fail before first use.
package watsonx

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultIAMURL exchanges an IBM Cloud API key for a bearer token.
	DefaultIAMURL = "https://iam.cloud.ibm.com/identity/token"

	// APIVersion is the watsonx.ai REST version date sent on every call.
	APIVersion = "2024-05-01"

	// TruncateInputTokens is the fixed truncation sent with every request.
	TruncateInputTokens = 3

	defaultTimeout = time.Minute
)

// ErrUnavailable is returned by New when the client was compiled out.
var ErrUnavailable = errors.New("watsonx client not compiled in (built with nowatsonx)")

// ErrInvalidConfig indicates a missing required setting.
var ErrInvalidConfig = errors.New("invalid watsonx configuration")

// Config holds watsonx credentials and target model.
type Config struct {
	APIKey    string
	URL       string // regional endpoint, e.g. https://us-south.ml.cloud.ibm.com
	ProjectID string
	Model     string
	IAMURL    string
	Timeout   time.Duration
}

// Validate reports the first missing required field.
func (c Config) Validate() error {
	switch {
	case c.APIKey == "":
		return fmt.Errorf("%w: api_key required", ErrInvalidConfig)
	case c.URL == "":
		return fmt.Errorf("%w: api_url required", ErrInvalidConfig)
	case c.ProjectID == "":
		return fmt.Errorf("%w: project_id required", ErrInvalidConfig)
	case c.Model == "":
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.IAMURL == "" {
		c.IAMURL = DefaultIAMURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

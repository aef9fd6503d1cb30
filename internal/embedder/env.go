package embedder

import (
	"os"

	"github.com/fyrsmithlabs/embedkit/internal/config"
)

// Environment variables read on the default path.
const (
	EnvProvider = "EMBEDDING_PROVIDER"
	EnvAPIKey   = "OPENAI_API_KEY"
	EnvModel    = "EMBEDDING_MODEL"
)

// Built-in defaults used when the environment is silent.
const (
	DefaultProvider = OpenAI
	DefaultModel    = "text-embedding-3-small"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// EnvDefaults is the request synthesized when Resolve gets no request.
// Precedence for each field is environment, then built-in default. Empty
// variables count as unset.
type EnvDefaults struct {
	Provider string
	APIKey   config.Secret
	Model    string
}

// LoadEnvDefaults reads the defaults through lookup, or os.LookupEnv when
// lookup is nil.
func LoadEnvDefaults(lookup LookupFunc) EnvDefaults {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}
	return EnvDefaults{
		Provider: get(EnvProvider, string(DefaultProvider)),
		APIKey:   config.Secret(get(EnvAPIKey, "")),
		Model:    get(EnvModel, DefaultModel),
	}
}

// Request returns {provider, config: {api_key, model}}.
func (d EnvDefaults) Request() *Request {
	return &Request{
		Provider: d.Provider,
		Config: ProviderConfig{
			"api_key": d.APIKey.Value(),
			"model":   d.Model,
		},
	}
}

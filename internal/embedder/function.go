package embedder

import "context"

// EmbeddingFunction turns documents into vectors, one vector per document
// in input order.
type EmbeddingFunction interface {
	Embed(ctx context.Context, documents []string) ([][]float32, error)
}

// Func adapts an ordinary function to EmbeddingFunction.
type Func func(ctx context.Context, documents []string) ([][]float32, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, documents []string) ([][]float32, error) {
	return f(ctx, documents)
}

// Validator is implemented by embedding functions that can check their own
// configuration. Conform calls it before trusting a caller-supplied value.
type Validator interface {
	Validate() error
}

// ProviderID identifies a registered provider.
type ProviderID string

// Supported providers, in registration order.
const (
	OpenAI      ProviderID = "openai"
	Azure       ProviderID = "azure"
	Ollama      ProviderID = "ollama"
	VertexAI    ProviderID = "vertexai"
	Google      ProviderID = "google"
	Cohere      ProviderID = "cohere"
	VoyageAI    ProviderID = "voyageai"
	Bedrock     ProviderID = "bedrock"
	HuggingFace ProviderID = "huggingface"
	Watson      ProviderID = "watson"
	Custom      ProviderID = "custom"
)

func (p ProviderID) String() string { return string(p) }

// ProviderConfig holds provider-specific options such as api_key, model,
// url or session. Adapters read it and never modify it.
type ProviderConfig map[string]any

// Model returns the "model" entry when it is a non-empty string.
func (c ProviderConfig) Model() string {
	return lookupString(c, "model")
}

func lookupString(c ProviderConfig, key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Request selects a provider and its options.
//
// Provider is either a provider identifier (string or ProviderID) or an
// already-constructed EmbeddingFunction, in which case the registry is
// bypassed.
type Request struct {
	Provider any
	Config   ProviderConfig
}

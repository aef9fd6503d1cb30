package embedder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fyrsmithlabs/embedkit/internal/providers/ollama"
	"github.com/go-viper/mapstructure/v2"
)

// Provider defaults applied by the adapters. Providers not listed here fall
// back to their SDK's own default model.
const (
	DefaultAzureAPIType = "azure"
	DefaultOllamaURL    = ollama.DefaultURL
	DefaultVertexModel  = "text-embedding-004"
	DefaultCohereModel  = "embed-english-v3.0"
	DefaultBedrockModel = "amazon.titan-embed-text-v1"

	// DefaultVertexProject is the publisher project used when no project_id
	// is given.
	DefaultVertexProject = "cloud-large-language-models"
)

// OpenAIOptions configures the openai provider.
type OpenAIOptions struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"-"`
}

// AzureOptions configures the azure provider. Model is the deployment's
// embedding model name.
type AzureOptions struct {
	APIKey     string `mapstructure:"api_key"`
	APIBase    string `mapstructure:"api_base"`
	APIType    string `mapstructure:"api_type"`
	APIVersion string `mapstructure:"api_version"`
	Model      string `mapstructure:"-"`
}

// OllamaOptions configures the ollama provider. URL is the full embeddings
// endpoint.
type OllamaOptions struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"-"`
}

// VertexAIOptions configures the vertexai provider.
type VertexAIOptions struct {
	APIKey      string `mapstructure:"api_key"`
	ProjectID   string `mapstructure:"project_id"`
	APIEndpoint string `mapstructure:"api_endpoint"`
	Model       string `mapstructure:"-"`
}

// APIKeyOptions configures providers that take only a key and a model:
// google, cohere and voyageai.
type APIKeyOptions struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"-"`
}

// BedrockOptions configures the bedrock provider. Session holds an
// aws.Config, *aws.Config or *bedrockruntime.Client; when nil the default
// AWS credential chain is used, optionally pinned to Region.
type BedrockOptions struct {
	Session any    `mapstructure:"session"`
	Region  string `mapstructure:"region"`
	Model   string `mapstructure:"-"`
}

// HuggingFaceOptions configures the huggingface provider. APIURL is the
// embedding server's full embed endpoint.
type HuggingFaceOptions struct {
	APIURL   string `mapstructure:"api_url"`
	APIKey   string `mapstructure:"api_key"`
	Truncate bool   `mapstructure:"truncate"`
}

// WatsonOptions configures the watson provider.
type WatsonOptions struct {
	APIKey    string `mapstructure:"api_key"`
	APIURL    string `mapstructure:"api_url"`
	ProjectID string `mapstructure:"project_id"`
	Model     string `mapstructure:"-"`
}

// decodeOptions copies matching keys from cfg into out. Keys without a
// matching field are ignored; scalar types are converted leniently.
func decodeOptions(cfg ProviderConfig, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(cfg)); err != nil {
		return fmt.Errorf("decode provider config: %w", err)
	}
	return nil
}

var errNoBuilder = errors.New("no builder configured")

func openAIAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o OpenAIOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.APIKey == "" {
			lookup := b.LookupEnv
			if lookup == nil {
				lookup = os.LookupEnv
			}
			o.APIKey, _ = lookup(EnvAPIKey)
		}
		if b.OpenAI == nil {
			return nil, errNoBuilder
		}
		return b.OpenAI(ctx, o)
	}
}

func azureAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o AzureOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.APIType == "" {
			o.APIType = DefaultAzureAPIType
		}
		if o.APIKey == "" {
			return nil, errors.New("azure: api_key is required")
		}
		if o.APIBase == "" {
			return nil, errors.New("azure: api_base is required")
		}
		if b.Azure == nil {
			return nil, errNoBuilder
		}
		return b.Azure(ctx, o)
	}
}

func ollamaAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o OllamaOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.URL == "" {
			o.URL = DefaultOllamaURL
		}
		if b.Ollama == nil {
			return nil, errNoBuilder
		}
		return b.Ollama(ctx, o)
	}
}

func vertexAIAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o VertexAIOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.Model == "" {
			o.Model = DefaultVertexModel
		}
		if o.APIKey == "" {
			return nil, errors.New("vertexai: api_key is required")
		}
		if o.ProjectID == "" {
			o.ProjectID = DefaultVertexProject
		}
		if b.VertexAI == nil {
			return nil, errNoBuilder
		}
		return b.VertexAI(ctx, o)
	}
}

func googleAdapter(b Builders) Adapter {
	return apiKeyAdapter(Google, "", b.Google)
}

func cohereAdapter(b Builders) Adapter {
	return apiKeyAdapter(Cohere, DefaultCohereModel, b.Cohere)
}

func voyageAIAdapter(b Builders) Adapter {
	return apiKeyAdapter(VoyageAI, "", b.VoyageAI)
}

func apiKeyAdapter(id ProviderID, defaultModel string, build func(context.Context, APIKeyOptions) (EmbeddingFunction, error)) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o APIKeyOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.Model == "" {
			o.Model = defaultModel
		}
		if o.APIKey == "" {
			return nil, fmt.Errorf("%s: api_key is required", id)
		}
		if build == nil {
			return nil, errNoBuilder
		}
		return build(ctx, o)
	}
}

func bedrockAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o BedrockOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if o.Model == "" {
			o.Model = DefaultBedrockModel
		}
		if b.Bedrock == nil {
			return nil, errNoBuilder
		}
		return b.Bedrock(ctx, o)
	}
}

func huggingFaceAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, _ string) (EmbeddingFunction, error) {
		var o HuggingFaceOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		if o.APIURL == "" {
			return nil, errors.New("huggingface: api_url is required")
		}
		if b.HuggingFace == nil {
			return nil, errNoBuilder
		}
		return b.HuggingFace(ctx, o)
	}
}

func watsonAdapter(b Builders) Adapter {
	return func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error) {
		var o WatsonOptions
		if err := decodeOptions(cfg, &o); err != nil {
			return nil, err
		}
		o.Model = model
		if b.Watson == nil {
			return nil, errNoBuilder
		}
		return b.Watson(ctx, o)
	}
}

// customAdapter returns config["embedder"] after the same conformance check
// applied to instances passed as the provider.
func customAdapter(_ context.Context, cfg ProviderConfig, _ string) (EmbeddingFunction, error) {
	v, ok := cfg["embedder"]
	if !ok {
		return nil, invalidCustomEmbedder(errors.New("custom provider requires config.embedder"))
	}
	return Conform(v)
}

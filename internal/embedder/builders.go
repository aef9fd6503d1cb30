package embedder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/fyrsmithlabs/embedkit/internal/providers/ollama"
	"github.com/fyrsmithlabs/embedkit/internal/providers/tei"
	"github.com/fyrsmithlabs/embedkit/internal/providers/watsonx"
	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/embeddings/bedrock"
	"github.com/tmc/langchaingo/embeddings/voyageai"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Builders holds the client constructors the adapters call once options are
// normalized. Tests replace individual fields to observe the exact options
// a provider receives.
type Builders struct {
	OpenAI      func(ctx context.Context, o OpenAIOptions) (EmbeddingFunction, error)
	Azure       func(ctx context.Context, o AzureOptions) (EmbeddingFunction, error)
	Ollama      func(ctx context.Context, o OllamaOptions) (EmbeddingFunction, error)
	VertexAI    func(ctx context.Context, o VertexAIOptions) (EmbeddingFunction, error)
	Google      func(ctx context.Context, o APIKeyOptions) (EmbeddingFunction, error)
	Cohere      func(ctx context.Context, o APIKeyOptions) (EmbeddingFunction, error)
	VoyageAI    func(ctx context.Context, o APIKeyOptions) (EmbeddingFunction, error)
	Bedrock     func(ctx context.Context, o BedrockOptions) (EmbeddingFunction, error)
	HuggingFace func(ctx context.Context, o HuggingFaceOptions) (EmbeddingFunction, error)
	Watson      func(ctx context.Context, o WatsonOptions) (EmbeddingFunction, error)

	// LookupEnv backs the openai api_key fallback. Nil means os.LookupEnv.
	LookupEnv LookupFunc
}

// DefaultBuilders returns the production constructors. logger receives the
// watson call-time failures.
func DefaultBuilders(logger *logging.Logger) Builders {
	if logger == nil {
		logger = logging.NewNop()
	}
	return Builders{
		OpenAI:      buildOpenAI,
		Azure:       buildAzure,
		Ollama:      buildOllama,
		VertexAI:    buildVertexAI,
		Google:      buildGoogle,
		Cohere:      buildCohere,
		VoyageAI:    buildVoyageAI,
		Bedrock:     buildBedrock,
		HuggingFace: buildHuggingFace,
		Watson: func(ctx context.Context, o WatsonOptions) (EmbeddingFunction, error) {
			return buildWatson(ctx, o, logger)
		},
	}
}

// fromLangchain exposes a langchaingo client through EmbeddingFunction.
func fromLangchain(client embeddings.EmbedderClient) (EmbeddingFunction, error) {
	e, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("construct langchaingo embedder: %w", err)
	}
	return Func(e.EmbedDocuments), nil
}

// perDocument calls a single-text chromem function once per document,
// adding prefix unless the document already carries one of skip.
func perDocument(fn chromem.EmbeddingFunc, prefix string, skip ...string) Func {
	return func(ctx context.Context, documents []string) ([][]float32, error) {
		vectors := make([][]float32, len(documents))
		for i, doc := range documents {
			if prefix != "" && !hasAnyPrefix(doc, skip) {
				doc = prefix + doc
			}
			v, err := fn(ctx, doc)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			vectors[i] = v
		}
		return vectors, nil
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func buildOpenAI(_ context.Context, o OpenAIOptions) (EmbeddingFunction, error) {
	var opts []openai.Option
	if o.APIKey != "" {
		opts = append(opts, openai.WithToken(o.APIKey))
	}
	if o.Model != "" {
		opts = append(opts, openai.WithEmbeddingModel(o.Model))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize openai client: %w", err)
	}
	return fromLangchain(client)
}

func azureAPIType(s string) (openai.APIType, error) {
	switch strings.ToLower(s) {
	case "azure":
		return openai.APITypeAzure, nil
	case "azure_ad", "azuread":
		return openai.APITypeAzureAD, nil
	case "openai":
		return openai.APITypeOpenAI, nil
	default:
		return "", fmt.Errorf("unknown api_type %q", s)
	}
}

func buildAzure(_ context.Context, o AzureOptions) (EmbeddingFunction, error) {
	apiType, err := azureAPIType(o.APIType)
	if err != nil {
		return nil, err
	}
	opts := []openai.Option{
		openai.WithAPIType(apiType),
		openai.WithBaseURL(o.APIBase),
		openai.WithModel(o.Model),
		openai.WithEmbeddingModel(o.Model),
	}
	if o.APIKey != "" {
		opts = append(opts, openai.WithToken(o.APIKey))
	}
	if o.APIVersion != "" {
		opts = append(opts, openai.WithAPIVersion(o.APIVersion))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize azure openai client: %w", err)
	}
	return fromLangchain(client)
}

func buildOllama(_ context.Context, o OllamaOptions) (EmbeddingFunction, error) {
	return ollama.New(ollama.Config{URL: o.URL, Model: o.Model}), nil
}

func buildVertexAI(_ context.Context, o VertexAIOptions) (EmbeddingFunction, error) {
	var opts []chromem.VertexOption
	if o.APIEndpoint != "" {
		opts = append(opts, chromem.WithVertexAPIEndpoint(o.APIEndpoint))
	}
	fn := chromem.NewEmbeddingFuncVertex(o.APIKey, o.ProjectID, chromem.EmbeddingModelVertex(o.Model), opts...)
	return perDocument(fn, ""), nil
}

func buildGoogle(ctx context.Context, o APIKeyOptions) (EmbeddingFunction, error) {
	opts := []googleai.Option{googleai.WithAPIKey(o.APIKey)}
	if o.Model != "" {
		opts = append(opts, googleai.WithDefaultEmbeddingModel(o.Model))
	}
	client, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize googleai client: %w", err)
	}
	return fromLangchain(client)
}

var cohereInputPrefixes = []string{
	chromem.InputTypeCohereSearchDocumentPrefix,
	chromem.InputTypeCohereSearchQueryPrefix,
	chromem.InputTypeCohereClassificationPrefix,
	chromem.InputTypeCohereClusteringPrefix,
}

// buildCohere embeds documents as search_document unless a document names
// its own input type.
func buildCohere(_ context.Context, o APIKeyOptions) (EmbeddingFunction, error) {
	fn := chromem.NewEmbeddingFuncCohere(o.APIKey, chromem.EmbeddingModelCohere(o.Model))
	return perDocument(fn, chromem.InputTypeCohereSearchDocumentPrefix, cohereInputPrefixes...), nil
}

func buildVoyageAI(_ context.Context, o APIKeyOptions) (EmbeddingFunction, error) {
	opts := []voyageai.Option{voyageai.WithToken(o.APIKey)}
	if o.Model != "" {
		opts = append(opts, voyageai.WithModel(o.Model))
	}
	v, err := voyageai.NewVoyageAI(opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize voyageai client: %w", err)
	}
	return Func(v.EmbedDocuments), nil
}

// bedrockClient turns the session option into a runtime client.
func bedrockClient(ctx context.Context, o BedrockOptions) (*bedrockruntime.Client, error) {
	switch s := o.Session.(type) {
	case *bedrockruntime.Client:
		if s == nil {
			return nil, errors.New("bedrock: session client is nil")
		}
		return s, nil
	case aws.Config:
		return bedrockruntime.NewFromConfig(s), nil
	case *aws.Config:
		if s == nil {
			return nil, errors.New("bedrock: session config is nil")
		}
		return bedrockruntime.NewFromConfig(*s), nil
	case nil:
		var opts []func(*awsconfig.LoadOptions) error
		if o.Region != "" {
			opts = append(opts, awsconfig.WithRegion(o.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("bedrock: load aws config: %w", err)
		}
		return bedrockruntime.NewFromConfig(cfg), nil
	default:
		return nil, fmt.Errorf("bedrock: unsupported session type %T", o.Session)
	}
}

func buildBedrock(ctx context.Context, o BedrockOptions) (EmbeddingFunction, error) {
	client, err := bedrockClient(ctx, o)
	if err != nil {
		return nil, err
	}
	b, err := bedrock.NewBedrock(bedrock.WithClient(client), bedrock.WithModel(o.Model))
	if err != nil {
		return nil, fmt.Errorf("initialize bedrock embedder: %w", err)
	}
	return Func(b.EmbedDocuments), nil
}

func buildHuggingFace(_ context.Context, o HuggingFaceOptions) (EmbeddingFunction, error) {
	client, err := tei.New(tei.Config{URL: o.APIURL, APIKey: o.APIKey, Truncate: o.Truncate})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildWatson(_ context.Context, o WatsonOptions, logger *logging.Logger) (EmbeddingFunction, error) {
	client, err := watsonx.New(watsonx.Config{
		APIKey:    o.APIKey,
		URL:       o.APIURL,
		ProjectID: o.ProjectID,
		Model:     o.Model,
	}, logger)
	if errors.Is(err, watsonx.ErrUnavailable) {
		return nil, MissingDependency(Watson, "watsonx client", err)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

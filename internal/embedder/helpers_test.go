package embedder

import (
	"context"
	"sync"
)

// fakeEmbedder returns dim-length vectors filled with the document index.
type fakeEmbedder struct {
	dim     int
	invalid error
}

func (f *fakeEmbedder) Embed(_ context.Context, documents []string) ([][]float32, error) {
	out := make([][]float32, len(documents))
	for i := range documents {
		v := make([]float32, f.dim)
		for j := range v {
			v[j] = float32(i)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Validate() error { return f.invalid }

// notAnEmbedder has the wrong method set.
type notAnEmbedder struct{}

func (notAnEmbedder) Embed(text string) []float32 { return nil }

// recorder captures the options each builder receives.
type recorder struct {
	mu          sync.Mutex
	openai      []OpenAIOptions
	azure       []AzureOptions
	ollama      []OllamaOptions
	vertex      []VertexAIOptions
	google      []APIKeyOptions
	cohere      []APIKeyOptions
	voyage      []APIKeyOptions
	bedrock     []BedrockOptions
	huggingface []HuggingFaceOptions
	watson      []WatsonOptions
	err         error
}

func record[T any](rec *recorder, dst *[]T) func(context.Context, T) (EmbeddingFunction, error) {
	return func(_ context.Context, o T) (EmbeddingFunction, error) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		*dst = append(*dst, o)
		if rec.err != nil {
			return nil, rec.err
		}
		return &fakeEmbedder{dim: 3}, nil
	}
}

func (rec *recorder) builders(lookup LookupFunc) Builders {
	return Builders{
		OpenAI:      record(rec, &rec.openai),
		Azure:       record(rec, &rec.azure),
		Ollama:      record(rec, &rec.ollama),
		VertexAI:    record(rec, &rec.vertex),
		Google:      record(rec, &rec.google),
		Cohere:      record(rec, &rec.cohere),
		VoyageAI:    record(rec, &rec.voyage),
		Bedrock:     record(rec, &rec.bedrock),
		HuggingFace: record(rec, &rec.huggingface),
		Watson:      record(rec, &rec.watson),
		LookupEnv:   lookup,
	}
}

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// newTestResolver wires a resolver to recording builders and a fixed
// environment.
func newTestResolver(env map[string]string, opts ...Option) (*Resolver, *recorder) {
	rec := &recorder{}
	lookup := mapLookup(env)
	opts = append([]Option{
		WithRegistry(NewDefaultRegistry(rec.builders(lookup))),
		WithEnvLookup(lookup),
	}, opts...)
	return NewResolver(opts...), rec
}

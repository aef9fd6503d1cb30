package embedder

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Adapter builds an EmbeddingFunction from a provider config and an
// optional model name. Adapters must not modify cfg.
type Adapter func(ctx context.Context, cfg ProviderConfig, model string) (EmbeddingFunction, error)

// Entry pairs a provider identifier with its adapter.
type Entry struct {
	ID      ProviderID
	Adapter Adapter
}

// Registry is a fixed provider → adapter table. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	ids      []ProviderID
	adapters map[ProviderID]Adapter
}

// NewRegistry builds a registry from entries, keeping their order.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		ids:      make([]ProviderID, 0, len(entries)),
		adapters: make(map[ProviderID]Adapter, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, errors.New("registry entry has empty provider id")
		}
		if e.Adapter == nil {
			return nil, fmt.Errorf("registry entry %q has nil adapter", e.ID)
		}
		if _, dup := r.adapters[e.ID]; dup {
			return nil, fmt.Errorf("duplicate registry entry %q", e.ID)
		}
		r.ids = append(r.ids, e.ID)
		r.adapters[e.ID] = e.Adapter
	}
	return r, nil
}

// NewDefaultRegistry registers every supported provider against b.
func NewDefaultRegistry(b Builders) *Registry {
	r, err := NewRegistry(
		Entry{OpenAI, openAIAdapter(b)},
		Entry{Azure, azureAdapter(b)},
		Entry{Ollama, ollamaAdapter(b)},
		Entry{VertexAI, vertexAIAdapter(b)},
		Entry{Google, googleAdapter(b)},
		Entry{Cohere, cohereAdapter(b)},
		Entry{VoyageAI, voyageAIAdapter(b)},
		Entry{Bedrock, bedrockAdapter(b)},
		Entry{HuggingFace, huggingFaceAdapter(b)},
		Entry{Watson, watsonAdapter(b)},
		Entry{Custom, customAdapter},
	)
	if err != nil {
		// The table above is static; a failure here is a programming error.
		panic(err)
	}
	return r
}

// Lookup returns the adapter registered for id.
func (r *Registry) Lookup(id ProviderID) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// SupportedProviders returns every registered identifier in registration
// order. The slice is a copy.
func (r *Registry) SupportedProviders() []ProviderID {
	return slices.Clone(r.ids)
}

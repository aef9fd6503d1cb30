// Package embedder resolves an embedding configuration into a ready-to-use
// EmbeddingFunction.
//
// A Registry maps each supported provider identifier to an Adapter. The
// Resolver is the single entry point: it fills defaults from the
// environment when no request is given, passes caller-built functions
// through a conformance check, and otherwise dispatches to the adapter for
// the named provider.
//
//	r := embedder.NewResolver(embedder.WithLogger(logger))
//	fn, err := r.Resolve(ctx, &embedder.Request{
//	    Provider: "openai",
//	    Config:   embedder.ProviderConfig{"api_key": key, "model": "text-embedding-3-small"},
//	})
//	if errors.Is(err, embedder.ErrUnsupportedProvider) {
//	    // fix the configuration
//	}
//	vectors, err := fn.Embed(ctx, []string{"hello"})
//
// Nothing here caches, retries or batches. Every Resolve returns a freshly
// constructed function owned by the caller.
package embedder

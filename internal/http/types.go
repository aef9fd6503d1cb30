package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
}

// ProvidersResponse is the response body for GET /v1/providers.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

// EmbedRequest is the request body for POST /v1/embed.
type EmbedRequest struct {
	Documents []string `json:"documents"`
}

// EmbedResponse is the response body for POST /v1/embed. Vectors are in
// document order.
type EmbedResponse struct {
	Vectors [][]float32 `json:"vectors"`
	Count   int         `json:"count"`
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fyrsmithlabs/embedkit/internal/embedder"
	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type stubEmbedder struct {
	dim   int
	err   error
	short bool
	got   []string
}

func (s *stubEmbedder) Embed(_ context.Context, documents []string) ([][]float32, error) {
	s.got = documents
	if s.err != nil {
		return nil, s.err
	}
	n := len(documents)
	if s.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, s.dim)
		out[i][0] = float32(i)
	}
	return out, nil
}

func newTestServer(t *testing.T, fn embedder.EmbeddingFunction, metrics *HTTPMetrics) *Server {
	t.Helper()
	server, err := NewServer(fn, []embedder.ProviderID{embedder.OpenAI, embedder.Ollama}, logging.NewNop(), metrics, &Config{
		Addr:         "localhost:0",
		Provider:     "ollama",
		MaxDocuments: 3,
	})
	require.NoError(t, err)
	return server
}

func TestNewServer(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(&stubEmbedder{dim: 1}, nil, logging.NewNop(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost:8089", server.config.Addr)
		assert.Equal(t, DefaultMaxDocuments, server.config.MaxDocuments)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(&stubEmbedder{dim: 1}, nil, nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when embedder is nil", func(t *testing.T) {
		_, err := NewServer(nil, nil, logging.NewNop(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding function cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, &stubEmbedder{dim: 1}, nil)

	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Provider: "ollama"}, resp)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHandleProviders(t *testing.T) {
	server := newTestServer(t, &stubEmbedder{dim: 1}, nil)

	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ProvidersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"openai", "ollama"}, resp.Providers)
}

func TestHandleEmbed(t *testing.T) {
	tests := []struct {
		name       string
		embedder   *stubEmbedder
		body       string
		wantStatus int
		wantCount  int
	}{
		{name: "embeds documents in order", embedder: &stubEmbedder{dim: 2}, body: `{"documents":["a","b"]}`, wantStatus: http.StatusOK, wantCount: 2},
		{name: "empty documents", embedder: &stubEmbedder{dim: 2}, body: `{"documents":[]}`, wantStatus: http.StatusBadRequest},
		{name: "missing documents", embedder: &stubEmbedder{dim: 2}, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", embedder: &stubEmbedder{dim: 2}, body: `{"documents":`, wantStatus: http.StatusBadRequest},
		{name: "too many documents", embedder: &stubEmbedder{dim: 2}, body: `{"documents":["a","b","c","d"]}`, wantStatus: http.StatusBadRequest},
		{name: "provider failure", embedder: &stubEmbedder{err: errors.New("upstream 500")}, body: `{"documents":["a"]}`, wantStatus: http.StatusBadGateway},
		{name: "vector count mismatch", embedder: &stubEmbedder{dim: 2, short: true}, body: `{"documents":["a","b"]}`, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.embedder, nil)

			rec := httptest.NewRecorder()
			server.echo.ServeHTTP(rec, jsonRequest(t, "/v1/embed", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp EmbedResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCount, resp.Count)
			require.Len(t, resp.Vectors, tt.wantCount)
			assert.Equal(t, float32(1), resp.Vectors[1][0])
			assert.Equal(t, []string{"a", "b"}, tt.embedder.got)
		})
	}
}

func TestHandleEmbed_FailureDoesNotLeakCause(t *testing.T) {
	tl := logging.NewTestLogger()
	server, err := NewServer(&stubEmbedder{err: errors.New("401 invalid key sk-abcdef123456")}, nil, tl.Logger, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, jsonRequest(t, "/v1/embed", `{"documents":["a"]}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-abcdef123456")
	tl.AssertLogged(t, zapcore.ErrorLevel, "embedding failed")
}

func TestRequestIDReachesLogs(t *testing.T) {
	tl := logging.NewTestLogger()
	server, err := NewServer(&stubEmbedder{dim: 1}, nil, tl.Logger, nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	tl.AssertField(t, "http request", "request.id", "req-123")
}

func TestServer_StartShutdown(t *testing.T) {
	server := newTestServer(t, &stubEmbedder{dim: 1}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	require.Eventually(t, func() bool { return server.echo.ListenerAddr() != nil }, time.Second, 10*time.Millisecond)
	require.NoError(t, server.Shutdown(context.Background()))
	assert.ErrorIs(t, <-errCh, http.ErrServerClosed)
}

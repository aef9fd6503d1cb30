package tei

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantErr    bool
		errMessage string
	}{
		{
			name:   "valid configuration",
			config: Config{URL: "http://localhost:8080/embed"},
		},
		{
			name:   "with api key",
			config: Config{URL: "https://example.endpoints.huggingface.cloud", APIKey: "hf_test"},
		},
		{
			name:       "empty url",
			config:     Config{},
			wantErr:    true,
			errMessage: "api_url required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.config.URL, c.URL())
		})
	}
}

func TestClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Inputs)
		assert.True(t, req.Truncate)

		_ = json.NewEncoder(w).Encode([][]float32{{1, 2}, {3, 4}})
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL + "/embed", APIKey: "hf_test", Truncate: true})
	require.NoError(t, err)

	vectors, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, vectors)
}

func TestClient_Embed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		texts   []string
		wantIs  error
	}{
		{
			name:    "empty input",
			handler: func(w http.ResponseWriter, r *http.Request) { t.Error("no request expected") },
			texts:   nil,
			wantIs:  ErrEmptyInput,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			texts:  []string{"a"},
			wantIs: ErrEmbeddingFailed,
		},
		{
			name: "count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[[1,2]]`))
			},
			texts:  []string{"a", "b"},
			wantIs: ErrEmbeddingFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := New(Config{URL: srv.URL})
			require.NoError(t, err)

			_, err = c.Embed(context.Background(), tt.texts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

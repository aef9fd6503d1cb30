//go:build !nowatsonx

package watsonx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validConfig(baseURL string) Config {
	return Config{
		APIKey:    "ibm-secret-key",
		URL:       baseURL,
		ProjectID: "proj-1",
		Model:     "ibm/slate-30m-english-rtrvr",
		IAMURL:    baseURL + "/identity/token",
	}
}

// fakeWatsonx serves the IAM exchange and the embeddings endpoint.
func fakeWatsonx(t *testing.T, tokenCalls *atomic.Int32, embedStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/identity/token":
			tokenCalls.Add(1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "urn:ibm:params:oauth:grant-type:apikey", r.PostForm.Get("grant_type"))
			assert.Equal(t, "ibm-secret-key", r.PostForm.Get("apikey"))
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "iam-token", TokenType: "Bearer", ExpiresIn: 3600})
		case "/ml/v1/text/embeddings":
			assert.Equal(t, "Bearer iam-token", r.Header.Get("Authorization"))
			assert.Equal(t, APIVersion, r.URL.Query().Get("version"))

			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ibm/slate-30m-english-rtrvr", req.ModelID)
			assert.Equal(t, "proj-1", req.ProjectID)
			assert.Equal(t, 3, req.Parameters.TruncateInputTokens)
			assert.True(t, req.Parameters.ReturnOptions.InputText)

			if embedStatus != http.StatusOK {
				http.Error(w, `{"errors":[{"code":"bad"}]}`, embedStatus)
				return
			}
			resp := embedResponse{ModelID: req.ModelID}
			for i, in := range req.Inputs {
				resp.Results = append(resp.Results, embedResult{Embedding: []float32{float32(i), 0.5}, Input: in})
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }, "api_key"},
		{"missing url", func(c *Config) { c.URL = "" }, "api_url"},
		{"missing project", func(c *Config) { c.ProjectID = "" }, "project_id"},
		{"missing model", func(c *Config) { c.Model = "" }, "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig("https://us-south.ml.cloud.ibm.com")
			tt.mutate(&cfg)
			_, err := New(cfg, nil)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_NoNetworkIO(t *testing.T) {
	var calls atomic.Int32
	srv := fakeWatsonx(t, &calls, http.StatusOK)
	defer srv.Close()

	_, err := New(validConfig(srv.URL), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load())
	assert.True(t, Available)
}

func TestClient_Embed(t *testing.T) {
	var calls atomic.Int32
	srv := fakeWatsonx(t, &calls, http.StatusOK)
	defer srv.Close()

	c, err := New(validConfig(srv.URL), nil)
	require.NoError(t, err)

	vectors, err := c.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 0.5}, {1, 0.5}}, vectors)

	_, err = c.Embed(context.Background(), []string{"third"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "each call exchanges its own token")
}

func TestClient_Embed_FailureIsLoggedAndReturned(t *testing.T) {
	var calls atomic.Int32
	srv := fakeWatsonx(t, &calls, http.StatusBadRequest)
	defer srv.Close()

	tl := logging.NewTestLogger()
	c, err := New(validConfig(srv.URL), tl.Logger)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), []string{"doc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")

	tl.AssertLogged(t, zapcore.ErrorLevel, "watson embedding failed")
	tl.AssertNoSecret(t, "ibm-secret-key")
}

func TestClient_Embed_TokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(validConfig(srv.URL), nil)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), []string{"doc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iam token status 401")
}

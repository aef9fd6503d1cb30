package embedder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
		kind error
	}{
		{
			name: "unsupported",
			err:  unsupportedProvider("fastembed", []ProviderID{OpenAI, Ollama}),
			want: `unsupported embedding provider: "fastembed", supported providers: [openai, ollama]`,
			kind: ErrUnsupportedProvider,
		},
		{
			name: "invalid custom",
			err:  invalidCustomEmbedder(cause),
			want: "invalid custom embedding function: boom",
			kind: ErrInvalidCustomEmbedder,
		},
		{
			name: "construction",
			err:  constructionFailed("openai", cause),
			want: `embedding provider "openai" construction failed: boom`,
			kind: ErrProviderConstructionFailed,
		},
		{
			name: "missing dependency",
			err:  MissingDependency(Watson, "watsonx client", cause),
			want: `embedding provider "watson": missing optional dependency: watsonx client: boom`,
			kind: ErrMissingOptionalDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.kind, KindOf(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("credential check failed")
	err := constructionFailed("bedrock", fmt.Errorf("init: %w", cause))

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrProviderConstructionFailed)
	assert.NotErrorIs(t, err, ErrUnsupportedProvider)
}

func TestMissingDependency_DefaultCause(t *testing.T) {
	err := MissingDependency(Watson, "watsonx client", nil)
	assert.Contains(t, err.Error(), "watsonx client is not available in this build")
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Nil(t, KindOf(errors.New("plain")))
	assert.Nil(t, KindOf(nil))
}

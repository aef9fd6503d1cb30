package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConform(t *testing.T) {
	valid := &fakeEmbedder{dim: 2}
	var typedNil *fakeEmbedder
	var nilFunc Func

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "pointer embedder", value: valid},
		{name: "func embedder", value: Func(func(context.Context, []string) ([][]float32, error) { return nil, nil })},
		{name: "nil", value: nil, wantErr: "embedding function is nil"},
		{name: "typed nil pointer", value: typedNil, wantErr: "embedding function is nil"},
		{name: "nil func", value: nilFunc, wantErr: "embedding function is nil"},
		{name: "wrong method set", value: notAnEmbedder{}, wantErr: "does not implement Embed"},
		{name: "plain string", value: "openai", wantErr: "does not implement Embed"},
		{name: "validator fails", value: &fakeEmbedder{invalid: errors.New("dimension must be positive")}, wantErr: "dimension must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := Conform(tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, fn)
				return
			}
			require.Error(t, err)
			assert.Nil(t, fn)
			assert.ErrorIs(t, err, ErrInvalidCustomEmbedder)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConform_PreservesIdentity(t *testing.T) {
	e := &fakeEmbedder{dim: 4}
	fn, err := Conform(e)
	require.NoError(t, err)
	assert.Same(t, e, fn)
}

func TestConform_ValidatorCauseIsReachable(t *testing.T) {
	cause := errors.New("bad shape")
	_, err := Conform(&fakeEmbedder{invalid: cause})
	assert.ErrorIs(t, err, cause)
}

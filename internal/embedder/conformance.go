package embedder

import (
	"errors"
	"fmt"
	"reflect"
)

// Conform checks that v can be trusted as an EmbeddingFunction and returns
// it unchanged. A nil or typed-nil value, or one without an Embed method,
// fails. If v implements Validator its Validate result decides. Failures are
// reported as ErrInvalidCustomEmbedder with the underlying diagnostic kept.
func Conform(v any) (EmbeddingFunction, error) {
	if isNil(v) {
		return nil, invalidCustomEmbedder(errors.New("embedding function is nil"))
	}
	fn, ok := v.(EmbeddingFunction)
	if !ok {
		return nil, invalidCustomEmbedder(fmt.Errorf("%T does not implement Embed(ctx, []string) ([][]float32, error)", v))
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, invalidCustomEmbedder(err)
		}
	}
	return fn, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

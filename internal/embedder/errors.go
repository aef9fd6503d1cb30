package embedder

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	// ErrUnsupportedProvider: the identifier is not registered.
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")

	// ErrInvalidCustomEmbedder: a caller-supplied value failed the
	// conformance check.
	ErrInvalidCustomEmbedder = errors.New("invalid custom embedding function")

	// ErrProviderConstructionFailed: the provider client constructor failed.
	ErrProviderConstructionFailed = errors.New("embedding provider construction failed")

	// ErrMissingOptionalDependency: the provider needs a component that is
	// not part of this build.
	ErrMissingOptionalDependency = errors.New("missing optional dependency")
)

// Error is the typed failure returned by Resolve.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Provider is the identifier involved, if any.
	Provider string
	// Supported lists every registered identifier (UnsupportedProvider only).
	Supported []ProviderID
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnsupportedProvider:
		ids := make([]string, len(e.Supported))
		for i, id := range e.Supported {
			ids[i] = string(id)
		}
		return fmt.Sprintf("unsupported embedding provider: %q, supported providers: [%s]",
			e.Provider, strings.Join(ids, ", "))
	case ErrInvalidCustomEmbedder:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case ErrMissingOptionalDependency:
		return fmt.Sprintf("embedding provider %q: %v: %v", e.Provider, e.Kind, e.Err)
	default:
		return fmt.Sprintf("embedding provider %q construction failed: %v", e.Provider, e.Err)
	}
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an *Error in err's chain, or nil.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func unsupportedProvider(provider string, supported []ProviderID) *Error {
	return &Error{Kind: ErrUnsupportedProvider, Provider: provider, Supported: supported}
}

func invalidCustomEmbedder(err error) *Error {
	return &Error{Kind: ErrInvalidCustomEmbedder, Provider: string(Custom), Err: err}
}

func constructionFailed(provider string, err error) *Error {
	return &Error{Kind: ErrProviderConstructionFailed, Provider: provider, Err: err}
}

// MissingDependency reports that provider needs component, which this build
// does not include.
func MissingDependency(provider ProviderID, component string, cause error) *Error {
	if cause == nil {
		cause = errors.New(component + " is not available in this build")
	}
	return &Error{
		Kind:     ErrMissingOptionalDependency,
		Provider: string(provider),
		Err:      fmt.Errorf("%s: %w", component, cause),
	}
}

// Package contexts provides small type-safe helpers over context.Context.
// The validation packages carry per-call options (logger overrides,
// diagnostic rendering flags, tracers) through contexts, and these helpers
// keep that plumbing nil-safe and compile-time typed.
package contexts

import "context"

// EnsureContext chooses the first non-nil context passed in. If all values
// are nil, a new background context is returned.
func EnsureContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// WithValue is a type-safe wrapper around context.WithValue that stores a
// value of type V under a key of type K. If ctx is nil, a background
// context is created.
func WithValue[K any, V any](ctx context.Context, key K, value V) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, key, value)
}

// GetValue is a type-safe wrapper around context.Value that retrieves a
// value of type V under a key of type K. Returns the zero value and false
// if ctx is nil, the key is absent, or the stored value has a different
// type.
func GetValue[K any, V any](ctx context.Context, key K) (V, bool) {
	var zero V

	if ctx == nil {
		return zero, false
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, false
	}

	v, ok := val.(V)
	if !ok {
		return zero, false
	}

	return v, true
}

// WithMultipleValues stores several key/value pairs of the same key type in
// one pass. Iteration order over the map is not significant because the
// keys are distinct.
func WithMultipleValues[K comparable](ctx context.Context, values map[K]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	for key, value := range values {
		ctx = context.WithValue(ctx, key, value)
	}

	return ctx
}

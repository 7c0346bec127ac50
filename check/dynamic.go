package check

import (
	"context"

	"github.com/markpock/Validation/bind"
	"github.com/markpock/Validation/contexts"
)

// Call invokes the callable with loose positional values after checking
// them. Omitted trailing parameters fill in from their declared
// defaults, and filled defaults are never checked.
//
// The error return carries only the machinery's failures: binding
// mistakes and constraint violations. Whatever the callable itself
// returns, error results included, comes back in the slice, so a
// callee's own error is results[len(results)-1], not err.
func (c *Checked[F]) Call(ctx context.Context, args ...any) ([]any, error) {
	return c.CallArgs(ctx, args, nil)
}

// CallNamed invokes the callable with keyword values only.
func (c *Checked[F]) CallNamed(ctx context.Context, kwargs map[string]any) ([]any, error) {
	return c.CallArgs(ctx, nil, kwargs)
}

// CallArgs invokes the callable with positional and keyword values
// together. Positional values bind left to right; keywords bind by
// declared name; supplying a parameter both ways is a configuration
// error. A construction routine takes its receiver as the leading
// positional value and it is bound without being checked.
func (c *Checked[F]) CallArgs(ctx context.Context, args []any, kwargs map[string]any) ([]any, error) {
	ctx = contexts.EnsureContext(ctx)

	bound, err := bind.Dynamic(c.sig, args, kwargs)
	if err != nil {
		return nil, err
	}

	if err := run(ctx, c.sig, bound); err != nil { //nolint:contextcheck // EnsureContext preserves context inheritance
		return nil, err
	}

	in, err := bound.Finalize()
	if err != nil {
		return nil, err
	}

	out := c.fv.Call(in)

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}

	return results, nil
}

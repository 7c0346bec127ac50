package check

import (
	"context"

	"github.com/markpock/Validation/contexts"
)

// contextKey is a unique type for storing values in context to avoid
// collisions with other packages.
type contextKey string

// verboseTypesKey stores the diagnostic rendering preference for failure
// messages produced under the context.
const verboseTypesKey contextKey = "verboseTypes"

// WithVerboseTypes returns a context under which failure messages render
// package-qualified type names ("config.Server" rather than "Server").
// Useful when a process validates calls across packages with colliding
// short type names.
func WithVerboseTypes(ctx context.Context, verbose bool) context.Context {
	return contexts.WithValue(ctx, verboseTypesKey, verbose)
}

// VerboseTypes reports whether failure messages under ctx should render
// package-qualified type names. Short names are the default.
func VerboseTypes(ctx context.Context) bool {
	verbose, found := contexts.GetValue[contextKey, bool](ctx, verboseTypesKey)
	if !found {
		return false
	}

	return verbose
}

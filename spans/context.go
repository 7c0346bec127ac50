package spans

import (
	"context"

	"github.com/markpock/Validation/contexts"
	"go.opentelemetry.io/otel/trace"
)

// contextKey is a unique type for storing values in context to avoid
// collisions.
type contextKey string

// TracerKey is the context key the tracer travels under.
const TracerKey contextKey = "tracer"

// WithTracer installs the tracer Run, RunErr and RunVal create spans
// with. Without one, wrapped functions execute unspanned.
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return contexts.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext returns the installed tracer, if any.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	return contexts.GetValue[contextKey, trace.Tracer](ctx, TracerKey)
}

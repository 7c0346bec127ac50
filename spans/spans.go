// Package spans runs functions inside OpenTelemetry spans.
//
// The tracer travels in the context, installed once with WithTracer.
// When none is installed the function still runs, just without a
// span, and a counter records the gap. Tracing therefore stays
// strictly optional for callers that do not configure it.
package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Run executes f inside a span named name.
func Run(ctx context.Context, name string, f func(ctx context.Context, span trace.Span), opts ...Option) {
	_, _ = run(ctx, name, func(ctx context.Context, span trace.Span) (struct{}, error) {
		f(ctx, span)

		return struct{}{}, nil
	}, opts)
}

// RunErr executes f inside a span named name. A returned error is
// recorded on the span and reflected in its status before being
// passed back.
func RunErr(ctx context.Context, name string, f func(ctx context.Context, span trace.Span) error, opts ...Option) error {
	_, err := run(ctx, name, func(ctx context.Context, span trace.Span) (struct{}, error) {
		return struct{}{}, f(ctx, span)
	}, opts)

	return err
}

// RunVal executes f inside a span named name and passes its value
// through.
func RunVal[T any](ctx context.Context, name string, f func(ctx context.Context, span trace.Span) (T, error), opts ...Option) (T, error) {
	return run(ctx, name, f, opts)
}

// run looks the tracer up and hands the call to a runner. Without a
// tracer the function executes against whatever span the context
// already carries, and the gap is counted.
func run[T any](ctx context.Context, name string, f func(ctx context.Context, span trace.Span) (T, error), opts []Option) (T, error) {
	tracer, ok := TracerFromContext(ctx)
	if !ok {
		withoutTracer.WithLabelValues(name).Inc()

		return f(ctx, trace.SpanFromContext(ctx))
	}

	return enter(newRunner(tracer, name, opts...), ctx, f)
}

package spans

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option adjusts how a span is created and closed.
type Option func(*runner)

// WithAttributes sets attributes on the span at start.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(r *runner) {
		r.sso = append(r.sso, trace.WithAttributes(attrs...))
	}
}

// WithSpanKind sets the span kind. The default is SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.kind = kind
	}
}

// WithSuccessMessage sets the status description used when the
// function returns without error. The default is "ok".
func WithSuccessMessage(description string) Option {
	return func(r *runner) {
		r.success = description
	}
}

// WithErrorMessage sets a prefix for the status description used when
// the function returns an error.
func WithErrorMessage(description string) Option {
	return func(r *runner) {
		r.failure = description
	}
}

// WithSpanStartOptions passes raw start options through to the
// tracer, for configuration the other options do not cover.
func WithSpanStartOptions(options ...trace.SpanStartOption) Option {
	return func(r *runner) {
		r.sso = append(r.sso, options...)
	}
}

// WithSpanEndOptions passes raw end options through to span.End.
func WithSpanEndOptions(options ...trace.SpanEndOption) Option {
	return func(r *runner) {
		r.seo = append(r.seo, options...)
	}
}

// WithDecorator registers a function that runs against the span
// before the wrapped function does. Decorators run in registration
// order and only while the span is recording.
func WithDecorator(decorator func(span trace.Span)) Option {
	return func(r *runner) {
		r.decorate = append(r.decorate, decorator)
	}
}

// WithAutoEnd controls whether the span ends when the function
// returns. The default is true. Disabling it leaves both status and
// End entirely to the caller.
func WithAutoEnd(autoEnd bool) Option {
	return func(r *runner) {
		r.autoEnd = autoEnd
	}
}

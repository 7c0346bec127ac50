package spans

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/markpock/Validation/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runner carries the configuration of one span execution.
type runner struct {
	name    string
	kind    trace.SpanKind
	tracer  trace.Tracer
	success string
	failure string
	autoEnd bool

	sso      []trace.SpanStartOption
	seo      []trace.SpanEndOption
	decorate []func(span trace.Span)
}

func newRunner(tracer trace.Tracer, name string, opts ...Option) *runner {
	r := &runner{
		name:    name,
		kind:    trace.SpanKindInternal,
		tracer:  tracer,
		autoEnd: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// enter executes f under a span owned by r. A panic is recorded on
// the span, folded into the error status, and re-raised so callers
// see it unchanged.
func enter[T any](r *runner, ctx context.Context, f func(ctx context.Context, span trace.Span) (T, error)) (out T, errOut error) {
	opts := make([]trace.SpanStartOption, len(r.sso)+1)

	copy(opts, r.sso)
	opts[len(r.sso)] = trace.WithSpanKind(r.kind)

	ctx, span := r.tracer.Start(ctx, r.name, opts...) //nolint:spancheck

	defer func() {
		if r.autoEnd {
			defer span.End(r.seo...)
		}

		if recovered := recover(); recovered != nil {
			span.SetAttributes(attribute.Bool("panic", true))

			err := utils.PanicError(recovered, debug.Stack())
			if errOut == nil {
				errOut = err
			} else {
				errOut = errors.Join(errOut, err)
			}

			r.errorStatus(span, errOut)

			panic(recovered)
		}
	}()

	if span.IsRecording() {
		for _, decorate := range r.decorate {
			if decorate != nil {
				decorate(span)
			}
		}
	}

	out, errOut = f(ctx, span)
	if errOut != nil {
		span.RecordError(errOut)
		r.errorStatus(span, errOut)
	} else {
		r.okStatus(span)
	}

	return out, errOut
}

func (r *runner) errorStatus(span trace.Span, err error) {
	if !r.autoEnd {
		return
	}

	if r.failure != "" {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))

		return
	}

	span.SetStatus(codes.Error, err.Error())
}

func (r *runner) okStatus(span trace.Span) {
	if !r.autoEnd {
		return
	}

	if r.success != "" {
		span.SetStatus(codes.Ok, r.success)

		return
	}

	span.SetStatus(codes.Ok, "ok")
}

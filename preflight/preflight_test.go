package preflight_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/preflight"
	"github.com/markpock/Validation/signature"
	"github.com/markpock/Validation/spans"
	"github.com/markpock/Validation/tests"
)

type resource struct {
	name string
}

func (r *resource) init(name string) { r.name = name }

func TestRun(t *testing.T) {
	t.Parallel()

	err := preflight.Run(tests.Context(t),
		preflight.Func("api.create", func(name string, n int) error { return nil },
			signature.WithNames("name", "n")),
		preflight.Func("api.update", func(id int) {}, signature.WithNames("id")),
		preflight.Constructor("resource.init", (*resource).init, signature.WithNames("name")),
	)
	assert.NoError(t, err)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, preflight.Run(tests.Context(t)))
}

func TestRunReportsEveryFailure(t *testing.T) {
	t.Parallel()

	err := preflight.Run(tests.Context(t),
		preflight.Func("good", func(n int) {}, signature.WithNames("n")),
		preflight.Func("notfunc", 42),
		preflight.Func("impossible", func(s string) {},
			signature.WithNames("s"),
			signature.WithConstraint("s", constraint.For[int]())),
	)
	require.Error(t, err)

	assert.ErrorIs(t, err, errors.ErrNotFunc)
	assert.ErrorIs(t, err, errors.ErrBadConstraint)

	msg := err.Error()
	require.Contains(t, msg, "notfunc: ")
	require.Contains(t, msg, "impossible: ")
	assert.NotContains(t, msg, "good")
	assert.Less(t, strings.Index(msg, "notfunc"), strings.Index(msg, "impossible"))
}

func TestRunConcurrentKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	targets := make([]preflight.Target, 0, 6)

	for i := range 6 {
		name := fmt.Sprintf("target-%d", i)
		if i%2 == 0 {
			targets = append(targets, preflight.Func(name, 42))
		} else {
			targets = append(targets, preflight.Func(name, func() {}))
		}
	}

	err := preflight.RunConcurrent(tests.Context(t), 2, targets...)
	require.Error(t, err)

	msg := err.Error()
	assert.Less(t, strings.Index(msg, "target-0"), strings.Index(msg, "target-2"))
	assert.Less(t, strings.Index(msg, "target-2"), strings.Index(msg, "target-4"))
	assert.NotContains(t, msg, "target-1")
}

func TestRunRecoversPanickingTarget(t *testing.T) {
	t.Parallel()

	err := preflight.Run(tests.Context(t), preflight.Target{
		Name:  "explosive",
		Check: func() error { panic("kaboom") },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explosive")
}

func TestRunEmitsSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx := spans.WithTracer(tests.Context(t), provider.Tracer(t.Name()))

	require.NoError(t, preflight.Run(ctx,
		preflight.Func("ok", func() {})))

	recorded := exporter.GetSpans()
	require.Len(t, recorded, 1)
	assert.Equal(t, "preflight", recorded[0].Name)
	assert.Contains(t, recorded[0].Attributes, attribute.Int("targets", 1))
}

// Package preflight verifies at startup that a set of callables is
// declared correctly before anything depends on them. Each target
// attempts the real wrap, so everything checked at wrap time is checked
// here: the target is a function, constraint expressions resolve, every
// constraint is satisfiable by its parameter's type, defaults are
// admissible, names are unique. A process that owns many checked
// callables runs the whole set once, before serving, instead of
// discovering a bad declaration on the first unlucky call.
package preflight

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/markpock/Validation/check"
	"github.com/markpock/Validation/contexts"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/logger"
	"github.com/markpock/Validation/signature"
	"github.com/markpock/Validation/spans"
)

// defaultConcurrency bounds how many targets are analyzed at once when
// the caller does not choose a bound.
const defaultConcurrency = 10

// Target is one callable to verify: a display name for reporting and a
// check that attempts the wrap and returns its configuration errors.
type Target struct {
	Name  string
	Check func() error
}

// Func builds a target that verifies fn wraps cleanly under the given
// options.
func Func[F any](name string, fn F, opts ...signature.Option) Target {
	return Target{
		Name: name,
		Check: func() error {
			_, err := check.Wrap(fn, opts...)

			return err
		},
	}
}

// Constructor builds a target that verifies a construction routine
// wraps cleanly, implicit receiver handling included.
func Constructor[F any](name string, init F, opts ...signature.Option) Target {
	return Target{
		Name: name,
		Check: func() error {
			_, err := check.WrapConstructor(init, opts...)

			return err
		},
	}
}

// Run verifies every target and reports all failures together, one
// error per failed target, in declaration order. Targets run
// concurrently on a bounded worker pool. A clean run returns nil.
func Run(ctx context.Context, targets ...Target) error {
	return RunConcurrent(ctx, defaultConcurrency, targets...)
}

// RunConcurrent is Run with an explicit concurrency bound. A bound
// below one analyzes all targets at once.
func RunConcurrent(ctx context.Context, concurrency int, targets ...Target) error {
	if len(targets) == 0 {
		return nil
	}

	if concurrency < 1 {
		concurrency = len(targets)
	}

	ctx = contexts.EnsureContext(ctx)

	return spans.RunErr(ctx, "preflight", func(ctx context.Context, span trace.Span) error { //nolint:contextcheck // EnsureContext preserves context inheritance
		span.SetAttributes(attribute.Int("targets", len(targets)))

		pool := pond.NewPool(concurrency, pond.WithContext(ctx))
		defer pool.StopAndWait()

		// Submit everything first, then collect in declaration order so
		// the report reads like the target list. Panics inside a check
		// come back as task errors rather than crashing the run.
		tasks := make([]pond.Task, len(targets))
		for i, target := range targets {
			tasks[i] = pool.SubmitErr(target.Check)
		}

		var errs errors.Collection

		for i, task := range tasks {
			err := task.Wait()
			if err == nil {
				continue
			}

			logger.Get(ctx).Debug("preflight target failed",
				"target", targets[i].Name,
				"error", err)

			errs.Add(fmt.Errorf("%s: %w", targets[i].Name, err))
		}

		return errs.GetError()
	})
}

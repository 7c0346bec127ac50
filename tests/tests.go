// Package tests provides context helpers for this module's own test
// suites. A test context carries a unique test identifier, the test name
// and a per-test logger, so diagnostics emitted by the validation
// packages during a test land in that test's output and can be
// correlated with it.
//
// Example usage:
//
//	func TestMyFeature(t *testing.T) {
//	    ctx := tests.Context(t)
//	    // Validation diagnostics now log through t, tagged with a
//	    // unique id for this run.
//	    err := check.Validate(ctx, sig, args, nil)
//	    ...
//	}
package tests

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"

	"github.com/markpock/Validation/contexts"
	"github.com/markpock/Validation/logger"
)

// contextKey is a private type used for storing test metadata in
// context.Context, preventing collisions with other packages.
type contextKey string

const (
	// testIDKey stores the unique test identifier, a UUID prefixed with
	// "test-" (e.g. "test-123e4567-e89b-12d3-a456-426614174000").
	testIDKey contextKey = "testId"

	// testNameKey stores the test name from testing.T.Name(), including
	// the subtest path (e.g. "TestMyFeature/subtest_name").
	testNameKey contextKey = "testName"
)

// Context derives a context from t.Context() carrying a unique test id,
// the test name, and a logger that writes through t.Log. The context is
// canceled when the test ends, so validation work started under it
// cannot leak past the test.
func Context(t *testing.T) context.Context {
	t.Helper()

	ctx := contexts.WithMultipleValues[contextKey](t.Context(), map[contextKey]any{
		testIDKey:   "test-" + uuid.New().String(),
		testNameKey: t.Name(),
	})

	return logger.WithLogger(ctx, Logger(t))
}

// Logger returns a structured logger that writes through t.Log, so log
// lines interleave with the test's own output and only surface when the
// test fails or runs verbose.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()

	return slogt.New(t)
}

// GetTestID retrieves the unique test identifier from a context built by
// Context. Useful for naming per-test resources.
func GetTestID(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testIDKey)
}

// GetTestName retrieves the test name, subtest path included, from a
// context built by Context.
func GetTestName(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testNameKey)
}

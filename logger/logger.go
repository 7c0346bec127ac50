// Package logger provides the slog-based logging used across the
// validation packages. Loggers are carried through contexts so that tests
// can install a per-test logger (see the tests package) and callers can
// mute or enrich logging for a single call chain without global state.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/markpock/Validation/contexts"
)

// It's considered good practice to use unexported custom types for context
// keys. This avoids collisions with other packages that might be using the
// same string values for their own keys.
type contextKey string

const (
	loggerKey contextKey = "logger"
	muteKey   contextKey = "mute"
	valuesKey contextKey = "loggerValues"
)

// configMutex serializes ConfigureLoggingWithOptions calls, which modify
// the process-wide default logger.
var configMutex sync.Mutex //nolint:gochecknoglobals

// Options configures logging output for hosts that want the library's
// diagnostics on a specific handler.
type Options struct {
	JSON     bool
	MinLevel slog.Level
	Output   io.Writer
}

// ConfigureLoggingWithOptions configures the process default logger and
// returns it. This is a convenience for applications; the library itself
// never requires it and logs through whatever default (or context
// override) is in effect. Thread-safe, but concurrent calls are
// serialized because the default logger is global.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithLogger stores a logger in the context. Everything logged through
// Get on a descendant context uses this logger instead of the process
// default. Tests use this to route output through testing.T.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return contexts.WithValue[contextKey, *slog.Logger](ctx, loggerKey, logger)
}

// WithMuted adds a muted flag to the context. When muted is true, all
// logging through Get on this context is suppressed. Useful for silencing
// expected-failure paths in tests.
func WithMuted(ctx context.Context, muted bool) context.Context {
	return contexts.WithValue[contextKey, bool](ctx, muteKey, muted)
}

// With returns a new context whose logger will include the given
// key-value pairs on every record.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	existing, _ := contexts.GetValue[contextKey, []any](ctx, valuesKey)
	combined := append(append([]any{}, existing...), values...)

	return contexts.WithValue[contextKey, []any](ctx, valuesKey, combined)
}

// Get returns a logger. A context is optional; when provided, a logger
// override (WithLogger), mute flag (WithMuted) and accumulated values
// (With) are honored. Without a context, the process default logger is
// returned.
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := contexts.EnsureContext(ctx...)

	if muted, _ := contexts.GetValue[contextKey, bool](realCtx, muteKey); muted {
		return nullLogger
	}

	logger, ok := contexts.GetValue[contextKey, *slog.Logger](realCtx, loggerKey)
	if !ok || logger == nil {
		logger = slog.Default()
	}

	if values, ok := contexts.GetValue[contextKey, []any](realCtx, valuesKey); ok && len(values) > 0 {
		logger = logger.With(values...)
	}

	return logger
}

// nullHandler is a slog.Handler that discards all log output. All methods
// are no-ops; Enabled always reports false.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

// nolint:gochecknoglobals
var nullLogger = slog.New(&nullHandler{})

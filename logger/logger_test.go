package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DefaultWithoutContext(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, Get(nil)) //nolint:staticcheck // nil handling is the point
}

func TestGet_ContextOverride(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	override := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), override)

	Get(ctx).Debug("wrapped callable", "callable", "Employee.Init")

	assert.Contains(t, buf.String(), "wrapped callable")
	assert.Contains(t, buf.String(), "Employee.Init")
}

func TestGet_Muted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	override := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), override)
	ctx = WithMuted(ctx, true)

	Get(ctx).Error("should not appear")

	assert.Empty(t, buf.String())
}

func TestWith_AccumulatesValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	override := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), override)
	ctx = With(ctx, "callable", "Demo")
	ctx = With(ctx, "params", 3)

	Get(ctx).Info("validated")

	out := buf.String()
	assert.Contains(t, out, "callable=Demo")
	assert.Contains(t, out, "params=3")
}

func TestWith_NoValuesReturnsSameContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, ctx, With(ctx))
}

func TestWithLogger_Slogt(t *testing.T) {
	t.Parallel()

	// slogt routes records through t.Log, so this just has to not panic
	// and honor the override path.
	ctx := WithLogger(context.Background(), slogt.New(t))

	require.NotNil(t, Get(ctx))
	Get(ctx).Info("routed through testing.T")
}

func TestConfigureLoggingWithOptions(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger := ConfigureLoggingWithOptions(Options{
		JSON:     true,
		MinLevel: slog.LevelInfo,
		Output:   &buf,
	})

	require.NotNil(t, logger)
	logger.Info("configured")

	assert.Contains(t, buf.String(), `"msg":"configured"`)
}

package check_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markpock/Validation/check"
	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/signature"
	"github.com/markpock/Validation/tests"
)

type counter struct {
	n     int
	label string
}

func (c *counter) init(n any, label string) error {
	c.n = n.(int)
	c.label = label

	return nil
}

func sum(base int, extra ...any) (int, error) {
	total := base
	for _, e := range extra {
		total += e.(int)
	}

	return total, nil
}

func TestWrapForwards(t *testing.T) {
	t.Parallel()

	greet := func(name string, polite bool) string {
		if polite {
			return "good day, " + name
		}

		return "hi " + name
	}

	wrapped, err := check.Wrap(greet, signature.WithNames("name", "polite"))
	require.NoError(t, err)

	fn := wrapped.Func()
	assert.Equal(t, "good day, Ada", fn("Ada", true))
	assert.Equal(t, "hi Ada", fn("Ada", false))
}

func TestWrapKeepsSignatureShape(t *testing.T) {
	t.Parallel()

	fn := func(n int, s string) (string, error) { return s, nil }

	wrapped, err := check.Wrap(fn, signature.WithNames("n", "s"))
	require.NoError(t, err)

	// The trampoline is indistinguishable from the original by type,
	// statically and through reflection.
	var same func(int, string) (string, error) = wrapped.Func()
	assert.Equal(t, reflect.TypeOf(fn), reflect.TypeOf(same))

	assert.Equal(t, reflect.ValueOf(fn).Pointer(), reflect.ValueOf(wrapped.Unwrap()).Pointer())
}

func TestWrapReportsThroughErrorResult(t *testing.T) {
	t.Parallel()

	parse := func(raw any) (int, error) { return raw.(int), nil }

	wrapped, err := check.Wrap(parse,
		signature.WithNames("raw"),
		signature.WithConstraint("raw", constraint.For[int]()))
	require.NoError(t, err)

	fn := wrapped.Func()

	n, err := fn(7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = fn("seven")
	require.Error(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t,
		"argument raw was passed incorrectly, of type string, should be of type int",
		err.Error())

	var verr *check.Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations(), 1)
	assert.Equal(t, "raw", verr.Violations()[0].Param)
}

func TestWrapPanicsWithoutErrorResult(t *testing.T) {
	t.Parallel()

	double := func(v any) int { return 2 * v.(int) }

	wrapped, err := check.Wrap(double,
		signature.WithNames("v"),
		signature.WithConstraint("v", constraint.For[int]()))
	require.NoError(t, err)

	fn := wrapped.Func()
	assert.Equal(t, 6, fn(3))

	assert.PanicsWithError(t,
		"argument v was passed incorrectly, of type string, should be of type int",
		func() { fn("three") })
}

func TestWrapVariadic(t *testing.T) {
	t.Parallel()

	wrapped, err := check.Wrap(sum,
		signature.WithNames("base", "extra"),
		signature.WithConstraintExpr("extra", "int"))
	require.NoError(t, err)

	fn := wrapped.Func()

	total, err := fn(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	_, err = fn(1, 2, "three")
	require.Error(t, err)
	assert.Equal(t,
		"argument extra[1] was passed incorrectly, of type string, should be of type int",
		err.Error())
}

func TestWrapContextFlowsIntoCheck(t *testing.T) {
	t.Parallel()

	record := func(ctx context.Context, v any) error { return nil }

	wrapped, err := check.Wrap(record,
		signature.WithNames("ctx", "v"),
		signature.WithConstraint("v", constraint.For[int]()))
	require.NoError(t, err)

	fn := wrapped.Func()

	// The leading context parameter is the one the check runs under, so
	// its rendering flags take effect.
	ctx := check.WithVerboseTypes(tests.Context(t), true)
	err = fn(ctx, signature.Param{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github.com/markpock/Validation/signature.Param")

	require.NoError(t, fn(ctx, 5))
}

func TestWrapConstructor(t *testing.T) {
	t.Parallel()

	wrapped, err := check.WrapConstructor((*counter).init,
		signature.WithNames("n", "label"),
		signature.WithConstraint("n", constraint.For[int]()))
	require.NoError(t, err)

	require.True(t, wrapped.Signature().IsConstructor())

	fn := wrapped.Func()

	t.Run("receiver leads and is never checked", func(t *testing.T) {
		t.Parallel()

		c := &counter{}
		require.NoError(t, fn(c, 3, "widgets"))
		assert.Equal(t, 3, c.n)
		assert.Equal(t, "widgets", c.label)
	})

	t.Run("declared parameters are checked", func(t *testing.T) {
		t.Parallel()

		err := fn(&counter{}, "three", "widgets")
		require.Error(t, err)
		assert.Equal(t,
			"argument n was passed incorrectly, of type string, should be of type int",
			err.Error())
	})
}

func TestWrapConfigurationErrors(t *testing.T) {
	t.Parallel()

	t.Run("non-function", func(t *testing.T) {
		t.Parallel()

		_, err := check.Wrap(42)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNotFunc)
	})

	t.Run("unsatisfiable constraint", func(t *testing.T) {
		t.Parallel()

		_, err := check.Wrap(func(s string) {},
			signature.WithNames("s"),
			signature.WithConstraint("s", constraint.For[int]()))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrBadConstraint)
	})

	t.Run("must variants panic", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { check.MustWrap(42) })
		assert.Panics(t, func() { check.MustWrapConstructor(42) })

		assert.NotPanics(t, func() {
			check.MustWrap(func(n int) {}, signature.WithNames("n"))
		})
	})
}

func TestWrapCalleePanicPropagates(t *testing.T) {
	t.Parallel()

	boom := func() { panic("boom") }

	wrapped, err := check.Wrap(boom)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "boom", wrapped.Func())
}

func TestCheckedString(t *testing.T) {
	t.Parallel()

	wrapped, err := check.Wrap(sum,
		signature.WithNames("base", "extra"),
		signature.WithConstraintExpr("extra", "int"))
	require.NoError(t, err)

	assert.Equal(t, "func sum(base int, extra ...int) (int, error)", wrapped.String())
}

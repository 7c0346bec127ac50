package bind_test

import (
	"reflect"
	"testing"

	"github.com/markpock/Validation/bind"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gauge struct {
	label string
	level int
}

func (g *gauge) init(label string, level int) {
	g.label = label
	g.level = level
}

func pairSig(t *testing.T) *signature.Signature {
	t.Helper()

	sig, err := signature.New(
		func(id int, name string) { _, _ = id, name },
		signature.WithNames("id", "name"),
	)
	require.NoError(t, err)

	return sig
}

func describeSig(t *testing.T) *signature.Signature {
	t.Helper()

	sig, err := signature.New(
		func(id int, weight float64, tags ...string) { _, _, _ = id, weight, tags },
		signature.WithNames("id", "weight", "tags"),
		signature.WithDefault("weight", 2.5),
	)
	require.NoError(t, err)

	return sig
}

func collect(t *testing.T, args *bind.Args) []bind.Bound {
	t.Helper()

	var bounds []bind.Bound
	for b := range args.All() {
		bounds = append(bounds, b)
	}

	return bounds
}

func TestInputs(t *testing.T) {
	t.Parallel()

	sig := pairSig(t)

	args, err := bind.Inputs(sig, []reflect.Value{
		reflect.ValueOf(3),
		reflect.ValueOf("abc"),
	})
	require.NoError(t, err)

	bounds := collect(t, args)
	require.Len(t, bounds, 2)

	assert.Equal(t, "id", bounds[0].Name)
	assert.Equal(t, 3, bounds[0].Value.Interface())
	assert.Equal(t, "name", bounds[1].Name)
	assert.Equal(t, "abc", bounds[1].Value.Interface())
}

func TestInputsLengthMismatch(t *testing.T) {
	t.Parallel()

	sig := pairSig(t)

	_, err := bind.Inputs(sig, []reflect.Value{reflect.ValueOf(3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestInputsFlattensVariadic(t *testing.T) {
	t.Parallel()

	sig := describeSig(t)

	args, err := bind.Inputs(sig, []reflect.Value{
		reflect.ValueOf(3),
		reflect.ValueOf(1.5),
		reflect.ValueOf([]string{"a", "b"}),
	})
	require.NoError(t, err)

	bounds := collect(t, args)
	require.Len(t, bounds, 4)

	assert.Equal(t, "tags[0]", bounds[2].Name)
	assert.Equal(t, "a", bounds[2].Value.Interface())
	assert.Equal(t, "tags[1]", bounds[3].Name)
	assert.Equal(t, "b", bounds[3].Value.Interface())
}

func TestDynamicPositional(t *testing.T) {
	t.Parallel()

	sig := describeSig(t)

	args, err := bind.Dynamic(sig, []any{3}, nil)
	require.NoError(t, err)

	// Omitted parameters are not checkable bindings.
	bounds := collect(t, args)
	require.Len(t, bounds, 1)
	assert.Equal(t, "id", bounds[0].Name)

	in, err := args.Finalize()
	require.NoError(t, err)
	require.Len(t, in, 2)

	assert.Equal(t, 3, in[0].Interface())
	assert.Equal(t, 2.5, in[1].Interface())
}

func TestDynamicKeywords(t *testing.T) {
	t.Parallel()

	sig := describeSig(t)

	args, err := bind.Dynamic(sig, nil, map[string]any{"id": 7, "weight": 1.25})
	require.NoError(t, err)

	in, err := args.Finalize()
	require.NoError(t, err)
	require.Len(t, in, 2)

	assert.Equal(t, 7, in[0].Interface())
	assert.Equal(t, 1.25, in[1].Interface())
}

func TestDynamicMixed(t *testing.T) {
	t.Parallel()

	sig := describeSig(t)

	args, err := bind.Dynamic(sig, []any{3}, map[string]any{"weight": 4.0})
	require.NoError(t, err)

	in, err := args.Finalize()
	require.NoError(t, err)
	require.Len(t, in, 2)

	assert.Equal(t, 3, in[0].Interface())
	assert.Equal(t, 4.0, in[1].Interface())
}

func TestDynamicVariadicOverflow(t *testing.T) {
	t.Parallel()

	sig := describeSig(t)

	args, err := bind.Dynamic(sig, []any{3, 1.5, "a", "b"}, nil)
	require.NoError(t, err)

	bounds := collect(t, args)
	require.Len(t, bounds, 4)
	assert.Equal(t, "tags[0]", bounds[2].Name)
	assert.Equal(t, "tags[1]", bounds[3].Name)

	in, err := args.Finalize()
	require.NoError(t, err)
	require.Len(t, in, 4)

	assert.Equal(t, "a", in[2].Interface())
	assert.Equal(t, "b", in[3].Interface())
}

func TestDynamicErrors(t *testing.T) {
	t.Parallel()

	t.Run("too many positionals", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(pairSig(t), []any{1, "a", true}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrTooManyArgs)
	})

	t.Run("unknown keyword", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(pairSig(t), nil, map[string]any{"nome": "a"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownParam)
	})

	t.Run("positional and keyword for the same parameter", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(pairSig(t), []any{1}, map[string]any{"id": 2})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrDuplicateParam)
	})

	t.Run("variadic by keyword", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(describeSig(t), nil, map[string]any{"tags": []string{"x"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConfiguration)
	})

	t.Run("failures are collected together", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(pairSig(t), nil, map[string]any{"nome": "a", "cognome": "b"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownParam)
		assert.Contains(t, err.Error(), "nome")
		assert.Contains(t, err.Error(), "cognome")
	})
}

func TestFinalizeMissing(t *testing.T) {
	t.Parallel()

	sig := pairSig(t)

	args, err := bind.Dynamic(sig, []any{3}, nil)
	require.NoError(t, err)

	_, err = args.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingParam)
	assert.Contains(t, err.Error(), "name")
}

func TestFinalizeRejectsUnassignable(t *testing.T) {
	t.Parallel()

	sig := pairSig(t)

	args, err := bind.Dynamic(sig, []any{"three", "x"}, nil)
	require.NoError(t, err)

	_, err = args.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.Contains(t, err.Error(), "not assignable")
}

func TestFinalizeUntypedNil(t *testing.T) {
	t.Parallel()

	t.Run("nilable parameter takes a typed zero", func(t *testing.T) {
		t.Parallel()

		sig, err := signature.New(
			func(p *int) { _ = p },
			signature.WithNames("p"),
		)
		require.NoError(t, err)

		args, err := bind.Dynamic(sig, []any{nil}, nil)
		require.NoError(t, err)

		in, err := args.Finalize()
		require.NoError(t, err)
		require.Len(t, in, 1)
		assert.True(t, in[0].IsNil())
	})

	t.Run("non-nilable parameter rejects nil", func(t *testing.T) {
		t.Parallel()

		args, err := bind.Dynamic(pairSig(t), []any{nil, "x"}, nil)
		require.NoError(t, err)

		_, err = args.Finalize()
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConfiguration)
		assert.Contains(t, err.Error(), "untyped nil")
	})
}

func TestDynamicConstructor(t *testing.T) {
	t.Parallel()

	sig, err := signature.NewConstructor(
		(*gauge).init,
		signature.WithNames("label", "level"),
	)
	require.NoError(t, err)

	t.Run("receiver leads the positionals", func(t *testing.T) {
		t.Parallel()

		g := &gauge{}

		args, err := bind.Dynamic(sig, []any{g, "load", 80}, nil)
		require.NoError(t, err)

		// The receiver is never a checkable binding.
		bounds := collect(t, args)
		require.Len(t, bounds, 2)
		assert.Equal(t, "label", bounds[0].Name)
		assert.Equal(t, "level", bounds[1].Name)

		in, err := args.Finalize()
		require.NoError(t, err)
		require.Len(t, in, 3)
		assert.Same(t, g, in[0].Interface())
	})

	t.Run("receiver cannot be passed by keyword", func(t *testing.T) {
		t.Parallel()

		_, err := bind.Dynamic(sig, nil, map[string]any{signature.RecvName: &gauge{}})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownParam)
	})

	t.Run("missing receiver", func(t *testing.T) {
		t.Parallel()

		args, err := bind.Dynamic(sig, nil, map[string]any{"label": "load", "level": 80})
		require.NoError(t, err)

		_, err = args.Finalize()
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMissingParam)
		assert.Contains(t, err.Error(), "receiver")
	})
}

package check

import (
	"context"
	"reflect"

	"github.com/markpock/Validation/bind"
	"github.com/markpock/Validation/signature"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Checked pairs a callable with its signature and a validating
// trampoline. The trampoline returned by Func has the identical static
// and reflect type as the original, so a checked callable substitutes
// for the original everywhere, reflection-based introspection included.
type Checked[F any] struct {
	fn    F
	fv    reflect.Value
	sig   *signature.Signature
	tramp F

	ctxIn  bool
	errOut int
}

// Wrap builds a checked wrapper around fn. Configuration problems, such
// as fn not being a function, a constraint naming no parameter, an
// unsatisfiable constraint or a default of the wrong type, surface here
// once, never per call.
func Wrap[F any](fn F, opts ...signature.Option) (*Checked[F], error) {
	sig, err := signature.New(fn, opts...)
	if err != nil {
		return nil, err
	}

	return newChecked(fn, sig), nil
}

// MustWrap is Wrap panicking on configuration errors, for package-level
// wrapping where a bad declaration should stop the program at startup.
func MustWrap[F any](fn F, opts ...signature.Option) *Checked[F] {
	c, err := Wrap(fn, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// WrapConstructor builds a checked wrapper around a construction routine
// given in method-expression form, receiver first. The receiver is bound
// but never checked, and keyword access skips it entirely.
func WrapConstructor[F any](init F, opts ...signature.Option) (*Checked[F], error) {
	sig, err := signature.NewConstructor(init, opts...)
	if err != nil {
		return nil, err
	}

	return newChecked(init, sig), nil
}

// MustWrapConstructor is WrapConstructor panicking on configuration
// errors.
func MustWrapConstructor[F any](init F, opts ...signature.Option) *Checked[F] {
	c, err := WrapConstructor(init, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

func newChecked[F any](fn F, sig *signature.Signature) *Checked[F] {
	ft := sig.Type()
	c := &Checked[F]{
		fn:     fn,
		fv:     reflect.ValueOf(fn),
		sig:    sig,
		ctxIn:  ft.NumIn() > 0 && ft.In(0) == contextType,
		errOut: errorResult(ft),
	}
	c.tramp = reflect.MakeFunc(ft, c.intercept).Interface().(F)

	return c
}

// Func returns the validating trampoline. Assign it wherever the
// original callable would go; every call through it is checked first.
func (c *Checked[F]) Func() F {
	return c.tramp
}

// Unwrap returns the original callable with no checking attached.
func (c *Checked[F]) Unwrap() F {
	return c.fn
}

// Signature exposes the descriptor the wrapper validates against:
// parameter names, order, constraints and defaults.
func (c *Checked[F]) Signature() *signature.Signature {
	return c.sig
}

// String renders the declared signature, constraints and defaults
// included.
func (c *Checked[F]) String() string {
	return c.sig.String()
}

// intercept is the trampoline body. It validates the inputs and either
// forwards to the original callable or surfaces the failure without
// running it.
func (c *Checked[F]) intercept(in []reflect.Value) []reflect.Value {
	args, err := bind.Inputs(c.sig, in)
	if err != nil {
		return c.fail(err)
	}

	if err := run(c.callContext(in), c.sig, args); err != nil {
		return c.fail(err)
	}

	if c.sig.IsVariadic() {
		return c.fv.CallSlice(in)
	}

	return c.fv.Call(in)
}

// callContext picks the context a check runs under. A callable whose
// first parameter is a context.Context donates the caller's own context,
// which carries its tracer, logger and rendering flags into the check.
func (c *Checked[F]) callContext(in []reflect.Value) context.Context {
	if !c.ctxIn {
		return context.Background()
	}

	if ctx, ok := in[0].Interface().(context.Context); ok && ctx != nil {
		return ctx
	}

	return context.Background()
}

// fail surfaces a binding or validation failure through the callable's
// own shape: zero results with the failure in a trailing error result
// when the signature declares one, a panic otherwise. Either way the
// wrapped callable never starts.
func (c *Checked[F]) fail(err error) []reflect.Value {
	if c.errOut < 0 {
		panic(err)
	}

	ft := c.sig.Type()
	out := make([]reflect.Value, ft.NumOut())

	for i := range out {
		out[i] = reflect.Zero(ft.Out(i))
	}

	ev := reflect.New(errorType).Elem()
	ev.Set(reflect.ValueOf(err))
	out[c.errOut] = ev

	return out
}

// errorResult returns the index of a trailing error result, -1 when the
// function type declares none.
func errorResult(ft reflect.Type) int {
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		return n - 1
	}

	return -1
}

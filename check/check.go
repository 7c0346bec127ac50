// Package check validates the arguments of a call against the constraints
// declared on its signature, before the callee runs.
//
// The entry points come in three shapes. Wrap and WrapConstructor build a
// trampoline with the identical type as the original callable, so the
// checked version drops in anywhere the original fits (see Checked). Call,
// CallNamed and CallArgs invoke through a wrapper dynamically, with loose
// positional and keyword values and defaults filled in. Validate and
// ValidateFunc only check, without invoking anything.
//
// A failed check never runs the callee. All violations of one call are
// collected first and surfaced together as a single *Error, so the caller
// learns about every offending argument at once:
//
//	wrapped := check.MustWrap(describe,
//		signature.WithNames("id", "weight"),
//		signature.WithConstraintExpr("weight", "int | float64"),
//	)
//	describe = wrapped.Func()
//
// Checking is matching only. A value satisfies a constraint when its
// dynamic type is one of the constraint's alternatives or implements an
// interface alternative. Nothing is ever converted, so a bool never
// passes an int constraint.
package check

import (
	"context"
	"reflect"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/markpock/Validation/bind"
	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/contexts"
	"github.com/markpock/Validation/logger"
	"github.com/markpock/Validation/signature"
	"github.com/markpock/Validation/spans"
)

// Validate checks loose positional and keyword arguments against a
// signature, invoking nothing. Binding failures (too many positionals,
// unknown or duplicated keywords) come back wrapping
// errors.ErrConfiguration; constraint failures come back as one *Error
// listing every offending argument of the call.
func Validate(ctx context.Context, sig *signature.Signature, positional []any, keyword map[string]any) error {
	args, err := bind.Dynamic(sig, positional, keyword)
	if err != nil {
		return err
	}

	return run(contexts.EnsureContext(ctx), sig, args) //nolint:contextcheck // EnsureContext preserves context inheritance
}

// ValidateFunc derives fn's signature on the spot and checks positional
// arguments against it, without calling fn. Convenient for one-off
// checks; wrap fn once instead when the same callable is checked
// repeatedly.
func ValidateFunc(ctx context.Context, fn any, args ...any) error {
	sig, err := signature.New(fn)
	if err != nil {
		return err
	}

	return Validate(ctx, sig, args, nil)
}

// run scans bound arguments under a span, records the outcome metrics,
// and consolidates violations into a single error. A nil return means
// the call may proceed.
func run(ctx context.Context, sig *signature.Signature, args *bind.Args) error {
	kind := "func"
	if sig.IsConstructor() {
		kind = "constructor"
	}

	start := time.Now()

	var violations []Violation

	spans.Run(ctx, "check "+sig.Name(), func(ctx context.Context, _ trace.Span) {
		violations = scan(ctx, args)
	}, spans.WithAttributes(
		attribute.String("callable", sig.Name()),
		attribute.String("kind", kind),
	))

	hasError := strconv.FormatBool(len(violations) > 0)
	checksTotal.WithLabelValues(kind, hasError).Inc()
	checkTime.WithLabelValues(sig.Name(), hasError).Observe(float64(time.Since(start).Microseconds()))

	if len(violations) == 0 {
		return nil
	}

	violationsTotal.WithLabelValues(sig.Name()).Add(float64(len(violations)))

	logger.Get(ctx).Debug("call validation failed",
		"callable", sig.Name(),
		"violations", len(violations))

	return newError(sig.Name(), violations)
}

// scan walks the supplied arguments in declaration order and collects
// every constraint miss. Unconstrained parameters and omitted defaulted
// parameters never appear; variadic arguments are checked element by
// element against the per-element constraint.
func scan(ctx context.Context, args *bind.Args) []Violation {
	verbose := VerboseTypes(ctx)

	var violations []Violation

	for b := range args.All() {
		if !b.Param.Constrained() {
			continue
		}

		if b.Param.Constraint.MatchesValue(b.Value) {
			continue
		}

		violations = append(violations, Violation{
			Param:    b.Name,
			Actual:   actualType(b.Value, verbose),
			Expected: expectedType(b.Param.Constraint, verbose),
		})
	}

	return violations
}

// actualType renders the dynamic type an argument arrived with. Values
// of interface type report the type stored inside; untyped nil reports
// "nil".
func actualType(v reflect.Value, verbose bool) string {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	if !v.IsValid() || v.Kind() == reflect.Interface {
		return "nil"
	}

	if verbose {
		return constraint.VerboseName(v.Type())
	}

	return constraint.Name(v.Type())
}

func expectedType(c constraint.Constraint, verbose bool) string {
	if verbose {
		return c.Verbose()
	}

	return c.String()
}

// Package errors defines the error taxonomy shared by the validation
// packages. There are exactly two kinds of failure: per-call validation
// failures (one or more arguments did not satisfy their declared
// constraints) and configuration failures (the validation facility itself
// was misused, detected at wrap time or while binding a call). Everything
// else in the module wraps one of these sentinels so that callers can
// distinguish the two kinds with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks the expected, per-call failure kind: at least one
	// argument failed its declared constraint. Carried by check.Error.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration marks the fatal failure kind: a misuse of the
	// validation facility itself rather than a bad call. Raised at wrap
	// time (unresolvable symbols, impossible constraints) or while binding
	// (more positional arguments than declared parameters). Never retried.
	ErrConfiguration = errors.New("invalid check configuration")
)

// Configuration sub-errors. Each wraps ErrConfiguration, so
// errors.Is(err, ErrConfiguration) holds for all of them.
var (
	// ErrNotFunc is returned when a wrap target is not a function.
	ErrNotFunc = fmt.Errorf("%w: not a function", ErrConfiguration)

	// ErrUnknownSymbol is returned when a type name in a constraint
	// expression cannot be resolved by the symbol table.
	ErrUnknownSymbol = fmt.Errorf("%w: unknown type symbol", ErrConfiguration)

	// ErrBadConstraint is returned when a constraint cannot be built from
	// the given input (unparseable expression, unusable loose value).
	ErrBadConstraint = fmt.Errorf("%w: unusable constraint", ErrConfiguration)

	// ErrBadDefault is returned when a declared default value violates the
	// parameter's own constraint, or a default tag cannot be parsed.
	ErrBadDefault = fmt.Errorf("%w: bad default value", ErrConfiguration)

	// ErrUnknownParam is returned when a name does not match any declared
	// parameter, either in a wrap option or in a keyword argument.
	ErrUnknownParam = fmt.Errorf("%w: unknown parameter", ErrConfiguration)

	// ErrTooManyArgs is returned when a call supplies more positional
	// values than the callable declares parameters.
	ErrTooManyArgs = fmt.Errorf("%w: too many positional arguments", ErrConfiguration)

	// ErrDuplicateParam is returned when a parameter receives a value both
	// positionally and by keyword in the same call.
	ErrDuplicateParam = fmt.Errorf("%w: parameter supplied twice", ErrConfiguration)

	// ErrMissingParam is returned by dynamic invocation when a parameter
	// without a default is not supplied.
	ErrMissingParam = fmt.Errorf("%w: missing required argument", ErrConfiguration)
)

// ErrPanicRecovery wraps panics converted to errors by utils.PanicError.
var ErrPanicRecovery = errors.New("recovered from panic")

// Collection is a thread-unsafe accumulator for multiple errors.
// It is used where several independent failures should surface together:
// preflight runs collect one error per target, and wrap-time signature
// analysis collects every bad option instead of stopping at the first.
// Per-call argument violations do NOT use a Collection; those are gathered
// into a single check.Error so the caller sees one consolidated message.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns the collected errors as a single error.
// Returns nil for an empty collection, the error itself for a single
// entry, and an errors.Join of all entries otherwise.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}

package check

import (
	"fmt"
	"slices"
	"strings"

	"github.com/markpock/Validation/errors"
)

// Violation is one argument that failed its constraint. All strings are
// pre-rendered at check time so the error survives after the call's
// values are gone.
type Violation struct {
	// Param is the declared name of the offending parameter.
	Param string
	// Actual is the rendered dynamic type the argument arrived with.
	Actual string
	// Expected is the rendered constraint the parameter declares.
	Expected string
}

// Error reports every violation of a single call at once. Collecting
// before raising means a caller fixing a bad call site sees all offending
// arguments in one failure instead of discovering them one re-run at a
// time. It wraps errors.ErrValidation.
type Error struct {
	callable   string
	violations []Violation
}

func newError(callable string, violations []Violation) *Error {
	return &Error{callable: callable, violations: violations}
}

// Callable returns the display name of the callable whose call failed.
func (e *Error) Callable() string {
	return e.callable
}

// Violations returns the offending parameters in declaration order.
func (e *Error) Violations() []Violation {
	return slices.Clone(e.violations)
}

// Error renders the consolidated message. A single violation reads
//
//	argument id was passed incorrectly, of type string, should be of type int
//
// and several read
//
//	arguments id, weight were passed incorrectly, of types string, bool, should be of types int, int | float64
//
// with names and both type lists in parameter declaration order.
func (e *Error) Error() string {
	names := make([]string, len(e.violations))
	actuals := make([]string, len(e.violations))
	expected := make([]string, len(e.violations))

	for i, v := range e.violations {
		names[i] = v.Param
		actuals[i] = v.Actual
		expected[i] = v.Expected
	}

	if len(e.violations) == 1 {
		return fmt.Sprintf("argument %s was passed incorrectly, of type %s, should be of type %s",
			names[0], actuals[0], expected[0])
	}

	return fmt.Sprintf("arguments %s were passed incorrectly, of types %s, should be of types %s",
		strings.Join(names, ", "),
		strings.Join(actuals, ", "),
		strings.Join(expected, ", "))
}

// Unwrap marks the failure as a validation error, so
// errors.Is(err, errors.ErrValidation) holds for every checked-call
// failure.
func (e *Error) Unwrap() error {
	return errors.ErrValidation
}

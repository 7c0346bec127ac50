package utils

import (
	"fmt"

	"github.com/markpock/Validation/errors"
)

// PanicError converts a recovered panic value and optional stack trace into
// a standard error wrapping errors.ErrPanicRecovery. A nil panic value
// yields nil. Error panic values are wrapped so their chain stays
// inspectable; everything else is formatted as a string.
func PanicError(recovered any, stack []byte) error {
	if recovered == nil {
		return nil
	}

	if err, ok := recovered.(error); ok {
		if stack != nil {
			return fmt.Errorf("%w: %w\nstack trace:\n%s", errors.ErrPanicRecovery, err, string(stack))
		}

		return fmt.Errorf("%w: %w", errors.ErrPanicRecovery, err)
	}

	if stack != nil {
		return fmt.Errorf("%w: %v\nstack trace:\n%s", errors.ErrPanicRecovery, recovered, string(stack))
	}

	return fmt.Errorf("%w: %v", errors.ErrPanicRecovery, recovered)
}

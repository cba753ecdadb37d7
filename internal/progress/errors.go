package progress

import (
	"errors"
	"fmt"

	"github.com/thebtf/momentum/internal/db"
)

var (
	// ErrInvalidInput marks caller errors: bad identity, unknown enum values, oversize payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing milestone.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks storage failures. No partial summary accompanies it.
	ErrUnavailable = errors.New("unable to compute progress")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageErr classifies a store error for callers.
func storageErr(op string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

package factory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflictingKeys is returned when stable and varying overrides share keys.
	ErrConflictingKeys = errors.New("stable and varying overrides cannot have matching keys")
	// ErrInvalidStride is returned when the index stride is not positive.
	ErrInvalidStride = errors.New("index stride must be a positive integer")
	// ErrDuplicateAxis is returned when the same key appears on two varying axes.
	ErrDuplicateAxis = errors.New("varying overrides contain a duplicate key")
	// ErrMissingOutputDir is returned when a request names no output directory.
	ErrMissingOutputDir = errors.New("output directory is required")
)

// ConflictingKeysError lists keys present in both stable and varying overrides.
type ConflictingKeysError struct {
	Keys []string
}

func (e *ConflictingKeysError) Error() string {
	return fmt.Sprintf("%s (found: %s)", ErrConflictingKeys, strings.Join(e.Keys, ", "))
}

// Is lets errors.Is match ErrConflictingKeys.
func (e *ConflictingKeysError) Is(target error) bool {
	return target == ErrConflictingKeys
}

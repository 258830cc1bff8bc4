package naming

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownScheme is returned when a naming scheme identifier is not recognised.
	ErrUnknownScheme = errors.New("unknown naming scheme")
	// ErrInvalidWidth is returned when the digit width is outside 1..MaxWidth.
	ErrInvalidWidth = errors.New("digit width must be between 1 and 18")
	// ErrNegativeIndex is returned when a file index is below zero.
	ErrNegativeIndex = errors.New("file index must be non-negative")
	// ErrIndexOverflow is returned when a file index needs more digits than the scheme allows.
	ErrIndexOverflow = errors.New("file index exceeds digit width")
)

// IndexOverflowError reports the index that did not fit and the configured width.
type IndexOverflowError struct {
	Index int
	Width int
}

func (e *IndexOverflowError) Error() string {
	return fmt.Sprintf("number %d has more digits than the digit width (%d)", e.Index, e.Width)
}

// Is lets errors.Is match ErrIndexOverflow.
func (e *IndexOverflowError) Is(target error) bool {
	return target == ErrIndexOverflow
}

package naming

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Numerical names files with zero-padded sequential integers.
	Numerical = "numerical"

	// Extension is appended to every generated filename.
	Extension = ".gin"

	// MaxWidth keeps 10^width within int64.
	MaxWidth = 18
)

// Scheme maps a file index to a filename.
type Scheme interface {
	Name(index int) (string, error)
	// Capacity is the number of distinct indices the scheme can name, starting at zero.
	Capacity() int
}

// Lookup builds the scheme registered under name, bound to the given digit width.
func Lookup(name string, width int) (Scheme, error) {
	switch strings.TrimSpace(name) {
	case Numerical:
		return NewNumerical(width)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

type numericalScheme struct {
	width    int
	capacity int
}

// NewNumerical creates a scheme producing names such as 007.gin for width 3.
func NewNumerical(width int) (Scheme, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidWidth, width)
	}
	capacity := 1
	for i := 0; i < width; i++ {
		capacity *= 10
	}
	return &numericalScheme{width: width, capacity: capacity}, nil
}

func (s *numericalScheme) Name(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("%w, got %d", ErrNegativeIndex, index)
	}
	digits := strconv.Itoa(index)
	if len(digits) > s.width {
		return "", &IndexOverflowError{Index: index, Width: s.width}
	}
	return strings.Repeat("0", s.width-len(digits)) + digits + Extension, nil
}

func (s *numericalScheme) Capacity() int {
	return s.capacity
}

// Stem strips the extension from a generated filename, e.g. 004.gin -> 004.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, Extension)
}

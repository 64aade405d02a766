package dendrite

import (
	"errors"
	"fmt"
)

// Parameter validation errors.
var (
	// ErrInvalidDepth indicates a negative maximum depth.
	ErrInvalidDepth = errors.New("dendrite: max depth must be non-negative")

	// ErrDepthLimit indicates a depth that would explode the output size.
	ErrDepthLimit = errors.New("dendrite: max depth above limit")

	// ErrInvalidLength indicates a non-positive or non-finite length.
	ErrInvalidLength = errors.New("dendrite: length must be positive and finite")

	// ErrInvalidAngle indicates a negative or non-finite angle.
	ErrInvalidAngle = errors.New("dendrite: angle must be non-negative and finite")

	// ErrInvalidBranching indicates an empty or inverted branch count range.
	ErrInvalidBranching = errors.New("dendrite: invalid branch count range")

	// ErrInvalidRange indicates an inverted or out of bounds sampling range.
	ErrInvalidRange = errors.New("dendrite: invalid sampling range")

	// ErrInvalidRoots indicates a forest with no roots.
	ErrInvalidRoots = errors.New("dendrite: root count must be positive")

	// ErrBrokenInvariant is returned by Forest.Check.
	ErrBrokenInvariant = errors.New("dendrite: structural invariant violated")
)

// ParamError names the offending parameter.
type ParamError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

func paramErr(field string, value float64, err error) error {
	return &ParamError{Field: field, Value: value, Wrapped: err}
}

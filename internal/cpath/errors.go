package cpath

import (
	"errors"
	"fmt"
)

// Domain errors for path integration.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("cpath: invalid state (NaN or Inf detected)")

	// ErrDiverged indicates the tracked path left the trackable region.
	ErrDiverged = errors.New("cpath: path diverged")

	// ErrStepTooSmall indicates the adaptive step shrank below the minimum.
	ErrStepTooSmall = errors.New("cpath: adaptive step below minimum")

	// ErrDimensionMismatch indicates mismatched vector and system dimensions.
	ErrDimensionMismatch = errors.New("cpath: dimension mismatch between vector and system")

	// ErrSingular indicates a linear solve hit an exactly singular matrix.
	ErrSingular = errors.New("cpath: singular linear system")
)

// PathError wraps an error with the context of a single tracked path.
type PathError struct {
	Path    int
	T       float64
	Wrapped error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %d (t=%.6f): %v", e.Path, e.T, e.Wrapped)
}

func (e *PathError) Unwrap() error {
	return e.Wrapped
}

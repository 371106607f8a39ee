package odtree

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned when a result is requested before Fit.
	ErrNotFitted = errors.New("learner has not been fitted")
)

// ErrInvalidSupport indicates a non-positive minimum support.
type ErrInvalidSupport struct {
	Support int
}

func (e *ErrInvalidSupport) Error() string {
	return fmt.Sprintf("invalid minimum support: %d", e.Support)
}

// ErrInvalidDepth indicates a depth outside the mode's valid range.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDepth struct {
	Depth int
	Mode  Mode
	cause error
}

func (e *ErrInvalidDepth) Error() string {
	return fmt.Sprintf("invalid depth %d for mode %s", e.Depth, e.Mode)
}

func (e *ErrInvalidDepth) Unwrap() error { return e.cause }

// ErrPredictMismatch indicates a feature row narrower than the attributes
// the tree tests.
type ErrPredictMismatch struct {
	Attribute int
	Width     int
}

func (e *ErrPredictMismatch) Error() string {
	return fmt.Sprintf("tree tests attribute %d but row has %d features", e.Attribute, e.Width)
}

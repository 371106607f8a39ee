package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when the input holds no transactions.
	ErrEmptyDataset = errors.New("dataset is empty")
)

// ErrMalformedRow indicates an input row that cannot produce a valid bit
// pattern: wrong column count or a non-binary feature value.
type ErrMalformedRow struct {
	Row    int
	Reason string
	cause  error
}

func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("malformed row %d: %s", e.Row, e.Reason)
}

func (e *ErrMalformedRow) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a feature matrix and label vector of
// different lengths.
type ErrDimensionMismatch struct {
	Rows   int
	Labels int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: %d feature rows, %d labels", e.Rows, e.Labels)
}

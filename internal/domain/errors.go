package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a query or topK that fails validation before any outbound call.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDimensionMismatch signals an embedding vector whose length disagrees with configuration.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrUpstreamUnavailable signals an unreachable or failing external gateway; retryable by the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// DimensionMismatchError wraps ErrDimensionMismatch with the expected and actual lengths.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrDimensionMismatch.Error(), e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(expected, got int) error {
	return &DimensionMismatchError{Expected: expected, Got: got}
}

package models

import "errors"

// Sentinel errors for the simulation core. All are local, recoverable
// errors raised synchronously; callers classify them with errors.Is and map
// them to HTTP status codes at the server boundary.
var (
	// ErrInsufficientData indicates a value series too short for the requested metric.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrAllocation indicates portfolio allocations that are empty or do not sum to 100.
	ErrAllocation = errors.New("invalid allocation")

	// ErrInvalidWindow indicates a malformed or inverted event date range.
	ErrInvalidWindow = errors.New("invalid event window")

	// ErrMissingPriceData indicates no usable price for an asset at a required date.
	ErrMissingPriceData = errors.New("missing price data")

	// ErrEmptyInput indicates an empty scenario list passed to the advice selector.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput indicates a negative or non-finite numeric input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a missing stored record (portfolio, cached history).
	ErrNotFound = errors.New("not found")
)

package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrTransport indicates the upstream API could not be reached or
	// answered with a non-success status
	ErrTransport = errors.New("transport failure")

	// ErrDanglingReference indicates a record names a parent identity
	// that does not exist in the store
	ErrDanglingReference = errors.New("dangling reference")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)

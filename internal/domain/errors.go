package domain

import "errors"

var (
	// ErrUnavailable means the network tier failed: transport error or non-2xx.
	ErrUnavailable = errors.New("source unavailable")
	// ErrMalformed means a stored fallback payload could not be decoded.
	ErrMalformed = errors.New("malformed local data")
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid input")
)

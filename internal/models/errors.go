package models

import "errors"

var (
	// ErrInvalidInput marks a request rejected before any external call
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized marks a missing, unknown or expired session
	ErrUnauthorized = errors.New("invalid or expired session")
	// ErrNotFound marks an external entity (channel, video) that does not exist
	ErrNotFound = errors.New("not found")
)

package cache

import "errors"

var (
	// ErrNotFound is returned by Get when no live entry exists for the key.
	ErrNotFound = errors.New("cache: entry not found")
	// ErrStopped is returned by the memory store while it is stopped.
	ErrStopped = errors.New("cache: store is stopped")
)

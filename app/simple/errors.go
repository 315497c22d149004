package simple

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown session backend")
	ErrNilOption      = errors.New("option value cannot be nil")
)

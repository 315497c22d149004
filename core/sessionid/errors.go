package sessionid

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when the configured MAC algorithm is not in the registry.
	ErrUnsupportedAlgorithm = errors.New("sessionid: unsupported mac algorithm")
	// ErrEntropy is returned when the random source fails to produce enough bytes.
	ErrEntropy = errors.New("sessionid: failed to read random bytes")
	// ErrEntropySize is returned when an entropy override does not match the configured size.
	ErrEntropySize = errors.New("sessionid: entropy override has wrong size")
)

package session

import "errors"

var (
	// ErrIdentifierConstruction is returned when a new identifier cannot be minted,
	// for example because the configured MAC algorithm is unknown.
	ErrIdentifierConstruction = errors.New("session: failed to construct identifier")
	// ErrCacheUnavailable is returned when the cache fails to read, write or drop an entry.
	ErrCacheUnavailable = errors.New("session: cache unavailable")
	// ErrEncode is returned when session values cannot be serialized to JSON.
	ErrEncode = errors.New("session: failed to encode values")
	// ErrInvalidConfig is returned by Resolve for unusable settings.
	ErrInvalidConfig = errors.New("session: invalid configuration")
	// ErrExpiryWithoutKey is returned by Resolve when ExpiresIn is set without Key.
	// Without a key the expiry field is neither encoded nor authenticated.
	ErrExpiryWithoutKey = errors.New("session: expiry requires a key")
)

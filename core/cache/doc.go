// Package cache defines the key-value Store that session data is persisted in,
// plus two small building blocks around it.
//
// Segment namespaces keys inside a shared backend and applies a default TTL
// to writes that do not carry one:
//
//	backend := redisstore.New(client)
//	sessions := cache.NewSegment(backend, "session", 24*time.Hour)
//
//	_ = sessions.Set(ctx, id, payload, 0) // stored as "session:<id>" for 24h
//
// Memory is a map-backed Store for tests and local development. It expires
// entries on read and can be stopped to simulate an unavailable backend:
//
//	store := cache.NewMemory()
//	store.Stop()
//	_, err := store.Get(ctx, "k") // cache.ErrStopped
//
// Production backends live under integration/cache.
//
// # Errors
//
// Get reports a miss with ErrNotFound. Every other error from a Store means
// the backend could not answer, and callers treat it as unavailability rather
// than as an empty result.
package cache

// Package redisstore implements cache.Store on Redis. Entries are written
// with SET and a native expiry, so Redis evicts them without help.
package redisstore

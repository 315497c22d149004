// Package session keeps per-request key/value state in a cache, addressed by
// a self-validating identifier carried in a cookie.
//
// The Manager has two hooks. Load runs before the handler: it validates the
// cookie with a sessionid.Codec and fetches the values from the cache. Store
// runs after the handler and before the response is written: it compares the
// values with what was loaded and, only when they differ, writes them back,
// minting an identifier and staging the cookie for fresh sessions.
//
//	mgr, err := session.New(cache.NewMemory(),
//		session.WithKey(os.Getenv("SESSION_KEY")),
//		session.WithExpiresIn(24*time.Hour),
//	)
//
//	sess, err := mgr.Load(ctx, w, r)
//	sess.Set("theme", "dark")
//	err = mgr.Store(ctx, w, r, sess)
//
// # Identifiers
//
// An identifier is stable for the lifetime of a session. Mutating an existing
// session never re-mints it; Remove followed by Set does. Invalid, expired and
// unknown identifiers are treated as no session at all and their cookie is
// cleared.
//
// # Errors
//
// ErrCacheUnavailable and ErrIdentifierConstruction abort the request. Nothing
// is staged on the response when either occurs during Store: the cookie is only
// set after the cache accepted the write and only cleared after the entry was
// dropped.
//
// # State
//
// Session.State distinguishes StateAbsent (nil session, e.g. a host outside
// Config.VHost), StateEmpty, StatePopulated and StateDeleted.
package session

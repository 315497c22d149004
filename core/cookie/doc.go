// Package cookie is the cookie transport used by the session manager: it reads
// one named cookie from a request and stages Set-Cookie instructions on a
// response.
//
// # Basic Usage
//
//	manager := cookie.New(cookie.WithSecure(true))
//
//	// Read a cookie value
//	value, err := manager.Get(r, "id")
//	if errors.Is(err, cookie.ErrCookieNotFound) {
//		// Cookie doesn't exist
//	}
//
//	// Stage a cookie for one hour
//	err = manager.Set(w, "id", value, cookie.WithMaxAge(3600))
//
//	// Stage removal (empty value, Max-Age=0, epoch Expires)
//	manager.Delete(w, "id")
//
// # Staging
//
// Set and Delete write to the response header map, not to the wire, so they
// must run before the response status is written. A later call for the same
// cookie name replaces the earlier one; a request that first clears a stale
// cookie and then mints a new one sends a single Set-Cookie line.
//
// # Defaults
//
// Path=/, HttpOnly and SameSite=Lax are applied unless overridden. Config
// maps the attributes to COOKIE_* environment variables and turns Secure on.
package cookie

// Package sessionid builds and verifies self-describing session identifiers.
//
// An identifier is the URL-safe base64 encoding (no padding) of up to three
// concatenated fields:
//
//	entropy    Size random bytes, always present
//	expiresAt  8-byte big-endian float64 Unix-millisecond timestamp, present when Key and ExpiresIn are set
//	mac        HMAC over entropy||expiresAt, present when Key is set
//
// The encoding is a pure function of (entropy, expiresAt, key, algorithm), so
// an identifier is verified by decoding its entropy and expiry, building the
// identifier again and comparing the full strings. No server-side index is
// consulted.
//
// # Usage
//
//	codec := sessionid.New(sessionid.Options{
//		Key:       []byte(os.Getenv("SESSION_KEY")),
//		ExpiresIn: 24 * time.Hour,
//	})
//
//	id, err := codec.Construct()
//	if err != nil {
//		// unsupported algorithm or entropy failure
//	}
//
//	if res := codec.Validate(id); res.Valid {
//		fmt.Println("expires at", res.ExpiresAt)
//	}
//
// # Algorithms
//
// The MAC hash is chosen by name. The standard library provides md5, sha1,
// sha224, sha256, sha384, sha512 and sha512-256; golang.org/x/crypto provides
// sha3-256, sha3-384, sha3-512, blake2b-256 and blake2b-512. An unknown name is
// reported by Construct as ErrUnsupportedAlgorithm, and Validate rejects every
// identifier under such a configuration.
//
// # Failure modes
//
// Validate never returns an error. Malformed encoding, short input, forged MAC
// and expiry all produce Result{Valid: false}; only expiry sets Expired, and
// that flag is read before the MAC is checked.
package sessionid

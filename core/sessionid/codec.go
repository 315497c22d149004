package sessionid

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// DefaultSize is the number of random bytes in an identifier.
	DefaultSize = 16
	// expirySize is the width of the big-endian float64 expiry field.
	expirySize = 8
)

var encoding = base64.RawURLEncoding

// Options describes the identifier layout. Key enables the MAC field;
// Key together with a positive ExpiresIn enables the expiry field.
type Options struct {
	Size      int
	Key       []byte
	Algorithm string
	ExpiresIn time.Duration
}

// Codec constructs and validates session identifiers.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	size      int
	key       []byte
	algorithm string
	expiresIn time.Duration
	now       func() time.Time
	random    io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom overrides the entropy source.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.random = r
		}
	}
}

// New creates a codec for the given layout. Zero Size and empty Algorithm
// fall back to DefaultSize and DefaultAlgorithm. The algorithm is not
// checked here; an unknown name surfaces from Construct.
func New(opts Options, options ...Option) *Codec {
	c := &Codec{
		size:      opts.Size,
		key:       bytes.Clone(opts.Key),
		algorithm: opts.Algorithm,
		expiresIn: opts.ExpiresIn,
		now:       time.Now,
		random:    rand.Reader,
	}
	if c.size <= 0 {
		c.size = DefaultSize
	}
	if c.algorithm == "" {
		c.algorithm = DefaultAlgorithm
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Result is the outcome of Validate.
type Result struct {
	// Valid is true only for well-formed, unexpired, authentic identifiers.
	Valid bool
	// RandomBytes holds the entropy field of a valid identifier.
	RandomBytes []byte
	// ExpiresAt is the decoded expiry, zero when the layout has no expiry field.
	ExpiresAt time.Time
	// Expired reports that the expiry field is in the past. The field is read
	// before authentication, so it is a hint and never proof of origin.
	Expired bool
}

// Construct mints a new identifier from fresh entropy.
func (c *Codec) Construct() (string, error) {
	entropy := make([]byte, c.size)
	if _, err := io.ReadFull(c.random, entropy); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	return c.construct(entropy, c.defaultExpiry())
}

// ConstructWith builds the identifier for the given entropy and expiry.
// A zero expiresAt means now plus the configured duration. Identical inputs
// always yield the identical string.
func (c *Codec) ConstructWith(entropy []byte, expiresAt time.Time) (string, error) {
	if len(entropy) != c.size {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrEntropySize, len(entropy), c.size)
	}
	exp := c.defaultExpiry()
	if !expiresAt.IsZero() {
		exp = millis(expiresAt)
	}
	return c.construct(entropy, exp)
}

// Validate decodes candidate and checks it by recomputation. It never
// panics and never reports why an identifier was rejected beyond Expired.
func (c *Codec) Validate(candidate string) Result {
	decoded, err := encoding.DecodeString(candidate)
	if err != nil {
		return Result{}
	}

	minSize := c.size
	if c.hasExpiry() {
		minSize += expirySize
	}
	if len(decoded) < minSize {
		return Result{}
	}

	entropy := decoded[:c.size]
	var res Result
	var expiresAt float64
	if c.hasExpiry() {
		expiresAt = math.Float64frombits(binary.BigEndian.Uint64(decoded[c.size : c.size+expirySize]))
		if math.IsNaN(expiresAt) || math.IsInf(expiresAt, 0) {
			return Result{}
		}
		res.ExpiresAt = time.UnixMilli(int64(expiresAt))
		if millis(c.now()) >= expiresAt {
			res.Expired = true
			return res
		}
	}

	expected, err := c.construct(entropy, expiresAt)
	if err != nil {
		return Result{}
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) != 1 {
		return Result{}
	}

	res.Valid = true
	res.RandomBytes = bytes.Clone(entropy)
	return res
}

// EncodedLen returns the length of identifiers produced by this codec,
// or 0 when the algorithm is unknown and a key is set.
func (c *Codec) EncodedLen() int {
	n := c.size
	if len(c.key) > 0 {
		newHash, ok := lookup(c.algorithm)
		if !ok {
			return 0
		}
		if c.hasExpiry() {
			n += expirySize
		}
		n += newHash().Size()
	}
	return encoding.EncodedLen(n)
}

// Size returns the entropy length in bytes.
func (c *Codec) Size() int { return c.size }

// Signed reports whether identifiers carry a MAC.
func (c *Codec) Signed() bool { return len(c.key) > 0 }

// Expiring reports whether identifiers carry an expiry field.
func (c *Codec) Expiring() bool { return c.hasExpiry() }

func (c *Codec) construct(entropy []byte, expiresAt float64) (string, error) {
	buf := make([]byte, 0, c.size+expirySize+64)
	buf = append(buf, entropy...)

	if len(c.key) > 0 {
		newHash, ok := lookup(c.algorithm)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.algorithm)
		}
		if c.hasExpiry() {
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(expiresAt))
		}
		mac := hmac.New(newHash, c.key)
		mac.Write(buf)
		buf = mac.Sum(buf)
	}

	return encoding.EncodeToString(buf), nil
}

func (c *Codec) hasExpiry() bool {
	return len(c.key) > 0 && c.expiresIn > 0
}

func (c *Codec) defaultExpiry() float64 {
	if !c.hasExpiry() {
		return 0
	}
	return millis(c.now().Add(c.expiresIn))
}

// millis encodes t the way the expiry field stores it: Unix milliseconds as float64.
func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

package sessionid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cachesession/core/sessionid"
)

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, sessionid.Supported("sha256"))
	assert.True(t, sessionid.Supported("SHA256"))
	assert.True(t, sessionid.Supported(" sha3-512 "))
	assert.True(t, sessionid.Supported("blake2b-256"))
	assert.False(t, sessionid.Supported("whirlpool"))
	assert.False(t, sessionid.Supported(""))
}

func TestAlgorithms(t *testing.T) {
	t.Parallel()

	names := sessionid.Algorithms()

	assert.Contains(t, names, sessionid.DefaultAlgorithm)
	assert.IsNonDecreasing(t, names)
	for _, name := range names {
		assert.True(t, sessionid.Supported(name), name)
	}
}

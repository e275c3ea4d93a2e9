package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
	assert.False(t, Verify("", hash))
}

func TestHashRejectsBadInput(t *testing.T) {
	_, err := Hash("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same password")
	require.NoError(t, err)
	b, err := Hash("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNeedsRehash(t *testing.T) {
	hash, err := Hash("some password")
	require.NoError(t, err)

	stale, err := NeedsRehash(hash)
	require.NoError(t, err)
	assert.False(t, stale)

	// Any well-formed cost-10 hash; only the cost prefix matters here.
	legacy := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	stale, err = NeedsRehash(legacy)
	require.NoError(t, err)
	assert.True(t, stale)

	_, err = NeedsRehash("not-a-bcrypt-hash")
	assert.Error(t, err)
}

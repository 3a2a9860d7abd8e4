package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	digest, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotContains(t, digest, "s3cret-password")

	assert.True(t, h.Verify("s3cret-password", digest))
	assert.False(t, h.Verify("wrong-password", digest))
	assert.False(t, h.Verify("", digest))
}

func TestBcryptHasher_DigestsAreSalted(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)
	assert.False(t, h.Verify("anything", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("anything", ""))
}

func TestBcryptHasher_CostBelowMinimumFallsBack(t *testing.T) {
	t.Parallel()

	// Costs below bcrypt's minimum use the default cost instead of failing.
	h := NewBcryptHasher(0)
	digest, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$10$"))
}

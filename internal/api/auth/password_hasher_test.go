package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Str0ngP@ss!")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ngP@ss!", hash)
	assert.NotContains(t, hash, "Str0ngP@ss!")

	assert.True(t, h.Verify("Str0ngP@ss!", hash))
	assert.False(t, h.Verify("str0ngP@ss!", hash))
	assert.False(t, h.Verify("Str0ngP@ss!", "not-a-bcrypt-hash"))

	again, err := h.Hash("Str0ngP@ss!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ per hash")
}

func TestBcryptHasher_LongPasswords(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	base := strings.Repeat("Aa1-", 25) // 100 bytes

	hash, err := h.Hash(base + "x")
	require.NoError(t, err)
	assert.True(t, h.Verify(base+"x", hash))
	assert.False(t, h.Verify(base+"y", hash), "bytes beyond 72 must still matter")
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashIsOneWayAndVerifies(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("pass123")
	require.NoError(t, err)
	assert.NotEqual(t, "pass123", hash)

	ok, err := h.Verify(hash, "pass123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("pass123")
	require.NoError(t, err)
	b, err := h.Hash("pass123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsCorruptHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Verify("not-a-hash", "pass123")
	assert.Error(t, err)
}

func TestLongSecrets(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 80)

	hash, err := h.Hash(long)
	require.NoError(t, err)

	ok, err := h.Verify(hash, long)
	require.NoError(t, err)
	assert.True(t, ok)

	// Differs only after byte 72
	ok, err = h.Verify(hash, strings.Repeat("a", 79)+"b")
	require.NoError(t, err)
	assert.False(t, ok)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("hunter2!")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "hunter2!", digest)

	assert.True(t, hasher.Verify("hunter2!", digest))
	assert.False(t, hasher.Verify("wrong-password", digest))
}

func TestBcryptHasher_HashRejectsEmptyPassword(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	_, err := hasher.Hash("")
	require.Error(t, err)
}

func TestBcryptHasher_VerifyEmptyDigest(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	assert.False(t, hasher.Verify("anything", ""))
}

func TestBcryptHasher_UniqueSalts(t *testing.T) {
	t.Parallel()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestNewBcryptHasher_CostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hasher := NewBcryptHasher(cost)
		assert.Equal(t, bcrypt.DefaultCost, hasher.cost, "cost %d", cost)
	}
}

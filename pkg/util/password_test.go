package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("tteokbokki")
	require.NoError(t, err)
	require.NotEqual(t, "tteokbokki", hash)

	assert.True(t, VerifyPassword(hash, "tteokbokki"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	hash1, err := HashPassword("same-password")
	require.NoError(t, err)
	hash2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

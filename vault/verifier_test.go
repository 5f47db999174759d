package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPassword(t *testing.T) {
	verifier, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct-horse", verifier))
	assert.False(t, VerifyPassword("wrong", verifier))
	assert.False(t, VerifyPassword("", verifier))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("correct-horse")
	require.NoError(t, err)
	b, err := HashPassword("correct-horse")
	require.NoError(t, err)

	// bcrypt salts internally, so two hashes of the same password differ.
	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("correct-horse", a))
	assert.True(t, VerifyPassword("correct-horse", b))
}

func TestVerifierIndependentOfEncryptionKey(t *testing.T) {
	verifier, err := HashPassword("correct-horse")
	require.NoError(t, err)

	// The stored verifier must never contain the derived encryption key.
	assert.NotContains(t, verifier, string(DeriveEncryptionKey("correct-horse")))
}

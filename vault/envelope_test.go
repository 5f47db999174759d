package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := DeriveEncryptionKey("correct-horse")
	iv, err := NewIV()
	require.NoError(t, err)

	plaintext := []byte(`{"kty":"EC","crv":"P-521"}`)
	sealed, err := Seal(key, iv, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := Open(key, iv, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestOpenWrongKeyFailsClosed(t *testing.T) {
	iv, err := NewIV()
	require.NoError(t, err)

	sealed, err := Seal(DeriveEncryptionKey("correct-horse"), iv, []byte("secret"))
	require.NoError(t, err)

	opened, err := Open(DeriveEncryptionKey("wrong"), iv, sealed)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, opened)
}

func TestOpenDetectsCiphertextTampering(t *testing.T) {
	key := DeriveEncryptionKey("correct-horse")
	iv, err := NewIV()
	require.NoError(t, err)

	sealed, err := Seal(key, iv, []byte("secret"))
	require.NoError(t, err)

	for i := range sealed {
		tampered := make([]byte, len(sealed))
		copy(tampered, sealed)
		tampered[i] ^= 0x01

		_, err := Open(key, iv, tampered)
		assert.ErrorIs(t, err, ErrAuthenticationFailed, "byte %d", i)
	}
}

func TestOpenDetectsIVTampering(t *testing.T) {
	key := DeriveEncryptionKey("correct-horse")
	iv, err := NewIV()
	require.NoError(t, err)

	sealed, err := Seal(key, iv, []byte("secret"))
	require.NoError(t, err)

	tampered := make([]byte, len(iv))
	copy(tampered, iv)
	tampered[0] ^= 0x01

	_, err = Open(key, tampered, sealed)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// A truncated IV must fail too, not panic.
	_, err = Open(key, iv[:8], sealed)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestNewIVIsFresh(t *testing.T) {
	a, err := NewIV()
	require.NoError(t, err)
	b, err := NewIV()
	require.NoError(t, err)

	assert.Len(t, a, IVSize)
	assert.NotEqual(t, a, b)
}

func TestDeriveEncryptionKeyDeterministic(t *testing.T) {
	assert.Equal(t, DeriveEncryptionKey("p"), DeriveEncryptionKey("p"))
	assert.NotEqual(t, DeriveEncryptionKey("p"), DeriveEncryptionKey("q"))
	assert.Len(t, DeriveEncryptionKey("p"), 32)
}

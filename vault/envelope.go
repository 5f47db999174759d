package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// IVSize is the AES-GCM nonce length in bytes (96 bits).
const IVSize = 12

// ErrAuthenticationFailed is returned by Open when the ciphertext or IV has
// been altered, or the key does not match. Open never returns corrupted
// plaintext.
var ErrAuthenticationFailed = errors.New("envelope authentication failed")

// NewIV generates a fresh random 96-bit nonce. Each record gets exactly one
// IV at creation time; it is never reused.
func NewIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return iv, nil
}

// Seal encrypts plaintext under key and iv using AES-256-GCM. The resulting
// ciphertext carries an authentication tag binding it to both inputs.
func Seal(key, iv, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, fmt.Errorf("invalid IV length %d, expected %d", len(iv), aead.NonceSize())
	}
	return aead.Seal(nil, iv, plaintext, nil), nil
}

// Open decrypts ciphertext sealed with Seal. It fails closed: any tampering
// with the ciphertext or IV, or a mismatched key, yields
// ErrAuthenticationFailed.
func Open(key, iv, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, ErrAuthenticationFailed
	}
	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

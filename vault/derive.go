package vault

import "crypto/sha256"

// DeriveEncryptionKey turns a password into the 32-byte AES key used for
// envelope encryption. The derivation is a plain SHA-256 digest: it must be
// deterministic so the same key is re-derivable at retrieval time without
// being persisted, and it is deliberately a different algorithm from the
// bcrypt verifier so the stored verifier never yields the encryption key.
func DeriveEncryptionKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

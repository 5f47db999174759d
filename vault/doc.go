// Package vault implements the envelope-encryption and key-lifecycle core
// of the service.
//
// A client supplies an identifier and a password. On first use the service
// generates an ES512 key pair, seals the private key under a key derived
// from the password, and persists the sealed record; on subsequent calls
// with the correct password it returns the previously generated private
// key. The public half is mirrored to a separately addressable distribution
// store.
//
// # Record lifecycle
//
// Per identifier the state machine is ABSENT -> PRESENT -> ABSENT:
//
//   - create: generate pair, seal private key under a fresh 96-bit IV,
//     store the record conditionally (PutIfAbsent), publish public
//     artifacts, return the private key.
//   - fetch: verify the password against the bcrypt verifier, re-derive
//     the encryption key, open the sealed private key.
//   - delete: verify the password, remove the record and its artifacts,
//     invalidate the cache entry. Deleting an absent record succeeds.
//
// Records are immutable: there is no password change or key rotation.
//
// # Cryptography
//
// The encryption key is the SHA-256 digest of the password; the stored
// verifier is an independent bcrypt hash, so verifier leakage does not
// yield the encryption key. Sealing uses AES-256-GCM with a per-record
// nonce stored in plaintext beside the ciphertext, which is safe under the
// authenticated-encryption contract because each nonce is used exactly
// once. Open fails closed on any tampering.
package vault

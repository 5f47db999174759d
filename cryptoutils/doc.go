// Package cryptoutils provides the asymmetric key-pair capability used by
// the vault: ES512 (ECDSA P-521) key generation and conversions between the
// in-memory key, its JSON Web Key interchange form, and PEM encodings
// (PKCS#8 for private keys, SPKI for public keys).
package cryptoutils

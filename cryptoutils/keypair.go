package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
)

// SigningAlgorithm is the JOSE algorithm tag for generated key pairs.
// ES512 means ECDSA over the P-521 curve with SHA-512.
const SigningAlgorithm = "ES512"

// GenerateSigningKeyPair creates a new ES512 (ECDSA P-521) key pair.
func GenerateSigningKeyPair() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key pair: %w", err)
	}
	return key, nil
}

// PrivateKeyJWK serializes a private key as a JSON Web Key document.
func PrivateKeyJWK(key *ecdsa.PrivateKey) ([]byte, error) {
	jwk := jose.JSONWebKey{Key: key, Algorithm: SigningAlgorithm, Use: "sig"}
	data, err := jwk.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private JWK: %w", err)
	}
	return data, nil
}

// PublicKeyJWK serializes a public key as a JSON Web Key document.
func PublicKeyJWK(key *ecdsa.PublicKey) ([]byte, error) {
	jwk := jose.JSONWebKey{Key: key, Algorithm: SigningAlgorithm, Use: "sig"}
	data, err := jwk.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public JWK: %w", err)
	}
	return data, nil
}

// PrivateKeyFromJWK parses a JSON Web Key document back into a private key.
// Returns an error if the document is not a valid ECDSA private JWK.
func PrivateKeyFromJWK(data []byte) (*ecdsa.PrivateKey, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to parse JWK: %w", err)
	}

	key, ok := jwk.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("JWK does not contain an ECDSA private key")
	}
	return key, nil
}

// PrivateKeyPEM serializes a private key as a PKCS#8 PEM block.
func PrivateKeyPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKCS#8 private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// PublicKeyPEM serializes a public key as an SPKI PEM block.
func PublicKeyPEM(key *ecdsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SPKI public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

package cryptoutils

import (
	"crypto/elliptic"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSigningKeyPair(t *testing.T) {
	key, err := GenerateSigningKeyPair()
	require.NoError(t, err)
	assert.Equal(t, elliptic.P521(), key.Curve)
}

func TestPrivateKeyJWKRoundTrip(t *testing.T) {
	key, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	jwkData, err := PrivateKeyJWK(key)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(jwkData, &fields))
	assert.Equal(t, "EC", fields["kty"])
	assert.Equal(t, "P-521", fields["crv"])
	assert.Equal(t, SigningAlgorithm, fields["alg"])
	assert.Contains(t, fields, "d")

	parsed, err := PrivateKeyFromJWK(jwkData)
	require.NoError(t, err)
	assert.Equal(t, 0, key.D.Cmp(parsed.D))
	assert.Equal(t, 0, key.X.Cmp(parsed.X))
}

func TestPublicKeyJWKOmitsPrivateMaterial(t *testing.T) {
	key, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	jwkData, err := PublicKeyJWK(&key.PublicKey)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(jwkData, &fields))
	assert.NotContains(t, fields, "d")
}

func TestPrivateKeyFromJWKRejectsPublicKey(t *testing.T) {
	key, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	jwkData, err := PublicKeyJWK(&key.PublicKey)
	require.NoError(t, err)

	_, err = PrivateKeyFromJWK(jwkData)
	assert.Error(t, err)
}

func TestPEMEncodings(t *testing.T) {
	key, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	privPEM, err := PrivateKeyPEM(key)
	require.NoError(t, err)
	block, _ := pem.Decode(privPEM)
	require.NotNil(t, block)
	assert.Equal(t, "PRIVATE KEY", block.Type)

	pubPEM, err := PublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	block, _ = pem.Decode(pubPEM)
	require.NotNil(t, block)
	assert.Equal(t, "PUBLIC KEY", block.Type)
}

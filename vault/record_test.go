package vault

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	iv, err := NewIV()
	require.NoError(t, err)

	rec := NewRecord("$2a$10$verifier", iv, []byte("ciphertext"))
	raw, err := rec.Encode()
	require.NoError(t, err)

	// Wire format is fixed for compatibility with existing records.
	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "iv")
	assert.Contains(t, fields, "private_jwk")

	decoded, err := DecodeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, rec.PasswordVerifier, decoded.PasswordVerifier)

	gotIV, err := decoded.IVBytes()
	require.NoError(t, err)
	assert.Equal(t, iv, gotIV)

	sealed, err := decoded.SealedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), sealed)
}

func TestDecodeRecordRejectsMalformed(t *testing.T) {
	iv, err := NewIV()
	require.NoError(t, err)
	valid, err := NewRecord("verifier", iv, []byte("ciphertext")).Encode()
	require.NoError(t, err)

	cases := map[string][]byte{
		"not json":         []byte("not json"),
		"empty object":     []byte(`{}`),
		"missing verifier": []byte(`{"iv":"AAAAAAAAAAAAAAAA","private_jwk":"AAAA"}`),
		"missing iv":       []byte(`{"password":"v","private_jwk":"AAAA"}`),
		"missing sealed":   []byte(`{"password":"v","iv":"AAAAAAAAAAAAAAAA"}`),
		"bad iv base64":    []byte(`{"password":"v","iv":"!!!","private_jwk":"AAAA"}`),
		"short iv":         []byte(`{"password":"v","iv":"AAAA","private_jwk":"AAAA"}`),
		"bad sealed":       []byte(`{"password":"v","iv":"AAAAAAAAAAAAAAAA","private_jwk":"!!!"}`),
	}

	for name, raw := range cases {
		_, err := DecodeRecord(raw)
		assert.Error(t, err, name)
	}

	_, err = DecodeRecord(valid)
	assert.NoError(t, err)
}

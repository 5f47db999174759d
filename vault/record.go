package vault

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Record is the persisted form of one identifier's sealed key pair. It is
// immutable once created; the only mutations are whole-record creation and
// whole-record deletion.
//
// The wire format matches records written by earlier revisions of the
// service: {"password": <bcrypt verifier>, "iv": <base64>,
// "private_jwk": <base64 ciphertext>}.
type Record struct {
	PasswordVerifier string `json:"password"`
	IV               string `json:"iv"`
	SealedPrivateKey string `json:"private_jwk"`
}

// NewRecord assembles a record from freshly generated material.
func NewRecord(verifier string, iv, sealed []byte) *Record {
	return &Record{
		PasswordVerifier: verifier,
		IV:               base64.StdEncoding.EncodeToString(iv),
		SealedPrivateKey: base64.StdEncoding.EncodeToString(sealed),
	}
}

// Encode serializes the record for storage.
func (r *Record) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a stored record and validates its schema. All three
// fields are required and the binary fields must decode to sane lengths;
// anything else is a malformed record and surfaces as an error rather than
// propagating garbage into the crypto layer.
func DecodeRecord(raw []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("malformed record: %w", err)
	}
	if rec.PasswordVerifier == "" {
		return nil, fmt.Errorf("malformed record: missing password verifier")
	}
	if rec.IV == "" {
		return nil, fmt.Errorf("malformed record: missing iv")
	}
	if rec.SealedPrivateKey == "" {
		return nil, fmt.Errorf("malformed record: missing sealed private key")
	}

	iv, err := rec.IVBytes()
	if err != nil {
		return nil, err
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("malformed record: iv is %d bytes, expected %d", len(iv), IVSize)
	}
	if _, err := rec.SealedBytes(); err != nil {
		return nil, err
	}

	return &rec, nil
}

// IVBytes decodes the record's nonce.
func (r *Record) IVBytes() ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(r.IV)
	if err != nil {
		return nil, fmt.Errorf("malformed record: invalid iv encoding: %w", err)
	}
	return iv, nil
}

// SealedBytes decodes the record's ciphertext.
func (r *Record) SealedBytes() ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(r.SealedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("malformed record: invalid ciphertext encoding: %w", err)
	}
	return sealed, nil
}

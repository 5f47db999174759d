package vault

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// verifierCost is the bcrypt work factor for stored password verifiers.
const verifierCost = 10

// HashPassword computes the slow, salted verifier stored with a record.
// The verifier gates access only; it is never used for key derivation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), verifierCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a candidate password against a stored verifier.
func VerifyPassword(password, verifier string) bool {
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(password)) == nil
}

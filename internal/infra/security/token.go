package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var errTokenLength = errors.New("token length must be positive")

// GenerateSecureToken draws byteLength random bytes and encodes them
// URL-safe, suitable for reset and invitation links.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", errTokenLength
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 digest of value. One-time tokens are
// stored hashed so the database never holds redeemable link values.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

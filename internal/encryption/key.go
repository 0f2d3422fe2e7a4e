package encryption

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyHexLength is the length of an AES-256 key in hex form.
const KeyHexLength = 64

// ValidateKey checks that hexKey is exactly 64 hex characters. It must run
// before any cipher is built from the key.
func ValidateKey(hexKey string) error {
	if hexKey == "" {
		return &KeyError{Kind: KeyMissing}
	}
	if len(hexKey) != KeyHexLength {
		return &KeyError{Kind: KeyInvalidLength}
	}
	for i := 0; i < len(hexKey); i++ {
		if !isHexDigit(hexKey[i]) {
			return &KeyError{Kind: KeyInvalidFormat}
		}
	}
	return nil
}

// ParseKey validates hexKey and decodes it to 32 raw bytes.
func ParseKey(hexKey string) ([]byte, error) {
	if err := ValidateKey(hexKey); err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, &KeyError{Kind: KeyInvalidFormat}
	}
	return key, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// GenerateKey returns a new random key in the 64 hex character form.
func GenerateKey() (string, error) {
	b := make([]byte, KeyHexLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

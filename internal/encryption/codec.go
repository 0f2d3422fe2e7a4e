// Package encryption implements field-level AES-256-GCM encryption for
// sensitive columns.
//
// Every protected value is stored as a self-describing token:
//
//	"enc:" + base64(IV[12] || AuthTag[16] || Ciphertext[N])
//
// The layout is bit-compatible with data written by earlier versions of the
// application, so tokens can be migrated between implementations.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
)

const (
	// TokenPrefix marks a value as an encrypted token.
	TokenPrefix = "enc:"

	ivLength      = 12
	authTagLength = 16
	minRawLength  = ivLength + authTagLength
)

// Codec seals and opens single string values with one AES-256-GCM key.
// A Codec is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewCodec builds a codec from a raw 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, &KeyError{Kind: KeyMissing}
	}
	if len(key) != KeyHexLength/2 {
		return nil, &KeyError{Kind: KeyInvalidLength}
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newEncryptionError()
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, newEncryptionError()
	}
	return &Codec{aead: aead, rand: rand.Reader}, nil
}

// NewCodecFromHex validates a hex key and builds a codec from it.
func NewCodecFromHex(hexKey string) (*Codec, error) {
	key, err := ParseKey(hexKey)
	if err != nil {
		return nil, err
	}
	return NewCodec(key)
}

// Encrypt seals plaintext under a fresh random IV and returns the token.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", newEncryptionError()
	}

	// Seal appends the tag after the ciphertext; the wire format wants it after the IV.
	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-authTagLength]
	tag := sealed[len(sealed)-authTagLength:]

	raw := make([]byte, 0, minRawLength+len(ciphertext))
	raw = append(raw, iv...)
	raw = append(raw, tag...)
	raw = append(raw, ciphertext...)

	return TokenPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt opens a token produced by Encrypt. Malformed tokens fail with
// ErrFormatInvalid; tampered tokens or a wrong key fail with ErrAuthTagMismatch.
func (c *Codec) Decrypt(token string) (string, error) {
	raw, ok := decodeToken(token)
	if !ok {
		return "", newDecryptionError(FormatInvalid)
	}

	iv := raw[:ivLength]
	tag := raw[ivLength:minRawLength]
	ciphertext := raw[minRawLength:]

	sealed := make([]byte, 0, len(ciphertext)+authTagLength)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", newDecryptionError(AuthTagMismatch)
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether value looks like a token: it carries the
// prefix and its payload decodes to at least IV+tag bytes.
func IsEncrypted(value string) bool {
	_, ok := decodeToken(value)
	return ok
}

func decodeToken(token string) ([]byte, bool) {
	if !strings.HasPrefix(token, TokenPrefix) {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(token[len(TokenPrefix):])
	if err != nil || len(raw) < minRawLength {
		return nil, false
	}
	return raw, true
}

package encryption

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// KeyErrorKind classifies why a key was rejected.
type KeyErrorKind string

const (
	KeyMissing       KeyErrorKind = "MISSING"
	KeyInvalidLength KeyErrorKind = "INVALID_LENGTH"
	KeyInvalidFormat KeyErrorKind = "INVALID_FORMAT"
)

// DecryptionErrorKind classifies why a token could not be decrypted.
type DecryptionErrorKind string

const (
	FormatInvalid   DecryptionErrorKind = "FORMAT_INVALID"
	AuthTagMismatch DecryptionErrorKind = "AUTH_TAG_MISMATCH"
)

var (
	ErrKeyMissing       = errors.New("encryption key is missing")
	ErrKeyInvalidLength = errors.New("encryption key must be 64 hex characters")
	ErrKeyInvalidFormat = errors.New("encryption key must contain only hex characters")
	ErrEncryptionFailed = errors.New("encryption failed")
	ErrFormatInvalid    = errors.New("invalid ciphertext format")
	ErrAuthTagMismatch  = errors.New("authentication tag mismatch")
)

// KeyError is returned by the key validator. It never contains key material.
type KeyError struct {
	Kind KeyErrorKind
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid encryption key (%s): %s", e.Kind, e.sentinel().Error())
}

func (e *KeyError) sentinel() error {
	switch e.Kind {
	case KeyMissing:
		return ErrKeyMissing
	case KeyInvalidLength:
		return ErrKeyInvalidLength
	default:
		return ErrKeyInvalidFormat
	}
}

func (e *KeyError) Is(target error) bool {
	return target == e.sentinel()
}

// EncryptionError is an opaque encryption failure. The plaintext is never attached.
type EncryptionError struct {
	CorrelationID string
	Field         string
}

func (e *EncryptionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("encryption failed for field %s (correlation_id=%s)", e.Field, e.CorrelationID)
	}
	return fmt.Sprintf("encryption failed (correlation_id=%s)", e.CorrelationID)
}

func (e *EncryptionError) Is(target error) bool {
	return target == ErrEncryptionFailed
}

// DecryptionError reports a malformed or unauthenticated token. Neither the
// token nor any recovered bytes are attached.
type DecryptionError struct {
	Kind          DecryptionErrorKind
	CorrelationID string
	Field         string
}

func (e *DecryptionError) Error() string {
	msg := "decryption failed: " + e.sentinel().Error()
	if e.Field != "" {
		msg += " for field " + e.Field
	}
	return fmt.Sprintf("%s (correlation_id=%s)", msg, e.CorrelationID)
}

func (e *DecryptionError) sentinel() error {
	if e.Kind == AuthTagMismatch {
		return ErrAuthTagMismatch
	}
	return ErrFormatInvalid
}

func (e *DecryptionError) Is(target error) bool {
	return target == e.sentinel()
}

func newDecryptionError(kind DecryptionErrorKind) *DecryptionError {
	return &DecryptionError{Kind: kind, CorrelationID: uuid.NewString()}
}

func newEncryptionError() *EncryptionError {
	return &EncryptionError{CorrelationID: uuid.NewString()}
}

// CorrelationID extracts the correlation id of a crypto fault, or "" if err is not one.
func CorrelationID(err error) string {
	var decErr *DecryptionError
	if errors.As(err, &decErr) {
		return decErr.CorrelationID
	}
	var encErr *EncryptionError
	if errors.As(err, &encErr) {
		return encErr.CorrelationID
	}
	return ""
}

// Category returns the coarse fault category that is safe to put in audit records.
func Category(err error) string {
	var keyErr *KeyError
	var decErr *DecryptionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &keyErr):
		return "KEY_" + string(keyErr.Kind)
	case errors.As(err, &decErr):
		return string(decErr.Kind)
	case errors.Is(err, ErrEncryptionFailed):
		return "ENCRYPTION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// withField returns a copy of a crypto fault annotated with the field name.
func withField(err error, field string) error {
	if field == "" {
		return err
	}
	var decErr *DecryptionError
	if errors.As(err, &decErr) {
		annotated := *decErr
		annotated.Field = field
		return &annotated
	}
	var encErr *EncryptionError
	if errors.As(err, &encErr) {
		annotated := *encErr
		annotated.Field = field
		return &annotated
	}
	return err
}

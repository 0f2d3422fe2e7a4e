package encryption

import (
	"context"
	"time"

	"github.com/SscSPs/accounting_core/internal/platform/metrics"
)

// FieldContext names the model and field a value belongs to. It only feeds
// audit events and fault annotations.
type FieldContext struct {
	Model string
	Field string
}

// Service encrypts and decrypts field values with a single validated key.
// The key is fixed at construction; rotation always goes through transient
// services so in-flight calls on this instance are unaffected.
type Service struct {
	codec *Codec
	audit AuditLogger
	now   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAuditLogger sets the audit side channel.
func WithAuditLogger(audit AuditLogger) ServiceOption {
	return func(s *Service) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// NewService validates hexKey and returns a service bound to it.
func NewService(hexKey string, opts ...ServiceOption) (*Service, error) {
	codec, err := NewCodecFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	s := &Service{
		codec: codec,
		audit: noopAuditLogger{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Encrypt seals plaintext and emits an audit event.
func (s *Service) Encrypt(ctx context.Context, plaintext string, fc FieldContext) (string, error) {
	token, err := s.codec.Encrypt(plaintext)
	err = withField(err, fc.Field)
	s.record(ctx, OpEncrypt, fc, err)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Decrypt opens token and emits an audit event. Failures carry a correlation
// id that also appears in the audit record.
func (s *Service) Decrypt(ctx context.Context, token string, fc FieldContext) (string, error) {
	plaintext, err := s.codec.Decrypt(token)
	err = withField(err, fc.Field)
	s.record(ctx, OpDecrypt, fc, err)
	if err != nil {
		return "", err
	}
	return plaintext, nil
}

// IsEncrypted reports whether value is already a token.
func (s *Service) IsEncrypted(value string) bool {
	return IsEncrypted(value)
}

// EncryptIfNeeded encrypts value unless it is already a token, so repeated
// write passes never double-encrypt.
func (s *Service) EncryptIfNeeded(ctx context.Context, value string, fc FieldContext) (string, error) {
	if IsEncrypted(value) {
		return value, nil
	}
	return s.Encrypt(ctx, value, fc)
}

// RotateKey re-wraps token from oldKey to newKey. The receiver's own key is
// not involved.
func (s *Service) RotateKey(ctx context.Context, oldKey, newKey, token string, fc FieldContext) (string, error) {
	rotated, err := RotateToken(oldKey, newKey, token)
	err = withField(err, fc.Field)
	s.record(ctx, OpRotate, fc, err)
	if err != nil {
		return "", err
	}
	return rotated, nil
}

// RotateToken validates both keys, decrypts token with a codec bound to
// oldKey and re-encrypts the plaintext under newKey with a fresh IV.
func RotateToken(oldKey, newKey, token string) (string, error) {
	oldCodec, err := NewCodecFromHex(oldKey)
	if err != nil {
		return "", err
	}
	newCodec, err := NewCodecFromHex(newKey)
	if err != nil {
		return "", err
	}
	return rotateWith(oldCodec, newCodec, token)
}

func rotateWith(oldCodec, newCodec *Codec, token string) (string, error) {
	plaintext, err := oldCodec.Decrypt(token)
	if err != nil {
		return "", err
	}
	return newCodec.Encrypt(plaintext)
}

func (s *Service) record(ctx context.Context, op string, fc FieldContext, err error) {
	metrics.ObserveCryptoOperation(op, err)
	s.audit.LogEvent(ctx, AuditEvent{
		Operation:     op,
		Model:         fc.Model,
		Field:         fc.Field,
		Success:       err == nil,
		Category:      Category(err),
		CorrelationID: CorrelationID(err),
		Timestamp:     s.now().UTC(),
	})
}

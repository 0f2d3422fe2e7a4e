package encryption

import (
	"context"
	"log/slog"
	"time"
)

// Audit operations.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
	OpRotate  = "rotate"
)

// AuditEvent describes one crypto operation. It must never carry plaintext,
// ciphertext or key material.
type AuditEvent struct {
	Operation     string
	Model         string
	Field         string
	Success       bool
	Category      string
	CorrelationID string
	Timestamp     time.Time
}

// AuditLogger is the side channel that receives crypto audit events.
type AuditLogger interface {
	LogEvent(ctx context.Context, event AuditEvent)
}

// SlogAuditLogger writes audit events as structured log records.
type SlogAuditLogger struct {
	logger *slog.Logger
}

// NewSlogAuditLogger returns an AuditLogger backed by logger (slog.Default() if nil).
func NewSlogAuditLogger(logger *slog.Logger) *SlogAuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditLogger{logger: logger}
}

func (l *SlogAuditLogger) LogEvent(ctx context.Context, event AuditEvent) {
	attrs := []any{
		slog.String("operation", event.Operation),
		slog.Bool("success", event.Success),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.Model != "" {
		attrs = append(attrs, slog.String("model", event.Model))
	}
	if event.Field != "" {
		attrs = append(attrs, slog.String("field", event.Field))
	}
	if !event.Success {
		attrs = append(attrs,
			slog.String("category", event.Category),
			slog.String("correlation_id", event.CorrelationID),
		)
		l.logger.WarnContext(ctx, "Crypto operation failed", slog.Group("crypto_audit", attrs...))
		return
	}
	l.logger.DebugContext(ctx, "Crypto operation", slog.Group("crypto_audit", attrs...))
}

type noopAuditLogger struct{}

func (noopAuditLogger) LogEvent(context.Context, AuditEvent) {}

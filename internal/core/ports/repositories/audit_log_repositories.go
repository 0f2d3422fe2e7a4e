package repositories

import (
	"context"

	"github.com/SscSPs/accounting_core/internal/core/domain"
)

// AuditLogWriter appends audit records.
type AuditLogWriter interface {
	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error
}

// AuditLogReader reads the audit trail of one entity, newest first.
type AuditLogReader interface {
	FindAuditLogsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error)
}

// AuditLogRepositoryFacade combines audit log reads and writes.
type AuditLogRepositoryFacade interface {
	AuditLogWriter
	AuditLogReader
}

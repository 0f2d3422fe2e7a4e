package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

// insertAuditLog is shared with the journal repository so audit rows can be
// written on the same transaction as the change they describe.
func insertAuditLog(ctx context.Context, db DBTX, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, action, entity_type, entity_id, user_id, success, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := db.Exec(ctx, query,
		entry.AuditID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		entry.UserID,
		entry.Success,
		entry.Details, // jsonb, encoded by pgx
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit log for %s: %w", entry.EntityType, err)
	}
	return nil
}

func (r *PgxAuditLogRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return insertAuditLog(ctx, r.Pool, entry)
}

func (r *PgxAuditLogRepository) FindAuditLogsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT audit_id, action, entity_type, entity_id, user_id, success, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;`
	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs of %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var l domain.AuditLog
		var action string
		if err := rows.Scan(&l.AuditID, &action, &l.EntityType, &l.EntityID, &l.UserID, &l.Success, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		l.Action = domain.AuditAction(action)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return logs, nil
}

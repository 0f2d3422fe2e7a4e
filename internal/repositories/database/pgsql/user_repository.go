package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/SscSPs/accounting_core/internal/encryption"
	"github.com/SscSPs/accounting_core/internal/models"
	"github.com/SscSPs/accounting_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userSelect = `
	SELECT user_id, name, email, phone, address, notes,
	       created_at, created_by, last_updated_at, last_updated_by, deleted_at
	FROM users`

// PgxUserRepository persists users. The protected columns are encrypted by
// the interceptor before every write and decrypted after every read.
type PgxUserRepository struct {
	db          *pgxpool.Pool
	interceptor *encryption.FieldInterceptor
}

func newPgxUserRepository(db *pgxpool.Pool, interceptor *encryption.FieldInterceptor) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db, interceptor: interceptor}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// ProtectedFieldConfig is the interceptor configuration for the tables this
// package encrypts.
func ProtectedFieldConfig() encryption.FieldConfig {
	return encryption.FieldConfig{mapping.UserModel: mapping.UserProtectedFields}
}

func (r *PgxUserRepository) encrypt(ctx context.Context, user domain.User) (models.User, error) {
	m := mapping.ToModelUser(user)
	values := mapping.UserProtectedValues(m)
	if err := r.interceptor.BeforeWrite(ctx, mapping.UserModel, values); err != nil {
		return models.User{}, fmt.Errorf("failed to encrypt user %s: %w", user.UserID, err)
	}
	mapping.ApplyUserProtectedValues(&m, values)
	return m, nil
}

func (r *PgxUserRepository) decrypt(ctx context.Context, m models.User) (domain.User, error) {
	values := mapping.UserProtectedValues(m)
	if err := r.interceptor.AfterRead(ctx, mapping.UserModel, values); err != nil {
		return domain.User{}, fmt.Errorf("failed to decrypt user %s: %w", m.UserID, err)
	}
	mapping.ApplyUserProtectedValues(&m, values)
	return mapping.ToDomainUser(m), nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m, err := r.encrypt(ctx, user)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (user_id, name, email, phone, address, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err = r.db.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.Phone,
		m.Address,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, m.UserID)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	m, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE user_id = $1 AND deleted_at IS NULL;`, userID))
	if err != nil {
		return nil, notFoundOr(err, "find user by ID %s", userID)
	}
	user, err := r.decrypt(ctx, m)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, userSelect+`
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		user, err := r.decrypt(ctx, m)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m, err := r.encrypt(ctx, user)
	if err != nil {
		return err
	}
	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, address = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE user_id = $1 AND deleted_at IS NULL;`
	tag, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.Phone,
		m.Address,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, m.UserID)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE users
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;`
	tag, err := r.db.Exec(ctx, query, userID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark user %s as deleted: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return nil
}

// ListProtectedRecords pages through every user, deleted ones included, in
// user_id order. Values are returned exactly as stored.
func (r *PgxUserRepository) ListProtectedRecords(ctx context.Context, limit int, afterID string) ([]encryption.Record, error) {
	rows, err := r.db.Query(ctx, userSelect+`
		WHERE user_id > $1
		ORDER BY user_id
		LIMIT $2;`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query protected user fields: %w", err)
	}
	defer rows.Close()

	records := []encryption.Record{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		records = append(records, encryption.Record{ID: m.UserID, Fields: mapping.UserProtectedValues(m)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return records, nil
}

// SaveProtectedRecord overwrites the protected columns of one user with the
// values of record, which must already be encrypted.
func (r *PgxUserRepository) SaveProtectedRecord(ctx context.Context, record encryption.Record) error {
	var m models.User
	mapping.ApplyUserProtectedValues(&m, record.Fields)
	query := `UPDATE users SET email = $2, phone = $3, address = $4, notes = $5 WHERE user_id = $1;`
	tag, err := r.db.Exec(ctx, query, record.ID, m.Email, m.Phone, m.Address, m.Notes)
	if err != nil {
		return fmt.Errorf("failed to save protected fields of user %s: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, record.ID)
	}
	return nil
}

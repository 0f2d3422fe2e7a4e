package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/SscSPs/accounting_core/internal/encryption"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// ProtectedFieldStore exposes the raw, still encrypted, protected columns of
// a table. It is only used by key rotation and never decrypts.
type ProtectedFieldStore interface {
	ListProtectedRecords(ctx context.Context, limit int, afterID string) ([]encryption.Record, error)
	SaveProtectedRecord(ctx context.Context, record encryption.Record) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
	ProtectedFieldStore
}

package pgsql

import (
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/SscSPs/accounting_core/internal/encryption"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx repository. interceptor protects the
// encrypted columns of the users table.
func NewRepositoryProvider(dbPool *pgxpool.Pool, interceptor *encryption.FieldInterceptor) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool, interceptor),
		JournalRepo:  newPgxJournalRepository(dbPool),
		AuditLogRepo: newPgxAuditLogRepository(dbPool),
	}
}

// NewUserFieldStore returns the raw protected-field view of the users table
// used by offline key rotation. It never decrypts, so no interceptor is needed.
func NewUserFieldStore(dbPool *pgxpool.Pool) portsrepo.ProtectedFieldStore {
	return &PgxUserRepository{db: dbPool}
}

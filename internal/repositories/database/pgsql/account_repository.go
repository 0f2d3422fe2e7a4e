package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/SscSPs/accounting_core/internal/models"
	"github.com/SscSPs/accounting_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountSelect = `
	SELECT account_id, code, name, account_type, currency_code, is_active,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM accounts`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountReader {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	m, err := scanAccount(r.pool.QueryRow(ctx, accountSelect+` WHERE account_id = $1;`, accountID))
	if err != nil {
		return nil, notFoundOr(err, "find account %s", accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves all accounts whose id is in accountIDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	rows, err := r.pool.Query(ctx, accountSelect+` WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

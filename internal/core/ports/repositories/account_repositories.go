package repositories

import (
	"context"

	"github.com/SscSPs/accounting_core/internal/core/domain"
)

// AccountReader resolves account ids for the journal engine.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Unknown ids are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

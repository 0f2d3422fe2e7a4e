package repositories

import "context"

// TransactionManager runs fn inside one database transaction. R is the
// repository view bound to that transaction. The transaction commits when fn
// returns nil and rolls back otherwise, including on panic.
type TransactionManager[R any] interface {
	WithTx(ctx context.Context, fn func(txRepo R) error) error
}

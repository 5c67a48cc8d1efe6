package repositories

import "context"

// TxFn runs within a transaction carried by the context.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside one database transaction.
// Repositories called with the resulting context join it automatically.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool txBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool txBeginner) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con un repositorio de usuarios atado a la tx
// y hace Commit o Rollback. Si fn falla no queda ninguna fila escrita.
func (r *TxRunner) Run(ctx context.Context, fn func(users *UserRepo) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence(err, "commit transaction")
	}
	return nil
}

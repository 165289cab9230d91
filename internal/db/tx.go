package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Timeout limita cada ida ao banco. Consultas do painel e escritas simples
// cabem com folga; estourar indica problema de infraestrutura, não de carga.
const Timeout = 3 * time.Second

// Ctx deriva um contexto com o timeout padrão de banco.
func Ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, Timeout)
}

// WithTx executa fn dentro de uma transação sob o timeout padrão.
// Qualquer erro de fn desfaz tudo; rollback após commit é inócuo.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(txCtx context.Context, tx pgx.Tx) error) error {
	txCtx, cancel := Ctx(ctx)
	defer cancel()

	tx, err := pool.BeginTx(txCtx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

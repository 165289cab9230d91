package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// Chaves conhecidas da tabela de configurações.
const (
	ChaveMetaAnual = "annual_goal"
)

// Repository guarda pares chave/valor de configuração da pastoral.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Get devolve o valor salvo para a chave.
func (r *Repository) Get(ctx context.Context, chave string) (string, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var valor string
	err := r.db.QueryRow(ctx, `
		SELECT valor FROM configuracoes WHERE chave = $1
	`, chave).Scan(&valor)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repo.ErrNotFound
	}
	return valor, err
}

// Set grava o valor da chave, criando ou substituindo.
func (r *Repository) Set(ctx context.Context, chave, valor string) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO configuracoes (chave, valor, atualizado_em)
		VALUES ($1, $2, now())
		ON CONFLICT (chave) DO UPDATE SET valor = EXCLUDED.valor, atualizado_em = now()
	`, chave, valor)
	return err
}

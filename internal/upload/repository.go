package upload

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
)

// Registro descreve um arquivo aceito e já gravado no armazenamento.
type Registro struct {
	Chave        string
	URL          string
	NomeOriginal string
	ContentType  string
	Tamanho      int64
	AutorID      *string
}

// Repository guarda os metadados dos arquivos enviados.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Registrar grava os metadados de um arquivo enviado.
func (r *Repository) Registrar(ctx context.Context, reg Registro) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO uploads (chave, url, nome_original, content_type, tamanho, autor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reg.Chave, reg.URL, reg.NomeOriginal, reg.ContentType, reg.Tamanho, reg.AutorID)
	return err
}

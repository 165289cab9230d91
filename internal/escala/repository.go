package escala

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// Repository fornece acesso às escalas de batismo.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) Get(ctx context.Context, id int64) (Escala, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var e Escala
	err := r.db.QueryRow(ctx, `
		SELECT id, batismo_id, usuario_id, funcao, status, criado_em
		FROM escalas
		WHERE id = $1
	`, id).Scan(&e.ID, &e.BatismoID, &e.UsuarioID, &e.Funcao, &e.Status, &e.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Escala{}, repo.ErrNotFound
	}
	return e, err
}

// Criar insere o vínculo em estado pendente. O par (batismo, usuário) é único
// no banco; batismo ou usuário inexistentes não geram linha órfã.
func (r *Repository) Criar(ctx context.Context, batismoID int64, usuarioID, funcao string) (Escala, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var e Escala
	err := r.db.QueryRow(ctx, `
		INSERT INTO escalas (batismo_id, usuario_id, funcao, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, batismo_id, usuario_id, funcao, status, criado_em
	`, batismoID, usuarioID, funcao, StatusPendente).
		Scan(&e.ID, &e.BatismoID, &e.UsuarioID, &e.Funcao, &e.Status, &e.CriadoEm)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Escala{}, ErrJaEscalado
		}
		if db.IsForeignKeyViolation(err) {
			return Escala{}, repo.ErrNotFound
		}
		return Escala{}, err
	}
	return e, nil
}

func (r *Repository) Excluir(ctx context.Context, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM escalas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repository) AtualizarStatus(ctx context.Context, id int64, status string) (Escala, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var e Escala
	err := r.db.QueryRow(ctx, `
		UPDATE escalas SET status = $1
		WHERE id = $2
		RETURNING id, batismo_id, usuario_id, funcao, status, criado_em
	`, status, id).Scan(&e.ID, &e.BatismoID, &e.UsuarioID, &e.Funcao, &e.Status, &e.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Escala{}, repo.ErrNotFound
	}
	return e, err
}

func (r *Repository) ListPorBatismo(ctx context.Context, batismoID int64) ([]Detalhe, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.batismo_id, e.usuario_id, e.funcao, e.status, e.criado_em, u.nome, u.papel
		FROM escalas e
		JOIN usuarios u ON u.id = e.usuario_id
		WHERE e.batismo_id = $1
		ORDER BY e.funcao, u.nome
	`, batismoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detalhes []Detalhe
	for rows.Next() {
		var d Detalhe
		if err := rows.Scan(&d.ID, &d.BatismoID, &d.UsuarioID, &d.Funcao, &d.Status,
			&d.CriadoEm, &d.UsuarioNome, &d.UsuarioPapel); err != nil {
			return nil, err
		}
		detalhes = append(detalhes, d)
	}
	return detalhes, rows.Err()
}

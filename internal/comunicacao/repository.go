package comunicacao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// Estados de uma solicitação interna.
const (
	SolicitacaoPendente  = "pendente"
	SolicitacaoAtendida  = "atendida"
	SolicitacaoArquivada = "arquivada"
)

// ErrStatusInvalido sinaliza status de solicitação fora do enum.
var ErrStatusInvalido = errors.New("status de solicitação inválido")

// StatusSolicitacaoValido confere o texto contra os estados aceitos.
func StatusSolicitacaoValido(status string) bool {
	switch status {
	case SolicitacaoPendente, SolicitacaoAtendida, SolicitacaoArquivada:
		return true
	}
	return false
}

// Comunicado é um aviso da coordenação para a pastoral.
type Comunicado struct {
	ID       int64     `json:"id"`
	Titulo   string    `json:"titulo"`
	Mensagem string    `json:"mensagem"`
	AutorID  *string   `json:"autor_id,omitempty"`
	CriadoEm time.Time `json:"criado_em"`
}

// Solicitacao é um pedido interno de um membro para a coordenação.
type Solicitacao struct {
	ID        int64     `json:"id"`
	Assunto   string    `json:"assunto"`
	Descricao string    `json:"descricao"`
	AutorID   *string   `json:"autor_id,omitempty"`
	AutorNome *string   `json:"autor_nome,omitempty"`
	Status    string    `json:"status"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Repository fornece acesso a comunicados e solicitações.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) ListComunicados(ctx context.Context) ([]Comunicado, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, mensagem, autor_id, criado_em
		FROM comunicados
		ORDER BY criado_em DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comunicados []Comunicado
	for rows.Next() {
		var c Comunicado
		if err := rows.Scan(&c.ID, &c.Titulo, &c.Mensagem, &c.AutorID, &c.CriadoEm); err != nil {
			return nil, err
		}
		comunicados = append(comunicados, c)
	}
	return comunicados, rows.Err()
}

func (r *Repository) CriarComunicado(ctx context.Context, titulo, mensagem string, autorID *string) (Comunicado, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var c Comunicado
	err := r.db.QueryRow(ctx, `
		INSERT INTO comunicados (titulo, mensagem, autor_id)
		VALUES ($1, $2, $3)
		RETURNING id, titulo, mensagem, autor_id, criado_em
	`, titulo, mensagem, autorID).
		Scan(&c.ID, &c.Titulo, &c.Mensagem, &c.AutorID, &c.CriadoEm)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Comunicado{}, repo.ErrNotFound
		}
		return Comunicado{}, err
	}
	return c, nil
}

func (r *Repository) AtualizarComunicado(ctx context.Context, id int64, titulo, mensagem *string) (Comunicado, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	setParts := make([]string, 0, 2)
	args := make([]any, 0, 3)
	idx := 1

	if titulo != nil {
		setParts = append(setParts, fmt.Sprintf("titulo = $%d", idx))
		args = append(args, strings.TrimSpace(*titulo))
		idx++
	}
	if mensagem != nil {
		setParts = append(setParts, fmt.Sprintf("mensagem = $%d", idx))
		args = append(args, *mensagem)
		idx++
	}

	if len(setParts) == 0 {
		return r.getComunicado(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE comunicados SET %s
		WHERE id = $%d
		RETURNING id, titulo, mensagem, autor_id, criado_em
	`, strings.Join(setParts, ", "), idx)

	var c Comunicado
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.Titulo, &c.Mensagem, &c.AutorID, &c.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comunicado{}, repo.ErrNotFound
	}
	return c, err
}

func (r *Repository) ExcluirComunicado(ctx context.Context, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM comunicados WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repository) getComunicado(ctx context.Context, id int64) (Comunicado, error) {
	var c Comunicado
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, mensagem, autor_id, criado_em
		FROM comunicados WHERE id = $1
	`, id).Scan(&c.ID, &c.Titulo, &c.Mensagem, &c.AutorID, &c.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comunicado{}, repo.ErrNotFound
	}
	return c, err
}

func (r *Repository) ListSolicitacoes(ctx context.Context) ([]Solicitacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.assunto, s.descricao, s.autor_id, u.nome, s.status, s.criado_em
		FROM solicitacoes s
		LEFT JOIN usuarios u ON u.id = s.autor_id
		ORDER BY s.criado_em DESC, s.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solicitacoes []Solicitacao
	for rows.Next() {
		var s Solicitacao
		if err := rows.Scan(&s.ID, &s.Assunto, &s.Descricao, &s.AutorID, &s.AutorNome, &s.Status, &s.CriadoEm); err != nil {
			return nil, err
		}
		solicitacoes = append(solicitacoes, s)
	}
	return solicitacoes, rows.Err()
}

func (r *Repository) CriarSolicitacao(ctx context.Context, assunto, descricao string, autorID *string) (Solicitacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var s Solicitacao
	err := r.db.QueryRow(ctx, `
		INSERT INTO solicitacoes (assunto, descricao, autor_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, assunto, descricao, autor_id, status, criado_em
	`, assunto, descricao, autorID, SolicitacaoPendente).
		Scan(&s.ID, &s.Assunto, &s.Descricao, &s.AutorID, &s.Status, &s.CriadoEm)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Solicitacao{}, repo.ErrNotFound
		}
		return Solicitacao{}, err
	}
	return s, nil
}

// AtualizarSolicitacao muda o status do pedido (atendida, arquivada ou
// reaberta como pendente).
func (r *Repository) AtualizarSolicitacao(ctx context.Context, id int64, status string) (Solicitacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	if !StatusSolicitacaoValido(status) {
		return Solicitacao{}, ErrStatusInvalido
	}

	var s Solicitacao
	err := r.db.QueryRow(ctx, `
		UPDATE solicitacoes SET status = $1
		WHERE id = $2
		RETURNING id, assunto, descricao, autor_id, status, criado_em
	`, status, id).Scan(&s.ID, &s.Assunto, &s.Descricao, &s.AutorID, &s.Status, &s.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Solicitacao{}, repo.ErrNotFound
	}
	return s, err
}

func (r *Repository) ExcluirSolicitacao(ctx context.Context, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM solicitacoes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

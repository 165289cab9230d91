package agenda

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// Reuniao é um encontro interno da pastoral.
type Reuniao struct {
	ID            int64     `json:"id"`
	Titulo        string    `json:"titulo"`
	Data          time.Time `json:"data"`
	Local         *string   `json:"local,omitempty"`
	Pauta         *string   `json:"pauta,omitempty"`
	ResponsavelID *string   `json:"responsavel_id,omitempty"`
	Status        string    `json:"status"`
	CriadoEm      time.Time `json:"criado_em"`
}

// Evento é uma atividade aberta à comunidade.
type Evento struct {
	ID        int64     `json:"id"`
	Titulo    string    `json:"titulo"`
	Data      time.Time `json:"data"`
	Local     *string   `json:"local,omitempty"`
	Descricao *string   `json:"descricao,omitempty"`
	Status    string    `json:"status"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Formacao é um encontro formativo para os membros.
type Formacao struct {
	ID       int64     `json:"id"`
	Titulo   string    `json:"titulo"`
	Data     time.Time `json:"data"`
	Tema     *string   `json:"tema,omitempty"`
	Material *string   `json:"material,omitempty"`
	Status   string    `json:"status"`
	CriadoEm time.Time `json:"criado_em"`
}

// Repository fornece acesso à agenda (reuniões, eventos e formações).
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// ReuniaoInput cobre criação e atualização parcial.
type ReuniaoInput struct {
	Titulo        *string
	Data          *time.Time
	Local         *string
	Pauta         *string
	ResponsavelID *string
	Status        *string
}

// EventoInput cobre criação e atualização parcial.
type EventoInput struct {
	Titulo    *string
	Data      *time.Time
	Local     *string
	Descricao *string
	Status    *string
}

// FormacaoInput cobre criação e atualização parcial.
type FormacaoInput struct {
	Titulo   *string
	Data     *time.Time
	Tema     *string
	Material *string
	Status   *string
}

func (r *Repository) ListReunioes(ctx context.Context) ([]Reuniao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, data, local, pauta, responsavel_id, status, criado_em
		FROM reunioes
		ORDER BY data DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reunioes []Reuniao
	for rows.Next() {
		var m Reuniao
		if err := rows.Scan(&m.ID, &m.Titulo, &m.Data, &m.Local, &m.Pauta, &m.ResponsavelID, &m.Status, &m.CriadoEm); err != nil {
			return nil, err
		}
		reunioes = append(reunioes, m)
	}
	return reunioes, rows.Err()
}

func (r *Repository) CriarReuniao(ctx context.Context, titulo string, data time.Time, input ReuniaoInput) (Reuniao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	status := "agendada"
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		status = strings.TrimSpace(*input.Status)
	}

	var m Reuniao
	err := r.db.QueryRow(ctx, `
		INSERT INTO reunioes (titulo, data, local, pauta, responsavel_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, titulo, data, local, pauta, responsavel_id, status, criado_em
	`, titulo, data, input.Local, input.Pauta, input.ResponsavelID, status).
		Scan(&m.ID, &m.Titulo, &m.Data, &m.Local, &m.Pauta, &m.ResponsavelID, &m.Status, &m.CriadoEm)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Reuniao{}, repo.ErrNotFound
		}
		return Reuniao{}, err
	}
	return m, nil
}

func (r *Repository) AtualizarReuniao(ctx context.Context, id int64, input ReuniaoInput) (Reuniao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	set, args := montarSet(map[string]any{
		"titulo":         deref(input.Titulo),
		"data":           derefTime(input.Data),
		"local":          deref(input.Local),
		"pauta":          deref(input.Pauta),
		"responsavel_id": deref(input.ResponsavelID),
		"status":         deref(input.Status),
	})
	if len(set) == 0 {
		return r.getReuniao(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE reunioes SET %s WHERE id = $%d
		RETURNING id, titulo, data, local, pauta, responsavel_id, status, criado_em
	`, strings.Join(set, ", "), len(args))

	var m Reuniao
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&m.ID, &m.Titulo, &m.Data, &m.Local, &m.Pauta, &m.ResponsavelID, &m.Status, &m.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reuniao{}, repo.ErrNotFound
	}
	if err != nil && db.IsForeignKeyViolation(err) {
		return Reuniao{}, repo.ErrNotFound
	}
	return m, err
}

func (r *Repository) ExcluirReuniao(ctx context.Context, id int64) error {
	return r.excluir(ctx, "reunioes", id)
}

func (r *Repository) getReuniao(ctx context.Context, id int64) (Reuniao, error) {
	var m Reuniao
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, data, local, pauta, responsavel_id, status, criado_em
		FROM reunioes WHERE id = $1
	`, id).Scan(&m.ID, &m.Titulo, &m.Data, &m.Local, &m.Pauta, &m.ResponsavelID, &m.Status, &m.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reuniao{}, repo.ErrNotFound
	}
	return m, err
}

func (r *Repository) ListEventos(ctx context.Context) ([]Evento, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, data, local, descricao, status, criado_em
		FROM eventos
		ORDER BY data DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eventos []Evento
	for rows.Next() {
		var e Evento
		if err := rows.Scan(&e.ID, &e.Titulo, &e.Data, &e.Local, &e.Descricao, &e.Status, &e.CriadoEm); err != nil {
			return nil, err
		}
		eventos = append(eventos, e)
	}
	return eventos, rows.Err()
}

func (r *Repository) CriarEvento(ctx context.Context, titulo string, data time.Time, input EventoInput) (Evento, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	status := "previsto"
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		status = strings.TrimSpace(*input.Status)
	}

	var e Evento
	err := r.db.QueryRow(ctx, `
		INSERT INTO eventos (titulo, data, local, descricao, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, titulo, data, local, descricao, status, criado_em
	`, titulo, data, input.Local, input.Descricao, status).
		Scan(&e.ID, &e.Titulo, &e.Data, &e.Local, &e.Descricao, &e.Status, &e.CriadoEm)
	return e, err
}

func (r *Repository) AtualizarEvento(ctx context.Context, id int64, input EventoInput) (Evento, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	set, args := montarSet(map[string]any{
		"titulo":    deref(input.Titulo),
		"data":      derefTime(input.Data),
		"local":     deref(input.Local),
		"descricao": deref(input.Descricao),
		"status":    deref(input.Status),
	})
	if len(set) == 0 {
		return r.getEvento(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE eventos SET %s WHERE id = $%d
		RETURNING id, titulo, data, local, descricao, status, criado_em
	`, strings.Join(set, ", "), len(args))

	var e Evento
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.Titulo, &e.Data, &e.Local, &e.Descricao, &e.Status, &e.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evento{}, repo.ErrNotFound
	}
	return e, err
}

func (r *Repository) ExcluirEvento(ctx context.Context, id int64) error {
	return r.excluir(ctx, "eventos", id)
}

func (r *Repository) getEvento(ctx context.Context, id int64) (Evento, error) {
	var e Evento
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, data, local, descricao, status, criado_em
		FROM eventos WHERE id = $1
	`, id).Scan(&e.ID, &e.Titulo, &e.Data, &e.Local, &e.Descricao, &e.Status, &e.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Evento{}, repo.ErrNotFound
	}
	return e, err
}

func (r *Repository) ListFormacoes(ctx context.Context) ([]Formacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, data, tema, material, status, criado_em
		FROM formacoes
		ORDER BY data DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formacoes []Formacao
	for rows.Next() {
		var f Formacao
		if err := rows.Scan(&f.ID, &f.Titulo, &f.Data, &f.Tema, &f.Material, &f.Status, &f.CriadoEm); err != nil {
			return nil, err
		}
		formacoes = append(formacoes, f)
	}
	return formacoes, rows.Err()
}

func (r *Repository) CriarFormacao(ctx context.Context, titulo string, data time.Time, input FormacaoInput) (Formacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	status := "prevista"
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		status = strings.TrimSpace(*input.Status)
	}

	var f Formacao
	err := r.db.QueryRow(ctx, `
		INSERT INTO formacoes (titulo, data, tema, material, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, titulo, data, tema, material, status, criado_em
	`, titulo, data, input.Tema, input.Material, status).
		Scan(&f.ID, &f.Titulo, &f.Data, &f.Tema, &f.Material, &f.Status, &f.CriadoEm)
	return f, err
}

func (r *Repository) AtualizarFormacao(ctx context.Context, id int64, input FormacaoInput) (Formacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	set, args := montarSet(map[string]any{
		"titulo":   deref(input.Titulo),
		"data":     derefTime(input.Data),
		"tema":     deref(input.Tema),
		"material": deref(input.Material),
		"status":   deref(input.Status),
	})
	if len(set) == 0 {
		return r.getFormacao(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE formacoes SET %s WHERE id = $%d
		RETURNING id, titulo, data, tema, material, status, criado_em
	`, strings.Join(set, ", "), len(args))

	var f Formacao
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&f.ID, &f.Titulo, &f.Data, &f.Tema, &f.Material, &f.Status, &f.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Formacao{}, repo.ErrNotFound
	}
	return f, err
}

func (r *Repository) ExcluirFormacao(ctx context.Context, id int64) error {
	return r.excluir(ctx, "formacoes", id)
}

func (r *Repository) getFormacao(ctx context.Context, id int64) (Formacao, error) {
	var f Formacao
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, data, tema, material, status, criado_em
		FROM formacoes WHERE id = $1
	`, id).Scan(&f.ID, &f.Titulo, &f.Data, &f.Tema, &f.Material, &f.Status, &f.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Formacao{}, repo.ErrNotFound
	}
	return f, err
}

func (r *Repository) excluir(ctx context.Context, tabela string, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tabela), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// montarSet produz cláusulas SET apenas para os valores presentes, em ordem
// estável de coluna.
func montarSet(campos map[string]any) ([]string, []any) {
	colunas := make([]string, 0, len(campos))
	for coluna, valor := range campos {
		if valor != nil {
			colunas = append(colunas, coluna)
		}
	}
	sort.Strings(colunas)

	set := make([]string, 0, len(colunas))
	args := make([]any, 0, len(colunas)+1)
	for i, coluna := range colunas {
		set = append(set, fmt.Sprintf("%s = $%d", coluna, i+1))
		args = append(args, campos[coluna])
	}
	return set, args
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

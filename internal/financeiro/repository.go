package financeiro

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

// Tipos de lançamento de caixa da pastoral.
const (
	TipoEntrada = "entrada"
	TipoSaida   = "saída"
)

// ErrTipoInvalido sinaliza tipo fora de entrada/saída.
var ErrTipoInvalido = errors.New("tipo de lançamento inválido")

// Transacao representa um lançamento de caixa.
type Transacao struct {
	ID        int64     `json:"id"`
	Tipo      string    `json:"tipo"`
	Valor     float64   `json:"valor"`
	Descricao string    `json:"descricao"`
	Data      time.Time `json:"data"`
	Categoria *string   `json:"categoria,omitempty"`
	CriadoEm  time.Time `json:"criado_em"`
}

// ResumoMes agrega entradas e saídas de um mês-calendário.
type ResumoMes struct {
	Mes      time.Time
	Entradas float64
	Saidas   float64
}

// TipoValido confere o texto contra os tipos aceitos.
func TipoValido(tipo string) bool {
	return tipo == TipoEntrada || tipo == TipoSaida
}

// Repository fornece acesso aos lançamentos financeiros.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// AtualizarInput aplica atualização parcial; ponteiro nulo preserva a coluna.
type AtualizarInput struct {
	Tipo      *string
	Valor     *float64
	Descricao *string
	Data      *time.Time
	Categoria *string
}

func (r *Repository) List(ctx context.Context) ([]Transacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, tipo, valor, descricao, data, categoria, criado_em
		FROM transacoes
		ORDER BY data DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transacoes []Transacao
	for rows.Next() {
		var t Transacao
		if err := rows.Scan(&t.ID, &t.Tipo, &t.Valor, &t.Descricao, &t.Data, &t.Categoria, &t.CriadoEm); err != nil {
			return nil, err
		}
		transacoes = append(transacoes, t)
	}
	return transacoes, rows.Err()
}

func (r *Repository) Criar(ctx context.Context, tipo string, valor float64, descricao string, data time.Time, categoria *string) (Transacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	if !TipoValido(tipo) {
		return Transacao{}, ErrTipoInvalido
	}

	var t Transacao
	err := r.db.QueryRow(ctx, `
		INSERT INTO transacoes (tipo, valor, descricao, data, categoria)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tipo, valor, descricao, data, categoria, criado_em
	`, tipo, valor, descricao, data, categoria).
		Scan(&t.ID, &t.Tipo, &t.Valor, &t.Descricao, &t.Data, &t.Categoria, &t.CriadoEm)
	return t, err
}

func (r *Repository) Atualizar(ctx context.Context, id int64, input AtualizarInput) (Transacao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	idx := 1

	if input.Tipo != nil {
		if !TipoValido(*input.Tipo) {
			return Transacao{}, ErrTipoInvalido
		}
		setParts = append(setParts, fmt.Sprintf("tipo = $%d", idx))
		args = append(args, *input.Tipo)
		idx++
	}
	if input.Valor != nil {
		setParts = append(setParts, fmt.Sprintf("valor = $%d", idx))
		args = append(args, *input.Valor)
		idx++
	}
	if input.Descricao != nil {
		setParts = append(setParts, fmt.Sprintf("descricao = $%d", idx))
		args = append(args, strings.TrimSpace(*input.Descricao))
		idx++
	}
	if input.Data != nil {
		setParts = append(setParts, fmt.Sprintf("data = $%d", idx))
		args = append(args, *input.Data)
		idx++
	}
	if input.Categoria != nil {
		setParts = append(setParts, fmt.Sprintf("categoria = $%d", idx))
		args = append(args, *input.Categoria)
		idx++
	}

	if len(setParts) == 0 {
		return r.get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE transacoes SET %s
		WHERE id = $%d
		RETURNING id, tipo, valor, descricao, data, categoria, criado_em
	`, strings.Join(setParts, ", "), idx)

	var t Transacao
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.Tipo, &t.Valor, &t.Descricao, &t.Data, &t.Categoria, &t.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transacao{}, repo.ErrNotFound
	}
	return t, err
}

func (r *Repository) Excluir(ctx context.Context, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM transacoes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repository) get(ctx context.Context, id int64) (Transacao, error) {
	var t Transacao
	err := r.db.QueryRow(ctx, `
		SELECT id, tipo, valor, descricao, data, categoria, criado_em
		FROM transacoes
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Tipo, &t.Valor, &t.Descricao, &t.Data, &t.Categoria, &t.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transacao{}, repo.ErrNotFound
	}
	return t, err
}

// ResumoMensal agrega entradas e saídas por mês nos últimos meses informados,
// incluindo o mês corrente.
func (r *Repository) ResumoMensal(ctx context.Context, meses int) ([]ResumoMes, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	if meses <= 0 {
		meses = 6
	}

	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('month', data) AS mes,
		       COALESCE(SUM(valor) FILTER (WHERE tipo = $1), 0) AS entradas,
		       COALESCE(SUM(valor) FILTER (WHERE tipo = $2), 0) AS saidas
		FROM transacoes
		WHERE data >= date_trunc('month', now()) - make_interval(months => $3 - 1)
		GROUP BY 1
		ORDER BY 1
	`, TipoEntrada, TipoSaida, meses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumo []ResumoMes
	for rows.Next() {
		var m ResumoMes
		if err := rows.Scan(&m.Mes, &m.Entradas, &m.Saidas); err != nil {
			return nil, err
		}
		resumo = append(resumo, m)
	}
	return resumo, rows.Err()
}

package batismo

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

// Repository fornece acesso aos registros de batismo.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const batismoColunas = `
	id, status, data, celebrante_id, curso_concluido, documentos_ok, batizando,
	mae, pai, padrinho, madrinha, sexo, faixa_etaria, cidade, observacoes, criado_em
`

// CriarInput descreve um novo registro vindo da triagem de solicitações.
type CriarInput struct {
	Status         string
	Data           *time.Time
	CelebranteID   *string
	CursoConcluido bool
	DocumentosOK   bool
	Batizando      string
	Mae            *string
	Pai            *string
	Padrinho       *string
	Madrinha       *string
	Sexo           *string
	FaixaEtaria    *string
	Cidade         *string
	Observacoes    *string
}

// AtualizarInput aplica atualização parcial; ponteiro nulo preserva a coluna.
type AtualizarInput struct {
	Status         *string
	Data           *time.Time
	CelebranteID   *string
	CursoConcluido *bool
	DocumentosOK   *bool
	Batizando      *string
	Mae            *string
	Pai            *string
	Padrinho       *string
	Madrinha       *string
	Sexo           *string
	FaixaEtaria    *string
	Cidade         *string
	Observacoes    *string
}

func (r *Repository) List(ctx context.Context) ([]Batismo, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+batismoColunas+`
		FROM batismos
		ORDER BY data DESC NULLS LAST, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batismos []Batismo
	for rows.Next() {
		b, err := scanBatismo(rows)
		if err != nil {
			return nil, err
		}
		batismos = append(batismos, b)
	}
	return batismos, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Batismo, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+batismoColunas+` FROM batismos WHERE id = $1`, id)
	b, err := scanBatismo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batismo{}, repo.ErrNotFound
	}
	return b, err
}

func (r *Repository) Criar(ctx context.Context, input CriarInput) (Batismo, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = StatusSolicitado
	}

	faixa, err := faixaParaColuna(input.FaixaEtaria)
	if err != nil {
		return Batismo{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO batismos (status, data, celebrante_id, curso_concluido, documentos_ok,
			batizando, mae, pai, padrinho, madrinha, sexo, faixa_etaria, cidade, observacoes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING `+batismoColunas,
		status, input.Data, input.CelebranteID, input.CursoConcluido, input.DocumentosOK,
		input.Batizando, input.Mae, input.Pai, input.Padrinho, input.Madrinha,
		input.Sexo, faixa, input.Cidade, input.Observacoes)

	b, err := scanBatismo(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Batismo{}, repo.ErrNotFound
		}
		return Batismo{}, err
	}
	return b, nil
}

func (r *Repository) Atualizar(ctx context.Context, id int64, input AtualizarInput) (Batismo, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	setParts := make([]string, 0, 14)
	args := make([]any, 0, 15)
	idx := 1

	add := func(coluna string, valor any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", coluna, idx))
		args = append(args, valor)
		idx++
	}

	if input.Status != nil {
		add("status", strings.TrimSpace(*input.Status))
	}
	if input.Data != nil {
		add("data", *input.Data)
	}
	if input.CelebranteID != nil {
		add("celebrante_id", *input.CelebranteID)
	}
	if input.CursoConcluido != nil {
		add("curso_concluido", *input.CursoConcluido)
	}
	if input.DocumentosOK != nil {
		add("documentos_ok", *input.DocumentosOK)
	}
	if input.Batizando != nil {
		add("batizando", strings.TrimSpace(*input.Batizando))
	}
	if input.Mae != nil {
		add("mae", *input.Mae)
	}
	if input.Pai != nil {
		add("pai", *input.Pai)
	}
	if input.Padrinho != nil {
		add("padrinho", *input.Padrinho)
	}
	if input.Madrinha != nil {
		add("madrinha", *input.Madrinha)
	}
	if input.Sexo != nil {
		add("sexo", *input.Sexo)
	}
	if input.FaixaEtaria != nil {
		faixa, err := faixaParaColuna(input.FaixaEtaria)
		if err != nil {
			return Batismo{}, err
		}
		add("faixa_etaria", faixa)
	}
	if input.Cidade != nil {
		add("cidade", *input.Cidade)
	}
	if input.Observacoes != nil {
		add("observacoes", *input.Observacoes)
	}

	if len(setParts) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE batismos SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, batismoColunas)

	row := r.db.QueryRow(ctx, query, args...)
	b, err := scanBatismo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batismo{}, repo.ErrNotFound
	}
	if err != nil && db.IsForeignKeyViolation(err) {
		return Batismo{}, repo.ErrNotFound
	}
	return b, err
}

// Excluir remove o batismo; as escalas associadas caem por cascata.
func (r *Repository) Excluir(ctx context.Context, id int64) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM batismos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Cidades lista valores distintos e não vazios para popular filtros.
func (r *Repository) Cidades(ctx context.Context) ([]string, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT cidade
		FROM batismos
		WHERE cidade IS NOT NULL AND btrim(cidade) <> ''
		ORDER BY cidade
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cidades := []string{}
	for rows.Next() {
		var cidade string
		if err := rows.Scan(&cidade); err != nil {
			return nil, err
		}
		cidades = append(cidades, cidade)
	}
	return cidades, rows.Err()
}

// ErrFaixaInvalida sinaliza faixa etária fora do enum exposto.
var ErrFaixaInvalida = errors.New("faixa etária inválida")

func faixaParaColuna(faixa *string) (*int16, error) {
	if faixa == nil || strings.TrimSpace(*faixa) == "" {
		return nil, nil
	}
	codigo, ok := CodigoFaixa(strings.ToLower(strings.TrimSpace(*faixa)))
	if !ok {
		return nil, ErrFaixaInvalida
	}
	return &codigo, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatismo(row rowScanner) (Batismo, error) {
	var (
		b     Batismo
		faixa *int16
	)
	if err := row.Scan(&b.ID, &b.Status, &b.Data, &b.CelebranteID, &b.CursoConcluido,
		&b.DocumentosOK, &b.Batizando, &b.Mae, &b.Pai, &b.Padrinho, &b.Madrinha,
		&b.Sexo, &faixa, &b.Cidade, &b.Observacoes, &b.CriadoEm); err != nil {
		return Batismo{}, err
	}
	b.FaixaEtaria = FaixaDoCodigo(faixa)
	return b, nil
}

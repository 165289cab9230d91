package membro

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// ErrPossuiVinculos sinaliza exclusão bloqueada por escalas, reuniões ou
// solicitações que referenciam o membro.
var ErrPossuiVinculos = errors.New("membro possui vínculos ativos e não pode ser excluído")

// Repository fornece acesso aos dados de membros da pastoral.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const usuarioColunas = `
	id, papel, nome, email, telefone, ativo, endereco, nascimento,
	estado_civil, conjuge, casamento, filhos, sacramentos, foto_url, criado_em
`

// AtualizarInput carrega apenas os campos enviados; ponteiro nulo não altera a coluna.
type AtualizarInput struct {
	Papel       *string
	Nome        *string
	Email       *string
	Telefone    *string
	Ativo       *bool
	Endereco    *string
	Nascimento  *time.Time
	EstadoCivil *string
	Conjuge     *string
	Casamento   *time.Time
	Filhos      []string
	Sacramentos map[string]bool
	FotoURL     *string
}

func (r *Repository) List(ctx context.Context) ([]repo.Usuario, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+usuarioColunas+` FROM usuarios ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []repo.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (repo.Usuario, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+usuarioColunas+` FROM usuarios WHERE id = $1`, id)
	u, err := scanUsuario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, err
}

// Criar insere um membro cadastrado manualmente. Quando o chamador não
// informa id (cadastro sem conta no provedor), um identificador é gerado.
func (r *Repository) Criar(ctx context.Context, u repo.Usuario) (repo.Usuario, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	if strings.TrimSpace(u.Papel) == "" {
		u.Papel = repo.PapelMembro
	}

	filhos := repo.EncodeFilhos(u.Filhos)
	sacramentos := repo.EncodeSacramentos(u.Sacramentos)

	row := r.db.QueryRow(ctx, `
		INSERT INTO usuarios (id, papel, nome, email, telefone, ativo, endereco, nascimento,
			estado_civil, conjuge, casamento, filhos, sacramentos, foto_url)
		VALUES ($1,$2,$3,$4,$5,TRUE,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING `+usuarioColunas, u.ID, u.Papel, u.Nome, u.Email, u.Telefone, u.Endereco,
		u.Nascimento, u.EstadoCivil, u.Conjuge, u.Casamento, filhos, sacramentos, u.FotoURL)

	criado, err := scanUsuario(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return repo.Usuario{}, repo.ErrConflito
		}
		return repo.Usuario{}, err
	}
	return criado, nil
}

// Provisionar garante a existência do membro visto pela primeira vez via
// provedor de identidade. Upsert por chave: chamadas repetidas convergem
// para uma única linha.
func (r *Repository) Provisionar(ctx context.Context, id, nome, email string) (repo.Usuario, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO usuarios (id, papel, nome, email, ativo, filhos, sacramentos)
		VALUES ($1, $2, $3, $4, TRUE, '[]', '{}')
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+usuarioColunas, id, repo.PapelMembro, nome, email)

	return scanUsuario(row)
}

// Atualizar aplica somente os campos presentes. Id inexistente resulta em ErrNotFound.
func (r *Repository) Atualizar(ctx context.Context, id string, input AtualizarInput) (repo.Usuario, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	setParts := make([]string, 0, 13)
	args := make([]any, 0, 14)
	idx := 1

	add := func(coluna string, valor any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", coluna, idx))
		args = append(args, valor)
		idx++
	}

	if input.Papel != nil {
		add("papel", strings.ToUpper(strings.TrimSpace(*input.Papel)))
	}
	if input.Nome != nil {
		add("nome", strings.TrimSpace(*input.Nome))
	}
	if input.Email != nil {
		add("email", strings.TrimSpace(*input.Email))
	}
	if input.Telefone != nil {
		add("telefone", *input.Telefone)
	}
	if input.Ativo != nil {
		add("ativo", *input.Ativo)
	}
	if input.Endereco != nil {
		add("endereco", *input.Endereco)
	}
	if input.Nascimento != nil {
		add("nascimento", *input.Nascimento)
	}
	if input.EstadoCivil != nil {
		add("estado_civil", *input.EstadoCivil)
	}
	if input.Conjuge != nil {
		add("conjuge", *input.Conjuge)
	}
	if input.Casamento != nil {
		add("casamento", *input.Casamento)
	}
	if input.Filhos != nil {
		add("filhos", repo.EncodeFilhos(input.Filhos))
	}
	if input.Sacramentos != nil {
		add("sacramentos", repo.EncodeSacramentos(input.Sacramentos))
	}
	if input.FotoURL != nil {
		add("foto_url", *input.FotoURL)
	}

	if len(setParts) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE usuarios SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, usuarioColunas)

	row := r.db.QueryRow(ctx, query, args...)
	u, err := scanUsuario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, err
}

// Excluir remove o membro quando não há registros dependentes. A checagem e a
// exclusão acontecem na mesma transação para não competir com inserções
// concorrentes de vínculos.
func (r *Repository) Excluir(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var vinculos int64
		err := tx.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM escalas WHERE usuario_id = $1)
			     + (SELECT COUNT(*) FROM reunioes WHERE responsavel_id = $1)
			     + (SELECT COUNT(*) FROM solicitacoes WHERE autor_id = $1)
		`, id).Scan(&vinculos)
		if err != nil {
			return err
		}
		if vinculos > 0 {
			return ErrPossuiVinculos
		}

		tag, err := tx.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return ErrPossuiVinculos
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUsuario(row rowScanner) (repo.Usuario, error) {
	var (
		u                 repo.Usuario
		filhos, sacrament *string
	)
	if err := row.Scan(&u.ID, &u.Papel, &u.Nome, &u.Email, &u.Telefone, &u.Ativo,
		&u.Endereco, &u.Nascimento, &u.EstadoCivil, &u.Conjuge, &u.Casamento,
		&filhos, &sacrament, &u.FotoURL, &u.CriadoEm); err != nil {
		return repo.Usuario{}, err
	}
	u.Filhos = repo.ParseFilhos(filhos)
	u.Sacramentos = repo.ParseSacramentos(sacrament)
	return u, nil
}

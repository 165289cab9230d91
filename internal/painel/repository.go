package painel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pastoralbatismo/paroquia/internal/agenda"
	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/db"
	"github.com/pastoralbatismo/paroquia/internal/escala"
)

// FiltroEvolucao restringe a evolução mensal de batismos concluídos.
// Campos vazios não filtram.
type FiltroEvolucao struct {
	Ano    int
	Sexo   string
	Cidade string
	Faixa  string
}

// BatismoEscalado junta um batismo agendado com a equipe escalada.
type BatismoEscalado struct {
	Batismo batismo.Batismo  `json:"batismo"`
	Equipe  []escala.Detalhe `json:"equipe"`
}

// Repository agrega leituras do painel sobre as tabelas do domínio.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// ContagemPorStatus devolve o total de batismos por status.
func (r *Repository) ContagemPorStatus(ctx context.Context) (map[string]int, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM batismos GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contagem := map[string]int{}
	for rows.Next() {
		var status string
		var total int
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		contagem[status] = total
	}
	return contagem, rows.Err()
}

// ProximoBatismo devolve o batismo com data mais próxima a partir de hoje,
// ou nil quando não há nenhum futuro.
func (r *Repository) ProximoBatismo(ctx context.Context) (*batismo.Batismo, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var b batismo.Batismo
	var faixa *int16
	err := r.db.QueryRow(ctx, `
		SELECT id, status, data, celebrante_id, curso_concluido, documentos_ok,
		       batizando, mae, pai, padrinho, madrinha, sexo, faixa_etaria,
		       cidade, observacoes, criado_em
		FROM batismos
		WHERE data >= current_date
		ORDER BY data ASC, id ASC
		LIMIT 1
	`).Scan(&b.ID, &b.Status, &b.Data, &b.CelebranteID, &b.CursoConcluido, &b.DocumentosOK,
		&b.Batizando, &b.Mae, &b.Pai, &b.Padrinho, &b.Madrinha, &b.Sexo, &faixa,
		&b.Cidade, &b.Observacoes, &b.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.FaixaEtaria = batismo.FaixaDoCodigo(faixa)
	return &b, nil
}

// ProximaReuniao devolve a próxima reunião a partir de hoje, ou nil.
func (r *Repository) ProximaReuniao(ctx context.Context) (*agenda.Reuniao, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var m agenda.Reuniao
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, data, local, pauta, responsavel_id, status, criado_em
		FROM reunioes
		WHERE data >= current_date
		ORDER BY data ASC, id ASC
		LIMIT 1
	`).Scan(&m.ID, &m.Titulo, &m.Data, &m.Local, &m.Pauta, &m.ResponsavelID, &m.Status, &m.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ProximoEvento devolve o próximo evento a partir de hoje, ou nil.
func (r *Repository) ProximoEvento(ctx context.Context) (*agenda.Evento, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var e agenda.Evento
	err := r.db.QueryRow(ctx, `
		SELECT id, titulo, data, local, descricao, status, criado_em
		FROM eventos
		WHERE data >= current_date
		ORDER BY data ASC, id ASC
		LIMIT 1
	`).Scan(&e.ID, &e.Titulo, &e.Data, &e.Local, &e.Descricao, &e.Status, &e.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SolicitacoesPendentes conta pedidos internos aguardando a coordenação.
func (r *Repository) SolicitacoesPendentes(ctx context.Context) (int, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM solicitacoes WHERE status = 'pendente'
	`).Scan(&total)
	return total, err
}

// EscalaPresenca devolve os batismos agendados futuros com a equipe escalada,
// do mais próximo ao mais distante.
func (r *Repository) EscalaPresenca(ctx context.Context) ([]BatismoEscalado, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, status, data, celebrante_id, curso_concluido, documentos_ok,
		       batizando, mae, pai, padrinho, madrinha, sexo, faixa_etaria,
		       cidade, observacoes, criado_em
		FROM batismos
		WHERE status = $1 AND data >= current_date
		ORDER BY data ASC, id ASC
	`, batismo.StatusAgendado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agendados []BatismoEscalado
	ids := make([]int64, 0, 8)
	for rows.Next() {
		var b batismo.Batismo
		var faixa *int16
		if err := rows.Scan(&b.ID, &b.Status, &b.Data, &b.CelebranteID, &b.CursoConcluido, &b.DocumentosOK,
			&b.Batizando, &b.Mae, &b.Pai, &b.Padrinho, &b.Madrinha, &b.Sexo, &faixa,
			&b.Cidade, &b.Observacoes, &b.CriadoEm); err != nil {
			return nil, err
		}
		b.FaixaEtaria = batismo.FaixaDoCodigo(faixa)
		agendados = append(agendados, BatismoEscalado{Batismo: b, Equipe: []escala.Detalhe{}})
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(agendados) == 0 {
		return []BatismoEscalado{}, nil
	}

	equipeRows, err := r.db.Query(ctx, `
		SELECT e.id, e.batismo_id, e.usuario_id, e.funcao, e.status, e.criado_em, u.nome, u.papel
		FROM escalas e
		JOIN usuarios u ON u.id = e.usuario_id
		WHERE e.batismo_id = ANY($1)
		ORDER BY e.funcao, u.nome
	`, ids)
	if err != nil {
		return nil, err
	}
	defer equipeRows.Close()

	porBatismo := make(map[int64]int, len(agendados))
	for i, a := range agendados {
		porBatismo[a.Batismo.ID] = i
	}
	for equipeRows.Next() {
		var d escala.Detalhe
		if err := equipeRows.Scan(&d.ID, &d.BatismoID, &d.UsuarioID, &d.Funcao, &d.Status,
			&d.CriadoEm, &d.UsuarioNome, &d.UsuarioPapel); err != nil {
			return nil, err
		}
		if i, ok := porBatismo[d.BatismoID]; ok {
			agendados[i].Equipe = append(agendados[i].Equipe, d)
		}
	}
	return agendados, equipeRows.Err()
}

// EvolucaoMensal conta batismos concluídos por mês do ano pedido.
// O mapa usa o número do mês (1 a 12); meses sem batismo ficam de fora.
func (r *Repository) EvolucaoMensal(ctx context.Context, filtro FiltroEvolucao) (map[int]int, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	faixa := int16(-1)
	if filtro.Faixa != "" {
		codigo, ok := batismo.CodigoFaixa(filtro.Faixa)
		if !ok {
			return nil, batismo.ErrFaixaInvalida
		}
		faixa = codigo
	}

	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM data)::int AS mes, COUNT(*)
		FROM batismos
		WHERE status = $1
		  AND data IS NOT NULL
		  AND EXTRACT(YEAR FROM data)::int = $2
		  AND ($3 = '' OR sexo = $3)
		  AND ($4 = '' OR cidade = $4)
		  AND ($5 = -1 OR faixa_etaria = $5)
		GROUP BY 1
	`, batismo.StatusConcluido, filtro.Ano, filtro.Sexo, filtro.Cidade, faixa)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	porMes := map[int]int{}
	for rows.Next() {
		var mes, total int
		if err := rows.Scan(&mes, &total); err != nil {
			return nil, err
		}
		porMes[mes] = total
	}
	return porMes, rows.Err()
}

// ConcluidosNoAno conta batismos concluídos no ano, para a meta anual.
func (r *Repository) ConcluidosNoAno(ctx context.Context, ano int) (int, error) {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM batismos
		WHERE status = $1 AND data IS NOT NULL AND EXTRACT(YEAR FROM data)::int = $2
	`, batismo.StatusConcluido, ano).Scan(&total)
	return total, err
}

package painel

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pastoralbatismo/paroquia/internal/agenda"
	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/financeiro"
	"github.com/pastoralbatismo/paroquia/internal/repo"
	"github.com/pastoralbatismo/paroquia/internal/settings"
)

// MetaAnualPadrao vale quando nenhuma meta foi configurada.
const MetaAnualPadrao = 100

// ErrMetaInvalida sinaliza meta anual não positiva.
var ErrMetaInvalida = errors.New("meta anual deve ser maior que zero")

var nomesMeses = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Resumo é a visão agregada da tela inicial.
type Resumo struct {
	TotalBatismos         int              `json:"total_batismos"`
	PorStatus             map[string]int   `json:"por_status"`
	SolicitacoesPendentes int              `json:"solicitacoes_pendentes"`
	ProximoBatismo        *batismo.Batismo `json:"proximo_batismo"`
	ProximaReuniao        *agenda.Reuniao  `json:"proxima_reuniao"`
	ProximoEvento         *agenda.Evento   `json:"proximo_evento"`
	MetaAnual             int              `json:"meta_anual"`
	ConcluidosNoAno       int              `json:"concluidos_no_ano"`
}

// PontoMes é um mês da evolução de batismos concluídos.
type PontoMes struct {
	Mes   string `json:"mes"`
	Total int    `json:"total"`
}

// PontoCaixa é um mês do resumo financeiro.
type PontoCaixa struct {
	Mes      string  `json:"mes"`
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
	Saldo    float64 `json:"saldo"`
}

// Store isola as leituras agregadas consumidas pelo serviço.
type Store interface {
	ContagemPorStatus(ctx context.Context) (map[string]int, error)
	ProximoBatismo(ctx context.Context) (*batismo.Batismo, error)
	ProximaReuniao(ctx context.Context) (*agenda.Reuniao, error)
	ProximoEvento(ctx context.Context) (*agenda.Evento, error)
	SolicitacoesPendentes(ctx context.Context) (int, error)
	EscalaPresenca(ctx context.Context) ([]BatismoEscalado, error)
	EvolucaoMensal(ctx context.Context, filtro FiltroEvolucao) (map[int]int, error)
	ConcluidosNoAno(ctx context.Context, ano int) (int, error)
}

// Metas guarda a meta anual configurada.
type Metas interface {
	Get(ctx context.Context, chave string) (string, error)
	Set(ctx context.Context, chave, valor string) error
}

// Caixa fornece o agregado mensal do financeiro.
type Caixa interface {
	ResumoMensal(ctx context.Context, meses int) ([]financeiro.ResumoMes, error)
}

// Service monta as visões do painel.
type Service struct {
	painel Store
	metas  Metas
	caixa  Caixa
	agora  func() time.Time
}

func NewService(painel Store, metas Metas, caixa Caixa) *Service {
	return &Service{painel: painel, metas: metas, caixa: caixa, agora: time.Now}
}

// Resumo agrega os números da tela inicial em uma só chamada.
func (s *Service) Resumo(ctx context.Context) (Resumo, error) {
	porStatus, err := s.painel.ContagemPorStatus(ctx)
	if err != nil {
		return Resumo{}, err
	}

	total := 0
	for _, n := range porStatus {
		total += n
	}

	pendentes, err := s.painel.SolicitacoesPendentes(ctx)
	if err != nil {
		return Resumo{}, err
	}
	proximoBatismo, err := s.painel.ProximoBatismo(ctx)
	if err != nil {
		return Resumo{}, err
	}
	proximaReuniao, err := s.painel.ProximaReuniao(ctx)
	if err != nil {
		return Resumo{}, err
	}
	proximoEvento, err := s.painel.ProximoEvento(ctx)
	if err != nil {
		return Resumo{}, err
	}
	meta, err := s.MetaAnual(ctx)
	if err != nil {
		return Resumo{}, err
	}
	concluidos, err := s.painel.ConcluidosNoAno(ctx, s.agora().Year())
	if err != nil {
		return Resumo{}, err
	}

	return Resumo{
		TotalBatismos:         total,
		PorStatus:             porStatus,
		SolicitacoesPendentes: pendentes,
		ProximoBatismo:        proximoBatismo,
		ProximaReuniao:        proximaReuniao,
		ProximoEvento:         proximoEvento,
		MetaAnual:             meta,
		ConcluidosNoAno:       concluidos,
	}, nil
}

// EscalaPresenca expõe os batismos agendados futuros com a equipe.
func (s *Service) EscalaPresenca(ctx context.Context) ([]BatismoEscalado, error) {
	return s.painel.EscalaPresenca(ctx)
}

// Evolucao devolve os doze meses do ano pedido, com zero onde não houve
// batismo concluído. Ano zero usa o ano corrente.
func (s *Service) Evolucao(ctx context.Context, filtro FiltroEvolucao) ([]PontoMes, error) {
	if filtro.Ano == 0 {
		filtro.Ano = s.agora().Year()
	}

	porMes, err := s.painel.EvolucaoMensal(ctx, filtro)
	if err != nil {
		return nil, err
	}

	pontos := make([]PontoMes, 12)
	for i := 0; i < 12; i++ {
		pontos[i] = PontoMes{Mes: nomesMeses[i], Total: porMes[i+1]}
	}
	return pontos, nil
}

// MetaAnual lê a meta configurada; sem configuração vale o padrão.
func (s *Service) MetaAnual(ctx context.Context) (int, error) {
	valor, err := s.metas.Get(ctx, settings.ChaveMetaAnual)
	if errors.Is(err, repo.ErrNotFound) {
		return MetaAnualPadrao, nil
	}
	if err != nil {
		return 0, err
	}
	meta, err := strconv.Atoi(valor)
	if err != nil || meta <= 0 {
		return MetaAnualPadrao, nil
	}
	return meta, nil
}

// DefinirMetaAnual grava a meta de batismos do ano.
func (s *Service) DefinirMetaAnual(ctx context.Context, meta int) error {
	if meta <= 0 {
		return ErrMetaInvalida
	}
	return s.metas.Set(ctx, settings.ChaveMetaAnual, strconv.Itoa(meta))
}

// FinanceiroBI devolve o agregado mensal de caixa com rótulo mes/ano e saldo.
func (s *Service) FinanceiroBI(ctx context.Context, meses int) ([]PontoCaixa, error) {
	resumo, err := s.caixa.ResumoMensal(ctx, meses)
	if err != nil {
		return nil, err
	}

	pontos := make([]PontoCaixa, 0, len(resumo))
	for _, m := range resumo {
		pontos = append(pontos, PontoCaixa{
			Mes:      fmt.Sprintf("%s/%d", nomesMeses[m.Mes.Month()-1], m.Mes.Year()),
			Entradas: m.Entradas,
			Saidas:   m.Saidas,
			Saldo:    m.Entradas - m.Saidas,
		})
	}
	return pontos, nil
}

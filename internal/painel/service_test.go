package painel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pastoralbatismo/paroquia/internal/agenda"
	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/financeiro"
	"github.com/pastoralbatismo/paroquia/internal/repo"
	"github.com/pastoralbatismo/paroquia/internal/settings"
)

type stubStore struct {
	porStatus  map[string]int
	porMes     map[int]int
	pendentes  int
	concluidos int
	anoPedido  int
	filtro     FiltroEvolucao
}

func (s *stubStore) ContagemPorStatus(ctx context.Context) (map[string]int, error) {
	return s.porStatus, nil
}

func (s *stubStore) ProximoBatismo(ctx context.Context) (*batismo.Batismo, error) {
	return nil, nil
}

func (s *stubStore) ProximaReuniao(ctx context.Context) (*agenda.Reuniao, error) {
	return nil, nil
}

func (s *stubStore) ProximoEvento(ctx context.Context) (*agenda.Evento, error) {
	return nil, nil
}

func (s *stubStore) SolicitacoesPendentes(ctx context.Context) (int, error) {
	return s.pendentes, nil
}

func (s *stubStore) EscalaPresenca(ctx context.Context) ([]BatismoEscalado, error) {
	return []BatismoEscalado{}, nil
}

func (s *stubStore) EvolucaoMensal(ctx context.Context, filtro FiltroEvolucao) (map[int]int, error) {
	s.filtro = filtro
	return s.porMes, nil
}

func (s *stubStore) ConcluidosNoAno(ctx context.Context, ano int) (int, error) {
	s.anoPedido = ano
	return s.concluidos, nil
}

type stubMetas struct {
	valores map[string]string
}

func (s *stubMetas) Get(ctx context.Context, chave string) (string, error) {
	v, ok := s.valores[chave]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (s *stubMetas) Set(ctx context.Context, chave, valor string) error {
	if s.valores == nil {
		s.valores = map[string]string{}
	}
	s.valores[chave] = valor
	return nil
}

type stubCaixa struct {
	resumo []financeiro.ResumoMes
}

func (s *stubCaixa) ResumoMensal(ctx context.Context, meses int) ([]financeiro.ResumoMes, error) {
	return s.resumo, nil
}

func novoServico(store *stubStore, metas *stubMetas, caixa *stubCaixa) *Service {
	svc := NewService(store, metas, caixa)
	svc.agora = func() time.Time {
		return time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestResumoAgregaTotais(t *testing.T) {
	store := &stubStore{
		porStatus:  map[string]int{batismo.StatusSolicitado: 3, batismo.StatusConcluido: 7},
		pendentes:  2,
		concluidos: 7,
	}
	svc := novoServico(store, &stubMetas{}, &stubCaixa{})

	resumo, err := svc.Resumo(context.Background())
	if err != nil {
		t.Fatalf("resumo: %v", err)
	}
	if resumo.TotalBatismos != 10 {
		t.Fatalf("esperava total 10, obteve %d", resumo.TotalBatismos)
	}
	if resumo.SolicitacoesPendentes != 2 {
		t.Fatalf("esperava 2 pendentes, obteve %d", resumo.SolicitacoesPendentes)
	}
	if resumo.MetaAnual != MetaAnualPadrao {
		t.Fatalf("sem configuração a meta deveria ser %d, obteve %d", MetaAnualPadrao, resumo.MetaAnual)
	}
	if store.anoPedido != 2026 {
		t.Fatalf("esperava consulta do ano corrente, obteve %d", store.anoPedido)
	}
}

func TestEvolucaoPreencheDozeMeses(t *testing.T) {
	store := &stubStore{porMes: map[int]int{1: 2, 3: 5, 12: 1}}
	svc := novoServico(store, &stubMetas{}, &stubCaixa{})

	pontos, err := svc.Evolucao(context.Background(), FiltroEvolucao{Ano: 2025})
	if err != nil {
		t.Fatalf("evolução: %v", err)
	}
	if len(pontos) != 12 {
		t.Fatalf("esperava 12 meses, obteve %d", len(pontos))
	}
	if pontos[0].Mes != "jan" || pontos[0].Total != 2 {
		t.Fatalf("janeiro inesperado: %+v", pontos[0])
	}
	if pontos[1].Mes != "fev" || pontos[1].Total != 0 {
		t.Fatalf("fevereiro deveria ser zero: %+v", pontos[1])
	}
	if pontos[11].Mes != "dez" || pontos[11].Total != 1 {
		t.Fatalf("dezembro inesperado: %+v", pontos[11])
	}
}

func TestEvolucaoUsaAnoCorrentePorPadrao(t *testing.T) {
	store := &stubStore{porMes: map[int]int{}}
	svc := novoServico(store, &stubMetas{}, &stubCaixa{})

	if _, err := svc.Evolucao(context.Background(), FiltroEvolucao{Sexo: "F"}); err != nil {
		t.Fatalf("evolução: %v", err)
	}
	if store.filtro.Ano != 2026 {
		t.Fatalf("esperava ano 2026, obteve %d", store.filtro.Ano)
	}
	if store.filtro.Sexo != "F" {
		t.Fatalf("filtro de sexo perdido: %+v", store.filtro)
	}
}

func TestMetaAnual(t *testing.T) {
	metas := &stubMetas{}
	svc := novoServico(&stubStore{}, metas, &stubCaixa{})
	ctx := context.Background()

	if err := svc.DefinirMetaAnual(ctx, 0); !errors.Is(err, ErrMetaInvalida) {
		t.Fatalf("esperava ErrMetaInvalida, obteve %v", err)
	}
	if err := svc.DefinirMetaAnual(ctx, 150); err != nil {
		t.Fatalf("definir meta: %v", err)
	}
	if metas.valores[settings.ChaveMetaAnual] != "150" {
		t.Fatalf("meta não persistida: %+v", metas.valores)
	}

	meta, err := svc.MetaAnual(ctx)
	if err != nil {
		t.Fatalf("meta anual: %v", err)
	}
	if meta != 150 {
		t.Fatalf("esperava 150, obteve %d", meta)
	}
}

func TestMetaAnualValorCorrompido(t *testing.T) {
	metas := &stubMetas{valores: map[string]string{settings.ChaveMetaAnual: "abc"}}
	svc := novoServico(&stubStore{}, metas, &stubCaixa{})

	meta, err := svc.MetaAnual(context.Background())
	if err != nil {
		t.Fatalf("meta anual: %v", err)
	}
	if meta != MetaAnualPadrao {
		t.Fatalf("valor corrompido deveria cair no padrão, obteve %d", meta)
	}
}

func TestFinanceiroBICalculaSaldo(t *testing.T) {
	caixa := &stubCaixa{resumo: []financeiro.ResumoMes{
		{Mes: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), Entradas: 500, Saidas: 120},
		{Mes: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), Entradas: 80, Saidas: 200},
	}}
	svc := novoServico(&stubStore{}, &stubMetas{}, caixa)

	pontos, err := svc.FinanceiroBI(context.Background(), 6)
	if err != nil {
		t.Fatalf("financeiro: %v", err)
	}
	if len(pontos) != 2 {
		t.Fatalf("esperava 2 meses, obteve %d", len(pontos))
	}
	if pontos[0].Mes != "jan/2026" || pontos[0].Saldo != 380 {
		t.Fatalf("janeiro inesperado: %+v", pontos[0])
	}
	if pontos[1].Saldo != -120 {
		t.Fatalf("saldo de fevereiro deveria ser -120, obteve %v", pontos[1].Saldo)
	}
}

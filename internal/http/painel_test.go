package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
	"github.com/pastoralbatismo/paroquia/internal/painel"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

type stubPainel struct {
	meta int
}

func (s *stubPainel) Resumo(ctx context.Context) (painel.Resumo, error) {
	return painel.Resumo{MetaAnual: s.meta}, nil
}

func (s *stubPainel) EscalaPresenca(ctx context.Context) ([]painel.BatismoEscalado, error) {
	return []painel.BatismoEscalado{}, nil
}

func (s *stubPainel) Evolucao(ctx context.Context, filtro painel.FiltroEvolucao) ([]painel.PontoMes, error) {
	return make([]painel.PontoMes, 12), nil
}

func (s *stubPainel) MetaAnual(ctx context.Context) (int, error) {
	return s.meta, nil
}

func (s *stubPainel) DefinirMetaAnual(ctx context.Context, meta int) error {
	if meta <= 0 {
		return painel.ErrMetaInvalida
	}
	s.meta = meta
	return nil
}

func (s *stubPainel) FinanceiroBI(ctx context.Context, meses int) ([]painel.PontoCaixa, error) {
	return []painel.PontoCaixa{}, nil
}

func painelRouter(svc PainelService) http.Handler {
	h := &Handler{painel: svc}
	resolver := &stubResolver{usuarios: map[string]*repo.Usuario{
		tokenAdmin:  {ID: "adm-1", Papel: repo.PapelAdmin},
		tokenMembro: {ID: "mem-1", Papel: repo.PapelMembro},
	}}

	r := chi.NewRouter()
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Identity(resolver))
		private.Use(httpmiddleware.RequireUser)

		private.Get("/painel/evolucao", h.PainelEvolucao)
		private.Get("/painel/meta", h.PainelMeta)
		private.With(httpmiddleware.RequireAdmin).Put("/painel/meta", h.PainelDefinirMeta)
	})
	return r
}

func TestDefinirMetaSomenteAdmin(t *testing.T) {
	router := painelRouter(&stubPainel{meta: 100})

	rec := doRequest(t, router, http.MethodPut, "/painel/meta", tokenMembro, `{"meta":120}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Message != httpmiddleware.MsgSomenteAdmin {
		t.Fatalf("mensagem inesperada: %+v", env.Error)
	}
}

func TestDefinirMetaRejeitaValorInvalido(t *testing.T) {
	router := painelRouter(&stubPainel{meta: 100})

	rec := doRequest(t, router, http.MethodPut, "/painel/meta", tokenAdmin, `{"meta":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, obteve %d", rec.Code)
	}
}

func TestDefinirMetaPersisteValor(t *testing.T) {
	svc := &stubPainel{meta: 100}
	router := painelRouter(svc)

	rec := doRequest(t, router, http.MethodPut, "/painel/meta", tokenAdmin, `{"meta":150}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d: %s", rec.Code, rec.Body.String())
	}
	if svc.meta != 150 {
		t.Fatalf("meta não persistida: %d", svc.meta)
	}
}

func TestEvolucaoRejeitaAnoInvalido(t *testing.T) {
	router := painelRouter(&stubPainel{})

	rec := doRequest(t, router, http.MethodGet, "/painel/evolucao?ano=abc", tokenMembro, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, obteve %d", rec.Code)
	}
}

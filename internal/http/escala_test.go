package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pastoralbatismo/paroquia/internal/escala"
	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

type stubEscalas struct {
	escalas map[int64]escala.Escala
	proxima int64
}

func newStubEscalas() *stubEscalas {
	return &stubEscalas{escalas: map[int64]escala.Escala{}, proxima: 1}
}

func (s *stubEscalas) Escalar(ctx context.Context, batismoID int64, usuarioID, funcao string) (escala.Escala, error) {
	if strings.TrimSpace(funcao) == "" {
		return escala.Escala{}, escala.ErrFuncaoObrigatoria
	}
	for _, e := range s.escalas {
		if e.BatismoID == batismoID && e.UsuarioID == usuarioID {
			return escala.Escala{}, escala.ErrJaEscalado
		}
	}
	e := escala.Escala{ID: s.proxima, BatismoID: batismoID, UsuarioID: usuarioID, Funcao: funcao, Status: escala.StatusPendente}
	s.escalas[e.ID] = e
	s.proxima++
	return e, nil
}

func (s *stubEscalas) Remover(ctx context.Context, id int64) error {
	if _, ok := s.escalas[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.escalas, id)
	return nil
}

func (s *stubEscalas) ListarPorBatismo(ctx context.Context, batismoID int64) ([]escala.Detalhe, error) {
	var detalhes []escala.Detalhe
	for _, e := range s.escalas {
		if e.BatismoID == batismoID {
			detalhes = append(detalhes, escala.Detalhe{Escala: e})
		}
	}
	return detalhes, nil
}

func (s *stubEscalas) AtualizarPresenca(ctx context.Context, id int64, status string, actor *repo.Usuario) (escala.Escala, error) {
	e, ok := s.escalas[id]
	if !ok {
		return escala.Escala{}, repo.ErrNotFound
	}
	if !escala.StatusValido(status) {
		return escala.Escala{}, escala.ErrStatusInvalido
	}
	if actor == nil || (!actor.Gestor() && actor.ID != e.UsuarioID) {
		return escala.Escala{}, escala.ErrNaoAutorizado
	}
	if e.Status == status {
		return e, nil
	}
	if e.Status != escala.StatusPendente && status != escala.StatusPendente {
		return escala.Escala{}, escala.ErrTransicaoInvalida
	}
	e.Status = status
	s.escalas[id] = e
	return e, nil
}

type stubResolver struct {
	usuarios map[string]*repo.Usuario
}

func (s *stubResolver) Resolve(ctx context.Context, authorization string) (*repo.Usuario, error) {
	parts := strings.SplitN(strings.TrimSpace(authorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, nil
	}
	if usuario, ok := s.usuarios[parts[1]]; ok {
		return usuario, nil
	}
	return nil, nil
}

var (
	tokenAdmin      = "tok-admin"
	tokenCelebrante = "tok-cel"
	tokenMembro     = "tok-membro"
)

func testRouter(escalas EscalaService) http.Handler {
	h := &Handler{escalas: escalas}
	resolver := &stubResolver{usuarios: map[string]*repo.Usuario{
		tokenAdmin:      {ID: "adm-1", Papel: repo.PapelAdmin},
		tokenCelebrante: {ID: "cel-1", Papel: repo.PapelCelebrante},
		tokenMembro:     {ID: "mem-1", Papel: repo.PapelMembro},
	}}

	gestores := httpmiddleware.RequireRoles(repo.PapelAdmin, repo.PapelSecretaria)

	r := chi.NewRouter()
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Identity(resolver))
		private.Use(httpmiddleware.RequireUser)

		private.Get("/batismos/{id}/escala", h.ListEscala)
		private.With(gestores).Post("/batismos/{id}/escala", h.CriarEscala)
		private.Patch("/escalas/{id}/presenca", h.AtualizarPresenca)
		private.With(gestores).Delete("/escalas/{id}", h.RemoverEscala)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("resposta fora do envelope: %v", err)
	}
	return env
}

func TestPresencaExigeAutenticacao(t *testing.T) {
	router := testRouter(newStubEscalas())

	rec := doRequest(t, router, http.MethodPatch, "/escalas/1/presenca", "", `{"status":"confirmado"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("esperava 401, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Message != httpmiddleware.MsgNaoAutenticado {
		t.Fatalf("mensagem inesperada: %+v", env.Error)
	}
}

func TestEscalarExigePapelDeGestao(t *testing.T) {
	router := testRouter(newStubEscalas())

	rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenMembro,
		`{"usuario_id":"cel-1","funcao":"Celebrante"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Message != httpmiddleware.MsgPapelNegado {
		t.Fatalf("mensagem inesperada: %+v", env.Error)
	}
}

func TestEscalarEConfirmarPresenca(t *testing.T) {
	store := newStubEscalas()
	router := testRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenAdmin,
		`{"usuario_id":"cel-1","funcao":"Celebrante"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("esperava 201, obteve %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPatch, "/escalas/1/presenca", tokenCelebrante, `{"status":"confirmado"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, obteve %d: %s", rec.Code, rec.Body.String())
	}
	if store.escalas[1].Status != escala.StatusConfirmado {
		t.Fatalf("status não persistido: %+v", store.escalas[1])
	}
}

func TestEscalarDuplicadoRetornaConflito(t *testing.T) {
	router := testRouter(newStubEscalas())

	payload := `{"usuario_id":"cel-1","funcao":"Celebrante"}`
	if rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenAdmin, payload); rec.Code != http.StatusCreated {
		t.Fatalf("primeira escalação: %d", rec.Code)
	}
	rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenAdmin, payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("esperava 409, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "CONFLICT" {
		t.Fatalf("código inesperado: %+v", env.Error)
	}
}

func TestPresencaDeTerceiroNegada(t *testing.T) {
	store := newStubEscalas()
	router := testRouter(store)

	if rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenAdmin,
		`{"usuario_id":"cel-1","funcao":"Celebrante"}`); rec.Code != http.StatusCreated {
		t.Fatalf("escalação: %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodPatch, "/escalas/1/presenca", tokenMembro, `{"status":"confirmado"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, obteve %d", rec.Code)
	}
	if store.escalas[1].Status != escala.StatusPendente {
		t.Fatalf("status não deveria mudar: %+v", store.escalas[1])
	}
}

func TestPresencaStatusInvalido(t *testing.T) {
	store := newStubEscalas()
	router := testRouter(store)

	if rec := doRequest(t, router, http.MethodPost, "/batismos/10/escala", tokenAdmin,
		`{"usuario_id":"cel-1","funcao":"Celebrante"}`); rec.Code != http.StatusCreated {
		t.Fatalf("escalação: %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodPatch, "/escalas/1/presenca", tokenAdmin, `{"status":"presente"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, obteve %d", rec.Code)
	}
}

func TestRemoverEscalaInexistente(t *testing.T) {
	router := testRouter(newStubEscalas())

	rec := doRequest(t, router, http.MethodDelete, "/escalas/99", tokenAdmin, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, obteve %d", rec.Code)
	}
}

package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pastoralbatismo/paroquia/internal/repo"
)

func capturarLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

type resolverFixo struct {
	usuario *repo.Usuario
	err     error
}

func (r resolverFixo) Resolve(ctx context.Context, authorization string) (*repo.Usuario, error) {
	return r.usuario, r.err
}

func TestLoggingRegistraUsuarioResolvido(t *testing.T) {
	buf := capturarLog(t)

	resolver := resolverFixo{usuario: &repo.Usuario{ID: "mem-7", Papel: repo.PapelMembro}}
	handler := Logging(Identity(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/batismos", nil)
	req.Header.Set("Authorization", "Bearer qualquer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	linha := buf.String()
	if !strings.Contains(linha, `"usuario_id":"mem-7"`) {
		t.Fatalf("usuario_id ausente do log: %s", linha)
	}
	if !strings.Contains(linha, `"status":204`) {
		t.Fatalf("status ausente do log: %s", linha)
	}
	if !strings.Contains(linha, `"path":"/batismos"`) {
		t.Fatalf("path ausente do log: %s", linha)
	}
}

func TestLoggingSemUsuarioOmiteCampo(t *testing.T) {
	buf := capturarLog(t)

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if strings.Contains(buf.String(), "usuario_id") {
		t.Fatalf("usuario_id não deveria aparecer: %s", buf.String())
	}
}

func TestIdentityLogaFalhaDoProvedor(t *testing.T) {
	buf := capturarLog(t)

	resolver := resolverFixo{err: errors.New("provedor fora do ar")}
	handler := Identity(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("não deveria chegar ao handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer qualquer")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("esperava 500, obteve %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "fora do ar") {
		t.Fatalf("detalhe interno vazou na resposta: %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "provedor fora do ar") {
		t.Fatalf("detalhe ausente do log: %s", buf.String())
	}
}

package http

import (
	"bytes"
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

func TestErroNaoMapeadoVaiParaOLog(t *testing.T) {
	buf := capturarLog(t)

	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("conexão com o banco recusada"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("esperava 500, obteve %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodInternal || env.Error.Message != "erro interno" {
		t.Fatalf("resposta deveria ser genérica: %+v", env.Error)
	}
	if strings.Contains(rec.Body.String(), "recusada") {
		t.Fatalf("detalhe interno vazou na resposta: %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "conexão com o banco recusada") {
		t.Fatalf("detalhe ausente do log: %s", buf.String())
	}
}

func TestErroDeDominioNaoPoluiOLog(t *testing.T) {
	buf := capturarLog(t)

	rec := httptest.NewRecorder()
	writeDomainError(rec, repo.ErrNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, obteve %d", rec.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("erro esperado não deveria ir ao log: %s", buf.String())
	}
}

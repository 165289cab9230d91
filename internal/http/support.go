package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/comunicacao"
	"github.com/pastoralbatismo/paroquia/internal/escala"
	"github.com/pastoralbatismo/paroquia/internal/financeiro"
	"github.com/pastoralbatismo/paroquia/internal/membro"
	"github.com/pastoralbatismo/paroquia/internal/painel"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// idParam extrai o parâmetro numérico da rota.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "JSON inválido", nil)
		return false
	}
	return true
}

// writeDomainError traduz erros de domínio para o envelope de erro.
// Erros não mapeados vão ao log com detalhe completo; a resposta
// carrega só a mensagem genérica.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodNotFound, "registro não encontrado", nil)
	case errors.Is(err, repo.ErrConflito),
		errors.Is(err, membro.ErrPossuiVinculos),
		errors.Is(err, escala.ErrJaEscalado),
		errors.Is(err, escala.ErrTransicaoInvalida):
		WriteError(w, http.StatusConflict, CodConflict, err.Error(), nil)
	case errors.Is(err, escala.ErrSomenteGestores),
		errors.Is(err, escala.ErrNaoAutorizado):
		WriteError(w, http.StatusForbidden, CodForbidden, err.Error(), nil)
	case errors.Is(err, escala.ErrStatusInvalido),
		errors.Is(err, escala.ErrFuncaoObrigatoria),
		errors.Is(err, batismo.ErrFaixaInvalida),
		errors.Is(err, financeiro.ErrTipoInvalido),
		errors.Is(err, comunicacao.ErrStatusInvalido),
		errors.Is(err, painel.ErrMetaInvalida):
		WriteError(w, http.StatusBadRequest, CodValidation, err.Error(), nil)
	default:
		log.Error().Err(err).Msg("erro interno")
		WriteError(w, http.StatusInternalServerError, CodInternal, "erro interno", nil)
	}
}

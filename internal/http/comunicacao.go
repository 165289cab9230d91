package http

import (
	"net/http"
	"strings"

	"github.com/pastoralbatismo/paroquia/internal/comunicacao"
	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
)

func (h *Handler) ListComunicados(w http.ResponseWriter, r *http.Request) {
	comunicados, err := h.avisos.ListComunicados(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if comunicados == nil {
		comunicados = []comunicacao.Comunicado{}
	}
	WriteJSON(w, http.StatusOK, comunicados)
}

func (h *Handler) CriarComunicado(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Titulo   string `json:"titulo"`
		Mensagem string `json:"mensagem"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Titulo) == "" || strings.TrimSpace(payload.Mensagem) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "titulo e mensagem são obrigatórios", nil)
		return
	}

	var autorID *string
	if usuario := httpmiddleware.GetUsuario(r.Context()); usuario != nil {
		autorID = &usuario.ID
	}

	c, err := h.avisos.CriarComunicado(r.Context(), strings.TrimSpace(payload.Titulo), payload.Mensagem, autorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) AtualizarComunicado(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload struct {
		Titulo   *string `json:"titulo"`
		Mensagem *string `json:"mensagem"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	c, err := h.avisos.AtualizarComunicado(r.Context(), id, payload.Titulo, payload.Mensagem)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ExcluirComunicado(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := h.avisos.ExcluirComunicado(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

func (h *Handler) ListSolicitacoes(w http.ResponseWriter, r *http.Request) {
	solicitacoes, err := h.avisos.ListSolicitacoes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if solicitacoes == nil {
		solicitacoes = []comunicacao.Solicitacao{}
	}
	WriteJSON(w, http.StatusOK, solicitacoes)
}

// CriarSolicitacao registra o pedido em nome do membro autenticado.
func (h *Handler) CriarSolicitacao(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Assunto   string `json:"assunto"`
		Descricao string `json:"descricao"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Assunto) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "assunto é obrigatório", nil)
		return
	}

	var autorID *string
	if usuario := httpmiddleware.GetUsuario(r.Context()); usuario != nil {
		autorID = &usuario.ID
	}

	s, err := h.avisos.CriarSolicitacao(r.Context(), strings.TrimSpace(payload.Assunto), payload.Descricao, autorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) AtualizarSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	s, err := h.avisos.AtualizarSolicitacao(r.Context(), id, strings.ToLower(strings.TrimSpace(payload.Status)))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) ExcluirSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := h.avisos.ExcluirSolicitacao(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

package http

import (
	"net/http"
	"strings"

	"github.com/pastoralbatismo/paroquia/internal/escala"
	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
)

func (h *Handler) ListEscala(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	detalhes, err := h.escalas.ListarPorBatismo(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if detalhes == nil {
		detalhes = []escala.Detalhe{}
	}
	WriteJSON(w, http.StatusOK, detalhes)
}

func (h *Handler) CriarEscala(w http.ResponseWriter, r *http.Request) {
	batismoID, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}

	var payload struct {
		UsuarioID string `json:"usuario_id"`
		Funcao    string `json:"funcao"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.UsuarioID) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "usuario_id é obrigatório", nil)
		return
	}

	e, err := h.escalas.Escalar(r.Context(), batismoID, payload.UsuarioID, payload.Funcao)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) RemoverEscala(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := h.escalas.Remover(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

// AtualizarPresenca delega as regras de transição ao serviço; qualquer membro
// autenticado pode chamar, a autorização depende do estado atual.
func (h *Handler) AtualizarPresenca(w http.ResponseWriter, r *http.Request) {
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

	actor := httpmiddleware.GetUsuario(r.Context())
	e, err := h.escalas.AtualizarPresenca(r.Context(), id, payload.Status, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

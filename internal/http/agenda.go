package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pastoralbatismo/paroquia/internal/agenda"
	"github.com/pastoralbatismo/paroquia/internal/util"
)

type agendaPayload struct {
	Titulo        *string `json:"titulo"`
	Data          *string `json:"data"`
	Local         *string `json:"local"`
	Pauta         *string `json:"pauta"`
	Descricao     *string `json:"descricao"`
	Tema          *string `json:"tema"`
	Material      *string `json:"material"`
	ResponsavelID *string `json:"responsavel_id"`
	Status        *string `json:"status"`
}

func (p agendaPayload) parseData(w http.ResponseWriter) (*time.Time, bool) {
	if p.Data == nil || strings.TrimSpace(*p.Data) == "" {
		return nil, true
	}
	t, err := util.ParseDate(*p.Data)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "data inválida", nil)
		return nil, false
	}
	return &t, true
}

// exigeCriacao valida os campos mínimos de criação na agenda.
func (p agendaPayload) exigeCriacao(w http.ResponseWriter) (string, time.Time, bool) {
	if p.Titulo == nil || strings.TrimSpace(*p.Titulo) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "titulo é obrigatório", nil)
		return "", time.Time{}, false
	}
	data, ok := p.parseData(w)
	if !ok {
		return "", time.Time{}, false
	}
	if data == nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "data é obrigatória", nil)
		return "", time.Time{}, false
	}
	return strings.TrimSpace(*p.Titulo), *data, true
}

func (h *Handler) ListReunioes(w http.ResponseWriter, r *http.Request) {
	reunioes, err := h.agenda.ListReunioes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reunioes == nil {
		reunioes = []agenda.Reuniao{}
	}
	WriteJSON(w, http.StatusOK, reunioes)
}

func (h *Handler) CriarReuniao(w http.ResponseWriter, r *http.Request) {
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	titulo, data, ok := payload.exigeCriacao(w)
	if !ok {
		return
	}

	m, err := h.agenda.CriarReuniao(r.Context(), titulo, data, agenda.ReuniaoInput{
		Local:         payload.Local,
		Pauta:         payload.Pauta,
		ResponsavelID: payload.ResponsavelID,
		Status:        payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) AtualizarReuniao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	data, ok := payload.parseData(w)
	if !ok {
		return
	}

	m, err := h.agenda.AtualizarReuniao(r.Context(), id, agenda.ReuniaoInput{
		Titulo:        payload.Titulo,
		Data:          data,
		Local:         payload.Local,
		Pauta:         payload.Pauta,
		ResponsavelID: payload.ResponsavelID,
		Status:        payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) ExcluirReuniao(w http.ResponseWriter, r *http.Request) {
	h.excluirAgenda(w, r, h.agenda.ExcluirReuniao)
}

func (h *Handler) ListEventos(w http.ResponseWriter, r *http.Request) {
	eventos, err := h.agenda.ListEventos(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if eventos == nil {
		eventos = []agenda.Evento{}
	}
	WriteJSON(w, http.StatusOK, eventos)
}

func (h *Handler) CriarEvento(w http.ResponseWriter, r *http.Request) {
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	titulo, data, ok := payload.exigeCriacao(w)
	if !ok {
		return
	}

	e, err := h.agenda.CriarEvento(r.Context(), titulo, data, agenda.EventoInput{
		Local:     payload.Local,
		Descricao: payload.Descricao,
		Status:    payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) AtualizarEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	data, ok := payload.parseData(w)
	if !ok {
		return
	}

	e, err := h.agenda.AtualizarEvento(r.Context(), id, agenda.EventoInput{
		Titulo:    payload.Titulo,
		Data:      data,
		Local:     payload.Local,
		Descricao: payload.Descricao,
		Status:    payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ExcluirEvento(w http.ResponseWriter, r *http.Request) {
	h.excluirAgenda(w, r, h.agenda.ExcluirEvento)
}

func (h *Handler) ListFormacoes(w http.ResponseWriter, r *http.Request) {
	formacoes, err := h.agenda.ListFormacoes(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if formacoes == nil {
		formacoes = []agenda.Formacao{}
	}
	WriteJSON(w, http.StatusOK, formacoes)
}

func (h *Handler) CriarFormacao(w http.ResponseWriter, r *http.Request) {
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	titulo, data, ok := payload.exigeCriacao(w)
	if !ok {
		return
	}

	f, err := h.agenda.CriarFormacao(r.Context(), titulo, data, agenda.FormacaoInput{
		Tema:     payload.Tema,
		Material: payload.Material,
		Status:   payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) AtualizarFormacao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload agendaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	data, ok := payload.parseData(w)
	if !ok {
		return
	}

	f, err := h.agenda.AtualizarFormacao(r.Context(), id, agenda.FormacaoInput{
		Titulo:   payload.Titulo,
		Data:     data,
		Tema:     payload.Tema,
		Material: payload.Material,
		Status:   payload.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) ExcluirFormacao(w http.ResponseWriter, r *http.Request) {
	h.excluirAgenda(w, r, h.agenda.ExcluirFormacao)
}

func (h *Handler) excluirAgenda(w http.ResponseWriter, r *http.Request, excluir func(ctx context.Context, id int64) error) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := excluir(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/util"
)

type batismoPayload struct {
	Status         *string `json:"status"`
	Data           *string `json:"data"`
	CelebranteID   *string `json:"celebrante_id"`
	CursoConcluido *bool   `json:"curso_concluido"`
	DocumentosOK   *bool   `json:"documentos_ok"`
	Batizando      *string `json:"batizando"`
	Mae            *string `json:"mae"`
	Pai            *string `json:"pai"`
	Padrinho       *string `json:"padrinho"`
	Madrinha       *string `json:"madrinha"`
	Sexo           *string `json:"sexo"`
	FaixaEtaria    *string `json:"faixa_etaria"`
	Cidade         *string `json:"cidade"`
	Observacoes    *string `json:"observacoes"`
}

func (p batismoPayload) data(w http.ResponseWriter) (*time.Time, bool) {
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

func (p batismoPayload) statusValido(w http.ResponseWriter) bool {
	if p.Status == nil || strings.TrimSpace(*p.Status) == "" {
		return true
	}
	if !batismo.StatusValido(strings.TrimSpace(*p.Status)) {
		WriteError(w, http.StatusBadRequest, CodValidation, "status de batismo inválido", nil)
		return false
	}
	return true
}

func (h *Handler) ListBatismos(w http.ResponseWriter, r *http.Request) {
	batismos, err := h.batismos.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if batismos == nil {
		batismos = []batismo.Batismo{}
	}
	WriteJSON(w, http.StatusOK, batismos)
}

func (h *Handler) GetBatismo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	b, err := h.batismos.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) CriarBatismo(w http.ResponseWriter, r *http.Request) {
	var payload batismoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Batizando == nil || strings.TrimSpace(*payload.Batizando) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "batizando é obrigatório", nil)
		return
	}
	if !payload.statusValido(w) {
		return
	}
	data, ok := payload.data(w)
	if !ok {
		return
	}

	input := batismo.CriarInput{
		Data:         data,
		CelebranteID: payload.CelebranteID,
		Batizando:    strings.TrimSpace(*payload.Batizando),
		Mae:          payload.Mae,
		Pai:          payload.Pai,
		Padrinho:     payload.Padrinho,
		Madrinha:     payload.Madrinha,
		Sexo:         payload.Sexo,
		FaixaEtaria:  payload.FaixaEtaria,
		Cidade:       payload.Cidade,
		Observacoes:  payload.Observacoes,
	}
	if payload.Status != nil {
		input.Status = strings.TrimSpace(*payload.Status)
	}
	if payload.CursoConcluido != nil {
		input.CursoConcluido = *payload.CursoConcluido
	}
	if payload.DocumentosOK != nil {
		input.DocumentosOK = *payload.DocumentosOK
	}

	criado, err := h.batismos.Criar(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, criado)
}

func (h *Handler) AtualizarBatismo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload batismoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !payload.statusValido(w) {
		return
	}
	data, ok := payload.data(w)
	if !ok {
		return
	}

	input := batismo.AtualizarInput{
		Status:         payload.Status,
		Data:           data,
		CelebranteID:   payload.CelebranteID,
		CursoConcluido: payload.CursoConcluido,
		DocumentosOK:   payload.DocumentosOK,
		Batizando:      payload.Batizando,
		Mae:            payload.Mae,
		Pai:            payload.Pai,
		Padrinho:       payload.Padrinho,
		Madrinha:       payload.Madrinha,
		Sexo:           payload.Sexo,
		FaixaEtaria:    payload.FaixaEtaria,
		Cidade:         payload.Cidade,
		Observacoes:    payload.Observacoes,
	}

	b, err := h.batismos.Atualizar(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) ExcluirBatismo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := h.batismos.Excluir(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

func (h *Handler) ListCidades(w http.ResponseWriter, r *http.Request) {
	cidades, err := h.batismos.Cidades(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cidades)
}

package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pastoralbatismo/paroquia/internal/financeiro"
	"github.com/pastoralbatismo/paroquia/internal/util"
)

type transacaoPayload struct {
	Tipo      *string  `json:"tipo"`
	Valor     *float64 `json:"valor"`
	Descricao *string  `json:"descricao"`
	Data      *string  `json:"data"`
	Categoria *string  `json:"categoria"`
}

func (h *Handler) ListTransacoes(w http.ResponseWriter, r *http.Request) {
	transacoes, err := h.caixa.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if transacoes == nil {
		transacoes = []financeiro.Transacao{}
	}
	WriteJSON(w, http.StatusOK, transacoes)
}

func (h *Handler) CriarTransacao(w http.ResponseWriter, r *http.Request) {
	var payload transacaoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Tipo == nil || payload.Valor == nil || payload.Descricao == nil || payload.Data == nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "tipo, valor, descricao e data são obrigatórios", nil)
		return
	}
	if *payload.Valor <= 0 {
		WriteError(w, http.StatusBadRequest, CodValidation, "valor deve ser maior que zero", nil)
		return
	}
	if strings.TrimSpace(*payload.Descricao) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "descricao é obrigatória", nil)
		return
	}
	data, err := util.ParseDate(*payload.Data)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "data inválida", nil)
		return
	}

	t, err := h.caixa.Criar(r.Context(), strings.ToLower(strings.TrimSpace(*payload.Tipo)),
		*payload.Valor, strings.TrimSpace(*payload.Descricao), data, payload.Categoria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) AtualizarTransacao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	var payload transacaoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Valor != nil && *payload.Valor <= 0 {
		WriteError(w, http.StatusBadRequest, CodValidation, "valor deve ser maior que zero", nil)
		return
	}

	input := financeiro.AtualizarInput{
		Tipo:      payload.Tipo,
		Valor:     payload.Valor,
		Descricao: payload.Descricao,
		Categoria: payload.Categoria,
	}
	if payload.Data != nil {
		data, err := util.ParseDate(*payload.Data)
		if err != nil {
			WriteError(w, http.StatusBadRequest, CodValidation, "data inválida", nil)
			return
		}
		input.Data = &data
	}

	t, err := h.caixa.Atualizar(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ExcluirTransacao(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "id inválido", nil)
		return
	}
	if err := h.caixa.Excluir(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

func (h *Handler) ResumoFinanceiro(w http.ResponseWriter, r *http.Request) {
	meses, _ := strconv.Atoi(r.URL.Query().Get("meses"))
	resumo, err := h.caixa.ResumoMensal(r.Context(), meses)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if resumo == nil {
		resumo = []financeiro.ResumoMes{}
	}
	WriteJSON(w, http.StatusOK, resumo)
}

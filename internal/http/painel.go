package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pastoralbatismo/paroquia/internal/painel"
)

func (h *Handler) PainelResumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.painel.Resumo(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resumo)
}

func (h *Handler) PainelEscalaPresenca(w http.ResponseWriter, r *http.Request) {
	agendados, err := h.painel.EscalaPresenca(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, agendados)
}

// PainelEvolucao aceita filtros opcionais: ano, sexo, cidade e faixa_etaria.
func (h *Handler) PainelEvolucao(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filtro := painel.FiltroEvolucao{
		Sexo:   strings.TrimSpace(q.Get("sexo")),
		Cidade: strings.TrimSpace(q.Get("cidade")),
		Faixa:  strings.ToLower(strings.TrimSpace(q.Get("faixa_etaria"))),
	}
	if anoStr := strings.TrimSpace(q.Get("ano")); anoStr != "" {
		ano, err := strconv.Atoi(anoStr)
		if err != nil || ano < 1900 {
			WriteError(w, http.StatusBadRequest, CodValidation, "ano inválido", nil)
			return
		}
		filtro.Ano = ano
	}

	pontos, err := h.painel.Evolucao(r.Context(), filtro)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pontos)
}

func (h *Handler) PainelMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.painel.MetaAnual(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"meta": meta})
}

func (h *Handler) PainelDefinirMeta(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Meta int `json:"meta"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := h.painel.DefinirMetaAnual(r.Context(), payload.Meta); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"meta": payload.Meta})
}

func (h *Handler) PainelFinanceiro(w http.ResponseWriter, r *http.Request) {
	meses, _ := strconv.Atoi(r.URL.Query().Get("meses"))
	pontos, err := h.painel.FinanceiroBI(r.Context(), meses)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if pontos == nil {
		pontos = []painel.PontoCaixa{}
	}
	WriteJSON(w, http.StatusOK, pontos)
}

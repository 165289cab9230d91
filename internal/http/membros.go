package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
	"github.com/pastoralbatismo/paroquia/internal/membro"
	"github.com/pastoralbatismo/paroquia/internal/repo"
	"github.com/pastoralbatismo/paroquia/internal/util"
)

type membroPayload struct {
	Papel       *string         `json:"papel"`
	Nome        *string         `json:"nome"`
	Email       *string         `json:"email"`
	Telefone    *string         `json:"telefone"`
	Ativo       *bool           `json:"ativo"`
	Endereco    *string         `json:"endereco"`
	Nascimento  *string         `json:"nascimento"`
	EstadoCivil *string         `json:"estado_civil"`
	Conjuge     *string         `json:"conjuge"`
	Casamento   *string         `json:"casamento"`
	Filhos      []string        `json:"filhos"`
	Sacramentos map[string]bool `json:"sacramentos"`
	FotoURL     *string         `json:"foto_url"`
}

func (p membroPayload) datas(w http.ResponseWriter) (nascimento, casamento *time.Time, ok bool) {
	for campo, valor := range map[string]*string{"nascimento": p.Nascimento, "casamento": p.Casamento} {
		if valor == nil || strings.TrimSpace(*valor) == "" {
			continue
		}
		t, err := util.ParseDate(*valor)
		if err != nil {
			WriteError(w, http.StatusBadRequest, CodValidation, campo+" inválido", nil)
			return nil, nil, false
		}
		if campo == "nascimento" {
			nascimento = &t
		} else {
			casamento = &t
		}
	}
	return nascimento, casamento, true
}

func (h *Handler) ListMembros(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.membros.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if usuarios == nil {
		usuarios = []repo.Usuario{}
	}
	WriteJSON(w, http.StatusOK, usuarios)
}

func (h *Handler) GetMembro(w http.ResponseWriter, r *http.Request) {
	usuario, err := h.membros.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, usuario)
}

func (h *Handler) CriarMembro(w http.ResponseWriter, r *http.Request) {
	var payload membroPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Nome == nil || strings.TrimSpace(*payload.Nome) == "" {
		WriteError(w, http.StatusBadRequest, CodValidation, "nome é obrigatório", nil)
		return
	}
	if payload.Email != nil && strings.TrimSpace(*payload.Email) != "" {
		if err := util.ValidateEmail(*payload.Email); err != nil {
			WriteError(w, http.StatusBadRequest, CodValidation, err.Error(), nil)
			return
		}
	}
	nascimento, casamento, ok := payload.datas(w)
	if !ok {
		return
	}

	u := repo.Usuario{
		Nome:        strings.TrimSpace(*payload.Nome),
		Telefone:    payload.Telefone,
		Endereco:    payload.Endereco,
		Nascimento:  nascimento,
		EstadoCivil: payload.EstadoCivil,
		Conjuge:     payload.Conjuge,
		Casamento:   casamento,
		Filhos:      payload.Filhos,
		Sacramentos: payload.Sacramentos,
		FotoURL:     payload.FotoURL,
	}
	if payload.Papel != nil {
		u.Papel = strings.ToUpper(strings.TrimSpace(*payload.Papel))
	}
	if payload.Email != nil {
		u.Email = strings.TrimSpace(*payload.Email)
	}

	criado, err := h.membros.Criar(r.Context(), u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, criado)
}

func (h *Handler) AtualizarMembro(w http.ResponseWriter, r *http.Request) {
	var payload membroPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Email != nil && strings.TrimSpace(*payload.Email) != "" {
		if err := util.ValidateEmail(*payload.Email); err != nil {
			WriteError(w, http.StatusBadRequest, CodValidation, err.Error(), nil)
			return
		}
	}
	nascimento, casamento, ok := payload.datas(w)
	if !ok {
		return
	}

	input := membro.AtualizarInput{
		Papel:       payload.Papel,
		Nome:        payload.Nome,
		Email:       payload.Email,
		Telefone:    payload.Telefone,
		Ativo:       payload.Ativo,
		Endereco:    payload.Endereco,
		Nascimento:  nascimento,
		EstadoCivil: payload.EstadoCivil,
		Conjuge:     payload.Conjuge,
		Casamento:   casamento,
		Filhos:      payload.Filhos,
		Sacramentos: payload.Sacramentos,
		FotoURL:     payload.FotoURL,
	}

	usuario, err := h.membros.Atualizar(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, usuario)
}

// AtualizarMeuPerfil permite ao membro editar os próprios dados cadastrais.
// Papel e situação de ativo ficam de fora; só a gestão altera esses campos.
func (h *Handler) AtualizarMeuPerfil(w http.ResponseWriter, r *http.Request) {
	usuario := httpmiddleware.GetUsuario(r.Context())

	var payload membroPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Email != nil && strings.TrimSpace(*payload.Email) != "" {
		if err := util.ValidateEmail(*payload.Email); err != nil {
			WriteError(w, http.StatusBadRequest, CodValidation, err.Error(), nil)
			return
		}
	}
	nascimento, casamento, ok := payload.datas(w)
	if !ok {
		return
	}

	input := membro.AtualizarInput{
		Nome:        payload.Nome,
		Email:       payload.Email,
		Telefone:    payload.Telefone,
		Endereco:    payload.Endereco,
		Nascimento:  nascimento,
		EstadoCivil: payload.EstadoCivil,
		Conjuge:     payload.Conjuge,
		Casamento:   casamento,
		Filhos:      payload.Filhos,
		Sacramentos: payload.Sacramentos,
		FotoURL:     payload.FotoURL,
	}

	atualizado, err := h.membros.Atualizar(r.Context(), usuario.ID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, atualizado)
}

func (h *Handler) ExcluirMembro(w http.ResponseWriter, r *http.Request) {
	if err := h.membros.Excluir(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removido"})
}

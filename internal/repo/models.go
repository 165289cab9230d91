package repo

import "time"

// Papéis reconhecidos pela pastoral. Os valores são persistidos como texto
// e comparados sempre em maiúsculas.
const (
	PapelAdmin           = "ADMIN"
	PapelSecretaria      = "SECRETARY"
	PapelFinanceiro      = "FINANCE"
	PapelMembro          = "MEMBER"
	PapelCoordenador     = "COORDENADOR"
	PapelViceCoordenador = "VICE_COORDENADOR"
	PapelCelebrante      = "CELEBRANTE"
)

// Usuario representa um membro da pastoral. O ID é o identificador estável
// emitido pelo provedor de identidade (texto, não sequencial).
type Usuario struct {
	ID          string          `json:"id"`
	Papel       string          `json:"papel"`
	Nome        string          `json:"nome"`
	Email       string          `json:"email"`
	Telefone    *string         `json:"telefone,omitempty"`
	Ativo       bool            `json:"ativo"`
	Endereco    *string         `json:"endereco,omitempty"`
	Nascimento  *time.Time      `json:"nascimento,omitempty"`
	EstadoCivil *string         `json:"estado_civil,omitempty"`
	Conjuge     *string         `json:"conjuge,omitempty"`
	Casamento   *time.Time      `json:"casamento,omitempty"`
	Filhos      []string        `json:"filhos"`
	Sacramentos map[string]bool `json:"sacramentos"`
	FotoURL     *string         `json:"foto_url,omitempty"`
	CriadoEm    time.Time       `json:"criado_em"`
}

// Gestor indica se o usuário pode administrar escalas e cadastros.
func (u *Usuario) Gestor() bool {
	return u != nil && (u.Papel == PapelAdmin || u.Papel == PapelSecretaria)
}

// Admin indica papel de administrador.
func (u *Usuario) Admin() bool {
	return u != nil && u.Papel == PapelAdmin
}

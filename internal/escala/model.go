package escala

import "time"

// Status de presença de um membro escalado.
const (
	StatusPendente   = "pendente"
	StatusConfirmado = "confirmado"
	StatusAusente    = "ausente"
)

// Escala vincula um membro da pastoral a uma celebração de batismo.
type Escala struct {
	ID        int64     `json:"id"`
	BatismoID int64     `json:"batismo_id"`
	UsuarioID string    `json:"usuario_id"`
	Funcao    string    `json:"funcao"`
	Status    string    `json:"status"`
	CriadoEm  time.Time `json:"criado_em"`
}

// Detalhe acrescenta os dados de exibição do membro escalado.
type Detalhe struct {
	Escala
	UsuarioNome  string `json:"usuario_nome"`
	UsuarioPapel string `json:"usuario_papel"`
}

// StatusValido confere o texto contra o enum de presença.
func StatusValido(status string) bool {
	switch status {
	case StatusPendente, StatusConfirmado, StatusAusente:
		return true
	}
	return false
}

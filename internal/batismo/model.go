package batismo

import "time"

// Status de acompanhamento do batismo. A API aceita qualquer transição entre
// eles; o fluxo usual é Solicitado → Em Triagem → Agendado → Concluído.
const (
	StatusSolicitado = "Solicitado"
	StatusEmTriagem  = "Em Triagem"
	StatusAgendado   = "Agendado"
	StatusConcluido  = "Concluído"
)

// Faixa etária do batizando exposta como enum nomeado. A coluna legada guarda
// smallint (0 = criança, 1 = adulto); a tradução fica restrita à persistência.
const (
	FaixaCrianca = "crianca"
	FaixaAdulto  = "adulto"
)

// Batismo representa o registro de um batismo acompanhado pela pastoral.
type Batismo struct {
	ID             int64      `json:"id"`
	Status         string     `json:"status"`
	Data           *time.Time `json:"data,omitempty"`
	CelebranteID   *string    `json:"celebrante_id,omitempty"`
	CursoConcluido bool       `json:"curso_concluido"`
	DocumentosOK   bool       `json:"documentos_ok"`
	Batizando      string     `json:"batizando"`
	Mae            *string    `json:"mae,omitempty"`
	Pai            *string    `json:"pai,omitempty"`
	Padrinho       *string    `json:"padrinho,omitempty"`
	Madrinha       *string    `json:"madrinha,omitempty"`
	Sexo           *string    `json:"sexo,omitempty"`
	FaixaEtaria    *string    `json:"faixa_etaria,omitempty"`
	Cidade         *string    `json:"cidade,omitempty"`
	Observacoes    *string    `json:"observacoes,omitempty"`
	CriadoEm       time.Time  `json:"criado_em"`
}

// StatusValido confere se o texto corresponde a um status conhecido.
func StatusValido(status string) bool {
	switch status {
	case StatusSolicitado, StatusEmTriagem, StatusAgendado, StatusConcluido:
		return true
	}
	return false
}

// CodigoFaixa traduz o enum exposto para o smallint legado.
func CodigoFaixa(faixa string) (int16, bool) {
	switch faixa {
	case FaixaCrianca:
		return 0, true
	case FaixaAdulto:
		return 1, true
	}
	return 0, false
}

// FaixaDoCodigo traduz o smallint legado para o enum exposto. Códigos
// desconhecidos viram ausência de faixa.
func FaixaDoCodigo(codigo *int16) *string {
	if codigo == nil {
		return nil
	}
	var faixa string
	switch *codigo {
	case 0:
		faixa = FaixaCrianca
	case 1:
		faixa = FaixaAdulto
	default:
		return nil
	}
	return &faixa
}

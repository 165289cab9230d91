package repo

import "encoding/json"

// As colunas filhos e sacramentos são texto com JSON serializado herdado do
// cadastro original. Conteúdo ausente ou malformado vira valor vazio, nunca erro.

// ParseFilhos decodifica a lista de filhos armazenada como texto.
func ParseFilhos(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var filhos []string
	if err := json.Unmarshal([]byte(*raw), &filhos); err != nil {
		return []string{}
	}
	if filhos == nil {
		return []string{}
	}
	return filhos
}

// ParseSacramentos decodifica o mapa de sacramentos armazenado como texto.
func ParseSacramentos(raw *string) map[string]bool {
	if raw == nil || *raw == "" {
		return map[string]bool{}
	}
	var sacramentos map[string]bool
	if err := json.Unmarshal([]byte(*raw), &sacramentos); err != nil {
		return map[string]bool{}
	}
	if sacramentos == nil {
		return map[string]bool{}
	}
	return sacramentos
}

// EncodeFilhos serializa a lista para persistência.
func EncodeFilhos(filhos []string) string {
	if filhos == nil {
		filhos = []string{}
	}
	b, err := json.Marshal(filhos)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// EncodeSacramentos serializa o mapa para persistência.
func EncodeSacramentos(sacramentos map[string]bool) string {
	if sacramentos == nil {
		sacramentos = map[string]bool{}
	}
	b, err := json.Marshal(sacramentos)
	if err != nil {
		return "{}"
	}
	return string(b)
}

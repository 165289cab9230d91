package http

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro que o painel da pastoral interpreta. AUTH dispara o
// redirecionamento para login; os demais viram mensagens ao usuário.
const (
	CodAuth       = "AUTH"
	CodForbidden  = "FORBIDDEN"
	CodValidation = "VALIDATION"
	CodNotFound   = "NOT_FOUND"
	CodConflict   = "CONFLICT"
	CodRateLimit  = "RATE_LIMIT"
	CodInternal   = "INTERNAL"
)

// SuccessEnvelope embala o resultado de uma operação bem-sucedida.
// Error sai sempre nulo para o cliente distinguir pelo mesmo formato.
type SuccessEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

// ErrorEnvelope embala falhas no mesmo formato do sucesso, com Data nulo.
type ErrorEnvelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

// ErrorBody descreve a falha: um dos códigos acima, mensagem em português
// e detalhes opcionais por campo.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON escreve o envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Data: data, Error: nil})
}

// WriteError escreve o envelope de erro.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Data:  nil,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

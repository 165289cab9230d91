package repo

import "errors"

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrConflito é retornado quando uma restrição de unicidade ou vínculo impede a operação.
	ErrConflito = errors.New("operação conflita com registros existentes")
)

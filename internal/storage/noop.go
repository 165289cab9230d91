package storage

import (
	"context"
	"errors"
)

// ErrNaoConfigurado indica que nenhum backend de arquivos foi configurado.
var ErrNaoConfigurado = errors.New("storage: uploader não configurado")

// NoopUploader rejeita qualquer upload. Usado quando o provedor é "none".
type NoopUploader struct{}

func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, ErrNaoConfigurado
}

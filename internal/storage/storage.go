package storage

import "context"

// UploadInput é um arquivo a persistir.
type UploadInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// UploadResult descreve o arquivo persistido.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader define o armazenamento de anexos (fotos, comprovantes, materiais).
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader grava os arquivos no disco do servidor. É o backend padrão
// para paróquias sem bucket próprio; os arquivos saem pela rota pública
// configurada.
type LocalUploader struct {
	dir       string
	publicURL string
}

func NewLocalUploader(dir, publicURL string) (*LocalUploader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage: diretório de upload ausente")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: preparar diretório: %w", err)
	}
	return &LocalUploader{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimLeft(strings.TrimSpace(input.Key), "/")
	if key == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}
	if strings.Contains(key, "..") {
		return nil, errors.New("storage: chave do objeto inválida")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	destino := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destino), 0o755); err != nil {
		return nil, fmt.Errorf("storage: preparar diretório: %w", err)
	}
	if err := os.WriteFile(destino, input.Body, 0o644); err != nil {
		return nil, fmt.Errorf("storage: gravar arquivo: %w", err)
	}

	return &UploadResult{URL: u.publicURL + "/" + key}, nil
}

// Dir expõe o diretório servido pela rota pública de arquivos.
func (u *LocalUploader) Dir() string {
	return u.dir
}

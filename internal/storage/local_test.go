package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalUploaderGravaEExpoeURL(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir, "/files/")
	if err != nil {
		t.Fatalf("criar uploader: %v", err)
	}

	res, err := up.Upload(context.Background(), UploadInput{
		Key:         "uploads/2026/08/foto.png",
		Body:        []byte{0x89, 'P', 'N', 'G'},
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "/files/uploads/2026/08/foto.png" {
		t.Fatalf("URL inesperada: %s", res.URL)
	}

	gravado, err := os.ReadFile(filepath.Join(dir, "uploads", "2026", "08", "foto.png"))
	if err != nil {
		t.Fatalf("ler arquivo gravado: %v", err)
	}
	if len(gravado) != 4 {
		t.Fatalf("conteúdo inesperado: %v", gravado)
	}
}

func TestLocalUploaderRejeitaChaveInvalida(t *testing.T) {
	up, err := NewLocalUploader(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("criar uploader: %v", err)
	}

	cases := []struct {
		name string
		key  string
		body []byte
	}{
		{"chave vazia", "  ", []byte("x")},
		{"escapa do diretório", "../fora.txt", []byte("x")},
		{"corpo vazio", "uploads/a.txt", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := up.Upload(context.Background(), UploadInput{Key: tc.key, Body: tc.body}); err == nil {
				t.Fatal("esperava erro")
			}
		})
	}
}

package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
	"github.com/pastoralbatismo/paroquia/internal/storage"
	"github.com/pastoralbatismo/paroquia/internal/upload"
)

// Extensão canônica por tipo aceito. Detecção pelo conteúdo, não pelo nome.
var tiposAceitos = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Upload recebe um arquivo multipart no campo "file", valida tipo e tamanho
// e devolve a URL pública.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Storage.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, http.StatusBadRequest, CodValidation,
			fmt.Sprintf("arquivo excede o limite de %dMB", h.cfg.Storage.MaxUploadMB), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodValidation, "campo file ausente", nil)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodInternal, "não foi possível ler o arquivo", nil)
		return
	}
	if len(body) == 0 {
		WriteError(w, http.StatusBadRequest, CodValidation, "arquivo vazio", nil)
		return
	}

	contentType := http.DetectContentType(body)
	ext, ok := tiposAceitos[contentType]
	if !ok {
		WriteError(w, http.StatusBadRequest, CodValidation, "tipo de arquivo não permitido", nil)
		return
	}

	agora := time.Now()
	key := fmt.Sprintf("uploads/%04d/%02d/%s%s", agora.Year(), agora.Month(), uuid.NewString(), ext)

	result, err := h.storage.Upload(r.Context(), storage.UploadInput{
		Key:         key,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodInternal, "não foi possível salvar o arquivo", nil)
		return
	}

	var autorID *string
	if usuario := httpmiddleware.GetUsuario(r.Context()); usuario != nil {
		autorID = &usuario.ID
	}
	nomeOriginal := strings.TrimSpace(filepath.Base(header.Filename))
	err = h.arquivos.Registrar(r.Context(), upload.Registro{
		Chave:        key,
		URL:          result.URL,
		NomeOriginal: nomeOriginal,
		ContentType:  contentType,
		Tamanho:      int64(len(body)),
		AutorID:      autorID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"url":           result.URL,
		"nome":          filepath.Base(key),
		"nome_original": nomeOriginal,
		"content_type":  contentType,
		"tamanho":       len(body),
	})
}

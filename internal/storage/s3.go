package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// S3Config aponta para um bucket compatível com S3 (AWS, R2, MinIO).
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicDomain string
	HTTPClient   *http.Client
}

func (cfg S3Config) validate() error {
	faltando := ""
	switch {
	case strings.TrimSpace(cfg.Endpoint) == "":
		faltando = "endpoint"
	case strings.TrimSpace(cfg.Region) == "":
		faltando = "região"
	case strings.TrimSpace(cfg.Bucket) == "":
		faltando = "bucket"
	case strings.TrimSpace(cfg.AccessKey) == "":
		faltando = "access key"
	case strings.TrimSpace(cfg.SecretKey) == "":
		faltando = "secret key"
	}
	if faltando != "" {
		return fmt.Errorf("storage: %s do S3 ausente", faltando)
	}
	if !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return errors.New("storage: endpoint deve incluir protocolo http/https")
	}
	return nil
}

// S3Uploader envia objetos por PUT assinado com SigV4, sem SDK.
type S3Uploader struct {
	cfg    S3Config
	client *http.Client
}

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &S3Uploader{cfg: cfg, client: client}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	key := strings.TrimLeft(strings.TrimSpace(input.Key), "/")
	if key == "" {
		return nil, errors.New("storage: chave do objeto obrigatória")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	escapedKey := (&url.URL{Path: key}).EscapedPath()
	destino := fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, escapedKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, destino, bytes.NewReader(input.Body))
	if err != nil {
		return nil, err
	}

	hashCorpo := sha256.Sum256(input.Body)
	hashHex := hex.EncodeToString(hashCorpo[:])

	req.ContentLength = int64(len(input.Body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-amz-content-sha256", hashHex)

	u.assinar(req, hashHex, time.Now().UTC())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage: upload falhou (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	publicURL := destino
	if strings.TrimSpace(u.cfg.PublicDomain) != "" {
		publicURL = strings.TrimRight(u.cfg.PublicDomain, "/") + "/" + escapedKey
	}

	return &UploadResult{
		URL:  publicURL,
		ETag: strings.Trim(resp.Header.Get("ETag"), `"`),
	}, nil
}

// assinar monta o cabeçalho Authorization no formato AWS4-HMAC-SHA256.
// Assina somente host, x-amz-content-sha256 e x-amz-date, o suficiente para
// PUT de objeto em qualquer provedor compatível.
func (u *S3Uploader) assinar(req *http.Request, hashCorpo string, agora time.Time) {
	amzDate := agora.Format("20060102T150405Z")
	dataCurta := agora.Format("20060102")

	req.Header.Set("x-amz-date", amzDate)

	assinados := []string{"host", "x-amz-content-sha256", "x-amz-date"}
	linhas := []string{
		"host:" + req.URL.Host,
		"x-amz-content-sha256:" + hashCorpo,
		"x-amz-date:" + amzDate,
	}

	canonica := strings.Join([]string{
		req.Method,
		caminhoCanonico(req.URL.Path),
		consultaCanonica(req.URL.Query()),
		strings.Join(linhas, "\n") + "\n",
		strings.Join(assinados, ";"),
		hashCorpo,
	}, "\n")

	hashCanonica := sha256.Sum256([]byte(canonica))

	escopo := fmt.Sprintf("%s/%s/s3/aws4_request", dataCurta, u.cfg.Region)
	textoParaAssinar := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		escopo,
		hex.EncodeToString(hashCanonica[:]),
	}, "\n")

	chave := []byte("AWS4" + u.cfg.SecretKey)
	for _, parte := range []string{dataCurta, u.cfg.Region, "s3", "aws4_request"} {
		chave = hmacSHA256(chave, []byte(parte))
	}
	assinatura := hex.EncodeToString(hmacSHA256(chave, []byte(textoParaAssinar)))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		u.cfg.AccessKey, escopo, strings.Join(assinados, ";"), assinatura,
	))
}

func caminhoCanonico(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return codificarURI(path, false)
}

func consultaCanonica(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	chaves := make([]string, 0, len(values))
	for k := range values {
		chaves = append(chaves, k)
	}
	sort.Strings(chaves)

	var partes []string
	for _, k := range chaves {
		vals := append([]string(nil), values[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			partes = append(partes, codificarURI(k, true)+"="+codificarURI(v, true))
		}
	}
	return strings.Join(partes, "&")
}

func codificarURI(entrada string, codificarBarra bool) string {
	var b strings.Builder
	for i := 0; i < len(entrada); i++ {
		c := entrada[i]
		switch {
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'),
			c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		case c == '/' && !codificarBarra:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func hmacSHA256(chave, dados []byte) []byte {
	mac := hmac.New(sha256.New, chave)
	mac.Write(dados)
	return mac.Sum(nil)
}

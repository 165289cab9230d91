package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalido cobre token ausente de assinatura válida, expirado ou
// rejeitado pelo provedor. Detalhes da verificação não vazam para o cliente.
var ErrTokenInvalido = errors.New("token de acesso inválido")

// Perfil reúne os atributos mínimos expostos pelo provedor de identidade.
type Perfil struct {
	ID    string
	Nome  string
	Email string
}

// Provider define o contato com o provedor externo de identidade.
type Provider interface {
	// Verify valida o token e devolve o id externo estável do usuário.
	Verify(ctx context.Context, token string) (string, error)
	// Profile busca atributos de exibição para provisionamento.
	Profile(ctx context.Context, token string) (Perfil, error)
}

// ClientConfig descreve credenciais essenciais para o cliente.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	JWTSecret  string
	HTTPClient *http.Client
}

// Client encapsula chamadas ao provedor de identidade. Os tokens de acesso
// são JWT HS256 assinados com segredo compartilhado; a verificação acontece
// localmente e apenas o provisionamento consulta a API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secret     []byte
}

// NewClient cria um novo cliente do provedor.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("identity: base url obrigatória")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("identity: segredo JWT obrigatório")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		httpClient: client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		secret:     []byte(cfg.JWTSecret),
	}, nil
}

// Verify confere assinatura e expiração do token e extrai o subject.
func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalido
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrTokenInvalido
	}

	return claims.Subject, nil
}

// Profile consulta o endpoint de usuário do provedor com o próprio token.
func (c *Client) Profile(ctx context.Context, token string) (Perfil, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Perfil{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Perfil{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Perfil{}, ErrTokenInvalido
	}
	if resp.StatusCode != http.StatusOK {
		return Perfil{}, fmt.Errorf("identity: perfil retornou status %d", resp.StatusCode)
	}

	var payload struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
		} `json:"user_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Perfil{}, err
	}

	nome := strings.TrimSpace(payload.UserMetadata.FullName)
	if nome == "" {
		nome = strings.TrimSpace(payload.UserMetadata.Name)
	}
	if nome == "" {
		if at := strings.Index(payload.Email, "@"); at > 0 {
			nome = payload.Email[:at]
		} else {
			nome = payload.Email
		}
	}

	return Perfil{ID: payload.ID, Nome: nome, Email: payload.Email}, nil
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pastoralbatismo/paroquia/internal/identity"
	"github.com/pastoralbatismo/paroquia/internal/repo"
)

type contextKey string

const ContextKeyUsuario contextKey = "usuario"

// Mensagens fixas de gate: o cliente casa com elas para decidir redirecionar
// ao login. Não variar entre caminhos de código.
const (
	MsgNaoAutenticado = "não autenticado"
	MsgSomenteAdmin   = "acesso restrito a administradores"
	MsgPapelNegado    = "acesso negado para o papel atual"
)

// Resolver mapeia o cabeçalho Authorization para um membro local.
type Resolver interface {
	Resolve(ctx context.Context, authorization string) (*repo.Usuario, error)
}

// Identity resolve o usuário atual (possivelmente nulo) e injeta no contexto.
// Token inválido encerra a requisição; ausência de token segue anônima.
func Identity(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usuario, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, identity.ErrTokenInvalido) {
					writeError(w, http.StatusUnauthorized, "AUTH", MsgNaoAutenticado)
					return
				}
				log.Error().Err(err).Str("path", r.URL.Path).Msg("falha ao resolver identidade")
				writeError(w, http.StatusInternalServerError, "INTERNAL", "erro ao resolver identidade")
				return
			}

			if usuario != nil {
				RegistrarUsuario(r.Context(), usuario.ID)
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyUsuario, usuario))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUsuario recupera o usuário autenticado do contexto; nil quando anônimo.
func GetUsuario(ctx context.Context) *repo.Usuario {
	val, _ := ctx.Value(ContextKeyUsuario).(*repo.Usuario)
	return val
}

// RequireUser exige usuário autenticado.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUsuario(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "AUTH", MsgNaoAutenticado)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin exige papel ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario := GetUsuario(r.Context())
		if usuario == nil {
			writeError(w, http.StatusUnauthorized, "AUTH", MsgNaoAutenticado)
			return
		}
		if !usuario.Admin() {
			writeError(w, http.StatusForbidden, "FORBIDDEN", MsgSomenteAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles exige pelo menos um dos papéis informados.
func RequireRoles(requiredRoles ...string) func(http.Handler) http.Handler {
	normalized := make([]string, 0, len(requiredRoles))
	for _, role := range requiredRoles {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role != "" {
			normalized = append(normalized, role)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			usuario := GetUsuario(r.Context())
			if usuario == nil {
				writeError(w, http.StatusUnauthorized, "AUTH", MsgNaoAutenticado)
				return
			}

			papel := strings.ToUpper(strings.TrimSpace(usuario.Papel))
			for _, required := range normalized {
				if papel == required {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "FORBIDDEN", MsgPapelNegado)
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

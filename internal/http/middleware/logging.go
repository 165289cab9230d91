package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const contextKeyLogCampos contextKey = "log_campos"

// logCampos acumula dados resolvidos durante a requisição para o log final.
// O ponteiro entra no contexto antes dos demais middlewares rodarem.
type logCampos struct {
	usuarioID string
}

// RegistrarUsuario anota o membro resolvido no log da requisição corrente.
func RegistrarUsuario(ctx context.Context, usuarioID string) {
	if campos, ok := ctx.Value(contextKeyLogCampos).(*logCampos); ok {
		campos.usuarioID = usuarioID
	}
}

// Logging escreve uma linha estruturada por requisição atendida.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		campos := &logCampos{}
		r = r.WithContext(context.WithValue(r.Context(), contextKeyLogCampos, campos))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		inicio := time.Now()

		next.ServeHTTP(ww, r)

		evento := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(inicio))

		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			evento = evento.Str("request_id", reqID)
		}
		if campos.usuarioID != "" {
			evento = evento.Str("usuario_id", campos.usuarioID)
		}

		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			evento = evento.Str("ip", ip)
		} else {
			evento = evento.Str("ip", r.RemoteAddr)
		}
		if ua := r.Header.Get("User-Agent"); ua != "" {
			evento = evento.Str("user_agent", ua)
		}

		evento.Msg("requisicao")
	})
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pastoralbatismo/paroquia/internal/agenda"
	"github.com/pastoralbatismo/paroquia/internal/batismo"
	"github.com/pastoralbatismo/paroquia/internal/comunicacao"
	"github.com/pastoralbatismo/paroquia/internal/config"
	"github.com/pastoralbatismo/paroquia/internal/escala"
	"github.com/pastoralbatismo/paroquia/internal/financeiro"
	httpmiddleware "github.com/pastoralbatismo/paroquia/internal/http/middleware"
	"github.com/pastoralbatismo/paroquia/internal/membro"
	"github.com/pastoralbatismo/paroquia/internal/painel"
	"github.com/pastoralbatismo/paroquia/internal/repo"
	"github.com/pastoralbatismo/paroquia/internal/settings"
	"github.com/pastoralbatismo/paroquia/internal/storage"
	"github.com/pastoralbatismo/paroquia/internal/upload"
)

// EscalaService isola as regras de escala consumidas pelos handlers.
type EscalaService interface {
	Escalar(ctx context.Context, batismoID int64, usuarioID, funcao string) (escala.Escala, error)
	Remover(ctx context.Context, id int64) error
	ListarPorBatismo(ctx context.Context, batismoID int64) ([]escala.Detalhe, error)
	AtualizarPresenca(ctx context.Context, id int64, status string, actor *repo.Usuario) (escala.Escala, error)
}

// PainelService isola as agregações consumidas pelos handlers do painel.
type PainelService interface {
	Resumo(ctx context.Context) (painel.Resumo, error)
	EscalaPresenca(ctx context.Context) ([]painel.BatismoEscalado, error)
	Evolucao(ctx context.Context, filtro painel.FiltroEvolucao) ([]painel.PontoMes, error)
	MetaAnual(ctx context.Context) (int, error)
	DefinirMetaAnual(ctx context.Context, meta int) error
	FinanceiroBI(ctx context.Context, meses int) ([]painel.PontoCaixa, error)
}

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	membros       *membro.Repository
	batismos      *batismo.Repository
	escalas       EscalaService
	caixa         *financeiro.Repository
	agenda        *agenda.Repository
	avisos        *comunicacao.Repository
	painel        PainelService
	storage       storage.Uploader
	arquivos      *upload.Repository
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, resolver httpmiddleware.Resolver) (http.Handler, error) {
	escalaRepo := escala.NewRepository(pool)
	financeiroRepo := financeiro.NewRepository(pool)
	settingsRepo := settings.NewRepository(pool)
	painelRepo := painel.NewRepository(pool)

	var uploader storage.Uploader
	var err error
	switch cfg.Storage.Provider {
	case "", "local":
		uploader, err = storage.NewLocalUploader(cfg.Storage.UploadDir, cfg.Storage.PublicURL)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	case "s3", "r2", "cloudflare-r2":
		uploader, err = storage.NewS3Uploader(storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			PublicDomain: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	case "none", "noop":
		uploader = storage.NoopUploader{}
	default:
		return nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		membros:       membro.NewRepository(pool),
		batismos:      batismo.NewRepository(pool),
		escalas:       escala.NewService(escalaRepo),
		caixa:         financeiroRepo,
		agenda:        agenda.NewRepository(pool),
		avisos:        comunicacao.NewRepository(pool),
		painel:        painel.NewService(painelRepo, settingsRepo, financeiroRepo),
		storage:       uploader,
		arquivos:      upload.NewRepository(pool),
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
	})

	if local, ok := uploader.(*storage.LocalUploader); ok {
		fileServer := http.StripPrefix(cfg.Storage.PublicURL+"/", http.FileServer(http.Dir(local.Dir())))
		r.Get(cfg.Storage.PublicURL+"/*", fileServer.ServeHTTP)
	}

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Identity(resolver))
		private.Use(httpmiddleware.RequireUser)
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		gestores := httpmiddleware.RequireRoles(repo.PapelAdmin, repo.PapelSecretaria)
		financeiros := httpmiddleware.RequireRoles(repo.PapelAdmin, repo.PapelFinanceiro)

		private.Get("/me", h.Me)
		private.Patch("/me", h.AtualizarMeuPerfil)
		private.Post("/uploads", h.Upload)

		private.Route("/membros", func(m chi.Router) {
			m.Get("/", h.ListMembros)
			m.Get("/{id}", h.GetMembro)
			m.With(gestores).Post("/", h.CriarMembro)
			m.With(gestores).Patch("/{id}", h.AtualizarMembro)
			m.With(httpmiddleware.RequireAdmin).Delete("/{id}", h.ExcluirMembro)
		})

		private.Route("/batismos", func(b chi.Router) {
			b.Get("/", h.ListBatismos)
			b.Get("/cidades", h.ListCidades)
			b.Get("/{id}", h.GetBatismo)
			b.Get("/{id}/escala", h.ListEscala)
			b.With(gestores).Post("/", h.CriarBatismo)
			b.With(gestores).Patch("/{id}", h.AtualizarBatismo)
			b.With(gestores).Delete("/{id}", h.ExcluirBatismo)
			b.With(gestores).Post("/{id}/escala", h.CriarEscala)
		})

		private.Route("/escalas", func(e chi.Router) {
			e.Patch("/{id}/presenca", h.AtualizarPresenca)
			e.With(gestores).Delete("/{id}", h.RemoverEscala)
		})

		private.Route("/financeiro", func(f chi.Router) {
			f.Use(financeiros)
			f.Get("/", h.ListTransacoes)
			f.Get("/resumo", h.ResumoFinanceiro)
			f.Post("/", h.CriarTransacao)
			f.Patch("/{id}", h.AtualizarTransacao)
			f.Delete("/{id}", h.ExcluirTransacao)
		})

		private.Route("/agenda", func(a chi.Router) {
			a.Get("/reunioes", h.ListReunioes)
			a.Get("/eventos", h.ListEventos)
			a.Get("/formacoes", h.ListFormacoes)
			a.With(gestores).Post("/reunioes", h.CriarReuniao)
			a.With(gestores).Patch("/reunioes/{id}", h.AtualizarReuniao)
			a.With(gestores).Delete("/reunioes/{id}", h.ExcluirReuniao)
			a.With(gestores).Post("/eventos", h.CriarEvento)
			a.With(gestores).Patch("/eventos/{id}", h.AtualizarEvento)
			a.With(gestores).Delete("/eventos/{id}", h.ExcluirEvento)
			a.With(gestores).Post("/formacoes", h.CriarFormacao)
			a.With(gestores).Patch("/formacoes/{id}", h.AtualizarFormacao)
			a.With(gestores).Delete("/formacoes/{id}", h.ExcluirFormacao)
		})

		private.Route("/comunicados", func(c chi.Router) {
			c.Get("/", h.ListComunicados)
			c.With(gestores).Post("/", h.CriarComunicado)
			c.With(gestores).Patch("/{id}", h.AtualizarComunicado)
			c.With(gestores).Delete("/{id}", h.ExcluirComunicado)
		})

		private.Route("/solicitacoes", func(s chi.Router) {
			s.Get("/", h.ListSolicitacoes)
			s.Post("/", h.CriarSolicitacao)
			s.With(gestores).Patch("/{id}", h.AtualizarSolicitacao)
			s.With(gestores).Delete("/{id}", h.ExcluirSolicitacao)
		})

		private.Route("/painel", func(p chi.Router) {
			p.Get("/resumo", h.PainelResumo)
			p.Get("/escala-presenca", h.PainelEscalaPresenca)
			p.Get("/evolucao", h.PainelEvolucao)
			p.Get("/meta", h.PainelMeta)
			p.With(httpmiddleware.RequireAdmin).Put("/meta", h.PainelDefinirMeta)
			p.With(financeiros).Get("/financeiro", h.PainelFinanceiro)
		})
	})

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, CodInternal, "dependências indisponíveis", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Me devolve o membro autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	usuario := httpmiddleware.GetUsuario(r.Context())
	WriteJSON(w, http.StatusOK, usuario)
}

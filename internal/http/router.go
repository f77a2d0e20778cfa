package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lojasocial-ipb/api/internal/anoletivo"
	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/auditoria"
	"github.com/lojasocial-ipb/api/internal/beneficiario"
	"github.com/lojasocial-ipb/api/internal/campanha"
	"github.com/lojasocial-ipb/api/internal/colaborador"
	"github.com/lojasocial-ipb/api/internal/config"
	"github.com/lojasocial-ipb/api/internal/conta"
	"github.com/lojasocial-ipb/api/internal/entrega"
	httpmiddleware "github.com/lojasocial-ipb/api/internal/http/middleware"
	"github.com/lojasocial-ipb/api/internal/inscricao"
	"github.com/lojasocial-ipb/api/internal/notificacao"
	"github.com/lojasocial-ipb/api/internal/pedido"
	"github.com/lojasocial-ipb/api/internal/service"
	"github.com/lojasocial-ipb/api/internal/stock"
	"github.com/lojasocial-ipb/api/internal/storage"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	anosLetivos   *anoletivo.Service
	beneficiarios *beneficiario.Service
	stock         *stock.Service
	campanhas     *campanha.Service
	entregas      *entrega.Service
	pedidos       *pedido.Service
	colaboradores *colaborador.Service
	auditoria     *auditoria.Service
	notificacoes  *notificacao.Service
	inscricoes    *inscricao.Service
	contas        *conta.Service
	storage       storage.Uploader
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	devCookies    bool
}

// auditWriter adapta o serviço de auditoria ao contrato consumido pelos
// serviços de domínio.
type auditWriter struct {
	svc *auditoria.Service
}

func (a auditWriter) Registar(ctx context.Context, acao, detalhe, utilizador string) error {
	_, err := a.svc.Registar(ctx, acao, detalhe, utilizador)
	return err
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, error) {
	devCookies := false
	for _, origin := range cfg.AllowOrigins {
		if strings.Contains(origin, "localhost") {
			devCookies = true
			break
		}
	}

	var uploader storage.Uploader = storage.NoopUploader{}
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3Uploader(storage.S3Config{
			Endpoint:     cfg.Storage.Endpoint,
			Region:       cfg.Storage.Region,
			Bucket:       cfg.Storage.Bucket,
			AccessKey:    cfg.Storage.AccessKey,
			SecretKey:    cfg.Storage.SecretKey,
			PublicDomain: cfg.Storage.PublicDomain,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		uploader = s3
	}

	auditService := auditoria.NewService(auditoria.NewRepository(pool), redisClient)
	audit := auditWriter{svc: auditService}

	anoService := anoletivo.NewService(anoletivo.NewRepository(pool), redisClient)
	benService := beneficiario.NewService(beneficiario.NewRepository(pool))
	stockService := stock.NewService(stock.NewRepository(pool))
	campService := campanha.NewService(campanha.NewRepository(pool), audit)
	entService := entrega.NewService(entrega.NewRepository(pool))
	notifService := notificacao.NewService(notificacao.NewRepository(pool), redisClient)
	pedService := pedido.NewService(pedido.NewRepository(pool), uploader, notifService)
	contaService := conta.NewService(conta.NewRepository(pool))
	colabService := colaborador.NewService(colaborador.NewRepository(pool), contaService, audit, redisClient)
	inscService := inscricao.NewService(contaService, uploader, benService, pedService)

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		anosLetivos:   anoService,
		beneficiarios: benService,
		stock:         stockService,
		campanhas:     campService,
		entregas:      entService,
		pedidos:       pedService,
		colaboradores: colabService,
		auditoria:     auditService,
		notificacoes:  notifService,
		inscricoes:    inscService,
		contas:        contaService,
		storage:       uploader,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		devCookies:    devCookies,
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

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})

		public.Post("/v1/inscricoes", h.RegisterBeneficiario)
		public.Get("/v1/campanhas", h.ListCampanhas)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)
		private.Post("/me/dispositivo", h.RegisterDispositivo)

		private.Group(func(meu chi.Router) {
			meu.Use(httpmiddleware.RequirePapel(service.PapelBeneficiario))
			meu.Get("/v1/meus/pedidos", h.ListMeusPedidos)
			meu.Get("/v1/meus/entregas", h.ListMinhasEntregas)
		})

		private.Group(func(equipe chi.Router) {
			equipe.Use(httpmiddleware.RequirePapel(service.PapelColaborador))

			equipe.Route("/v1/beneficiarios", func(b chi.Router) {
				b.Get("/", h.ListBeneficiarios)
				b.Post("/", h.AddBeneficiario)
				b.Get("/{id}", h.GetBeneficiario)
				b.Patch("/{id}", h.UpdateBeneficiario)
				b.Patch("/{id}/estado", h.UpdateBeneficiarioEstado)
				b.Get("/{id}/pedidos", h.ListPedidosDoBeneficiario)
				b.Get("/{id}/entregas", h.ListEntregasDoBeneficiario)
			})

			equipe.Route("/v1/anos-letivos", func(a chi.Router) {
				a.Get("/", h.ListAnosLetivos)
				a.Post("/", h.CreateAnoLetivo)
				a.Get("/stream", h.StreamAnosLetivos)
			})

			equipe.Route("/v1/stock", func(s chi.Router) {
				s.Get("/produtos", h.ListProdutos)
				s.Post("/produtos", h.AddProduto)
				s.Get("/itens", h.ListItens)
				s.Post("/itens", h.AddItem)
				s.Patch("/itens/{id}/quantidade", h.UpdateQuantidade)
				s.Get("/expirando", h.ListExpirando)
			})

			equipe.Route("/v1/campanhas", func(c chi.Router) {
				c.Post("/", h.AddCampanha)
				c.Get("/{id}", h.GetCampanha)
				c.Patch("/{id}/estado", h.UpdateCampanhaEstado)
			})

			equipe.Route("/v1/entregas", func(e chi.Router) {
				e.Get("/", h.ListEntregas)
				e.Post("/", h.AddEntrega)
				e.Get("/proximas", h.ListEntregasProximas)
				e.Get("/{id}", h.GetEntrega)
				e.Patch("/{id}/estado", h.UpdateEntregaEstado)
				e.Patch("/{id}/itens", h.UpdateEntregaItens)
				e.Post("/{id}/concretizar", h.MarcarEntregue)
			})

			equipe.Route("/v1/pedidos", func(p chi.Router) {
				p.Get("/", h.ListPedidos)
				p.Get("/detalhes", h.ListPedidosComDetalhes)
				p.Get("/{id}", h.GetPedido)
				p.Patch("/{id}/estado", h.UpdatePedidoEstado)
				p.Post("/{id}/documentos", h.AnexarDocumento)
			})

			equipe.Route("/v1/colaboradores", func(c chi.Router) {
				c.Get("/", h.ListColaboradores)
				c.Post("/", h.AddColaborador)
				c.Post("/{uid}/toggle", h.ToggleColaborador)
				c.Get("/stream", h.StreamColaboradores)
			})

			equipe.Route("/v1/logs", func(l chi.Router) {
				l.Get("/", h.ListLogs)
				l.Get("/stream", h.StreamLogs)
			})

			equipe.Route("/v1/notificacoes", func(n chi.Router) {
				n.Get("/", h.ListNotificacoes)
				n.Get("/stream", h.StreamNotificacoes)
			})
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
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", map[string]any{
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

// Login autentica pelo par email/senha.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Senha)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Refresh troca refresh token por novos tokens.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := getRefreshFromRequest(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "refresh ausente", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh inválido", nil)
			return
		}
		if errors.Is(err, apperr.ErrRoleNotFound) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao renovar sessão", nil)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Logout revoga refresh token atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := getRefreshFromRequest(r); err == nil {
		_ = h.authService.Logout(r.Context(), token)
	}

	h.clearRefreshCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me retorna papel e perfil do utilizador autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	papel, perfil, err := h.authService.GetMe(r.Context(), subject)
	if err != nil {
		if errors.Is(err, apperr.ErrRoleNotFound) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar perfil", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":  perfil,
		"papel": papel,
	})
}

// RegisterDispositivo associa o token de push do aparelho à conta.
func (h *Handler) RegisterDispositivo(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.contas.RegistarDispositivo(r.Context(), subject, payload.Token); err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrFormatoCredenciais):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, apperr.ErrRoleNotFound):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao autenticar", nil)
	}
}

// handleDomainError mapeia erros de domínio para o envelope HTTP.
func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	var ue *apperr.UploadError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, "VALIDATION", ve.Error(), nil)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "registro não encontrado", nil)
	case errors.Is(err, stock.ErrStockInsuficiente):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.As(err, &ue):
		WriteError(w, http.StatusBadGateway, "UPLOAD", ue.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

func (h *Handler) writeLoginSuccess(w http.ResponseWriter, result *service.LoginResult) {
	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"papel":        result.Papel,
		"user":         result.Perfil,
	})
}

func (h *Handler) subjectUUID(r *http.Request) (uuid.UUID, error) {
	subjectStr := httpmiddleware.GetSubject(r.Context())
	if strings.TrimSpace(subjectStr) == "" {
		return uuid.Nil, errors.New("subject ausente")
	}
	return uuid.Parse(subjectStr)
}

func idFromURL(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

// ator identifica quem executa a ação, para fins de auditoria.
func ator(r *http.Request) string {
	return httpmiddleware.GetSubject(r.Context())
}

const refreshCookie = "lojasocial_refresh"

func getRefreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("refresh ausente")
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

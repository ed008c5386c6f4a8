package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"shire-of-paws/internal/adapters/auth/shelter"
	"shire-of-paws/internal/adapters/capabilities/roles"
	"shire-of-paws/internal/adapters/shelterapi"
	mem "shire-of-paws/internal/adapters/storage/memory"
	"shire-of-paws/internal/config"
	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dashboard"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/middleware"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/platform/metrics"
	"shire-of-paws/internal/platform/validation"

	_ "shire-of-paws/docs"
)

type Options struct {
	Config  *config.Config
	Backend *httpclient.Client

	// Opcionales.
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Sessions nil => in-memory.
	Sessions session.Repository
}

// App es el BFF armado: handler HTTP y el manager de sesiones (para el sweep).
type App struct {
	Handler  http.Handler
	Sessions *session.Manager
}

func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	sessRepo := opts.Sessions
	if sessRepo == nil {
		sessRepo = mem.NewSessionsRepo()
	}

	// Adapters
	api := shelterapi.New(opts.Backend)
	v := validation.New()
	resolver := roles.NewResolver(nil)

	// Services por módulo
	mgr := session.NewManager(sessRepo, shelter.NewClient(opts.Backend), shelter.NewInspector(), session.Options{
		TTL:    cfg.Session.TTL,
		Logger: log,
	})
	dogSvc := dogs.NewService(api.Dogs(), api.Files(), dogs.Options{
		MaxImageBytes: cfg.Uploads.MaxImageBytes,
		FormTTL:       cfg.Forms.DraftTTL,
		Validator:     v,
		Metrics:       opts.Metrics,
		Logger:        log,
	})
	reqSvc := adoptions.NewService(api.Requests(), dogSvc, adoptions.Options{
		FormTTL:   cfg.Forms.DraftTTL,
		Validator: v,
		Metrics:   opts.Metrics,
	})
	dashSvc := dashboard.NewService(dogSvc, reqSvc, opts.Metrics)

	// Lo que cuelga de una sesión muere con ella.
	mgr.OnClear(func(id string, _ session.Reason) {
		dogSvc.DiscardOwner(id)
		dashSvc.Drop(id)
	})

	every := time.Minute
	if cfg.RateLimit.PerMinute > 0 {
		every = time.Minute / time.Duration(cfg.RateLimit.PerMinute)
	}
	loginLimiter := middleware.NewIPRateLimiter(every, cfg.RateLimit.Burst)
	submitLimiter := middleware.NewIPRateLimiter(every, cfg.RateLimit.Burst)
	guard := middleware.RequireCapability(resolver)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log, opts.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SessionContext(mgr, cfg.Session.CookieName))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas públicas
	dogs.RegisterRoutes(r, dogSvc)
	adoptions.RegisterRoutes(r, reqSvc, submitLimiter.Middleware)

	// Admin
	r.Route("/api/admin", func(ar chi.Router) {
		session.RegisterRoutes(ar, mgr, session.HandlerOptions{
			CookieName:   cfg.Session.CookieName,
			SecureCookie: cfg.Session.Secure,
			Capabilities: resolver,
			LoginGuard:   loginLimiter.Middleware,
		})

		ar.Group(func(gr chi.Router) {
			gr.Use(middleware.RequireSession)
			dogs.RegisterAdminRoutes(gr, dogSvc, guard)
			adoptions.RegisterAdminRoutes(gr, reqSvc, guard)
			dashboard.RegisterAdminRoutes(gr, dashSvc, guard)
		})
	})

	return &App{Handler: r, Sessions: mgr}
}

// NewRouter devuelve solo el handler.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

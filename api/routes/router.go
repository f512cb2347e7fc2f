package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/contactbook-backend/api/controllers"
	"github.com/angelmondragon/contactbook-backend/api/middleware"
	"github.com/angelmondragon/contactbook-backend/internal/auth"
	"github.com/angelmondragon/contactbook-backend/internal/contacts"
	"github.com/angelmondragon/contactbook-backend/pkg/auth/session"
	"github.com/angelmondragon/contactbook-backend/pkg/config"
	"github.com/angelmondragon/contactbook-backend/pkg/logger"
	"github.com/angelmondragon/contactbook-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/contactbook-backend/pkg/redis"
)

// RedisStore is the redis surface shared by idempotency, rate limiting and readiness.
type RedisStore interface {
	middleware.IdempotencyStore
	pkgredis.RateLimiter
	controllers.Pinger
}

// Observability groups the optional metrics wiring.
type Observability struct {
	HTTP    *metrics.HTTPMetrics
	Handler http.Handler
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	store RedisStore,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	contactsService contacts.Service,
	obs Observability,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(obs.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var (
		limiter     pkgredis.RateLimiter
		idempotency middleware.IdempotencyStore
	)
	readiness := map[string]controllers.Pinger{"database": dbP}
	if store != nil {
		limiter = store
		idempotency = store
		readiness["redis"] = store
	}
	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if obs.Handler != nil {
		r.Method(http.MethodGet, "/metrics", obs.Handler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, limiter, logg),
			middleware.Idempotency(idempotency, logg),
		).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/contacts", controllers.ContactsList(contactsService, logg))
		r.With(middleware.Idempotency(idempotency, logg)).Post("/contacts", controllers.ContactsCreate(contactsService, logg))
		r.Put("/contacts", controllers.ContactsUpdate(contactsService, logg))
		r.Delete("/contacts", controllers.ContactsDelete(contactsService, logg))
		r.Get("/search", controllers.ContactsSearch(contactsService, logg))
	})

	return r
}

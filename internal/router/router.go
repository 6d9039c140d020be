package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-contact-registry/app/logger"
	appMiddleware "github.com/FACorreiaa/go-contact-registry/app/middleware"
	_ "github.com/FACorreiaa/go-contact-registry/docs"
	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/api/auth"
	"github.com/FACorreiaa/go-contact-registry/internal/api/county"
	"github.com/FACorreiaa/go-contact-registry/internal/api/person"
	"github.com/FACorreiaa/go-contact-registry/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler   *auth.AuthHandler
	CountyHandler *county.HandlerImpl
	PersonHandler *person.HandlerImpl
	UserHandler   *user.HandlerImpl

	// Filter resolves the caller on every request; Policy then admits or rejects it.
	Filter *auth.Filter
	Policy *appMiddleware.Policy

	APIPrefix      string
	AllowedOrigins []string
	// LoginRateLimit caps signup and login attempts per client IP per minute. Zero disables it.
	LoginRateLimit int
	Timeout        time.Duration
	Logger         *slog.Logger
}

// NewHandler builds the complete HTTP handler: server-wide middleware, the
// authentication filter and authorization policy, then the routes.
func NewHandler(cfg *Config) http.Handler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewMux()
	router.Use(appMiddleware.CanonicalPath)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(cfg.Logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", SetupRouter(cfg))
	return router
}

// SetupRouter wires the routes behind CORS, the authentication filter and
// the authorization policy. Access rules live in the policy, not in route groups.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(cfg.Filter.Handler)
	r.Use(cfg.Policy.Handler)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.LoginRateLimit > 0 {
				r.Use(httprate.Limit(cfg.LoginRateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByRealIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many attempts, try again later")
					}),
				))
			}
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", cfg.AuthHandler.Me)
			cfg.UserHandler.Routes(r)
		})
		r.Route("/counties", cfg.CountyHandler.Routes)
		r.Route("/persons", cfg.PersonHandler.Routes)
	})

	return r
}

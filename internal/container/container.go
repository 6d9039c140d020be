package container

import (
	"fmt"
	"log/slog"
	"net/http"

	database "github.com/FACorreiaa/go-contact-registry/app/db"
	appMiddleware "github.com/FACorreiaa/go-contact-registry/app/middleware"
	"github.com/FACorreiaa/go-contact-registry/config"
	"github.com/FACorreiaa/go-contact-registry/internal/api/auth"
	"github.com/FACorreiaa/go-contact-registry/internal/api/county"
	"github.com/FACorreiaa/go-contact-registry/internal/api/person"
	"github.com/FACorreiaa/go-contact-registry/internal/api/user"
	"github.com/FACorreiaa/go-contact-registry/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Tokens auth.TokenService
	Filter *auth.Filter
	Policy *appMiddleware.Policy

	AuthHandler   *auth.AuthHandler
	CountyHandler *county.HandlerImpl
	PersonHandler *person.HandlerImpl
	UserHandler   *user.HandlerImpl

	UserService user.UserService
}

// NewContainer wires repositories, services and handlers on top of db.
// The caller owns db and closes it.
func NewContainer(cfg *config.Config, db database.Querier, logger *slog.Logger) (*Container, error) {
	tokens, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	policy, err := appMiddleware.NewPolicy(appMiddleware.DefaultRules(cfg.Server.APIPrefix), logger)
	if err != nil {
		return nil, fmt.Errorf("authorization policy: %w", err)
	}

	// Initialize repositories
	authRepo := auth.NewPostgresAuthRepo(db, logger)
	countyRepo := county.NewPostgresCountyRepo(db, logger)
	personRepo := person.NewPostgresPersonRepo(db, logger)
	userRepo := user.NewPostgresUserRepo(db, logger)

	// Initialize services
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := auth.NewAuthService(authRepo, hasher, tokens, logger)
	countyService := county.NewCountyService(countyRepo, cfg.Cache.CountyTTL, logger)
	personService := person.NewPersonService(personRepo, countyService, logger)
	userService := user.NewUserService(userRepo, hasher, logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Tokens:        tokens,
		Filter:        auth.NewFilter(tokens, authRepo, logger),
		Policy:        policy,
		AuthHandler:   auth.NewAuthHandler(authService, logger),
		CountyHandler: county.NewHandlerImpl(countyService, logger),
		PersonHandler: person.NewHandlerImpl(personService, logger),
		UserHandler:   user.NewHandlerImpl(userService, logger),
		UserService:   userService,
	}, nil
}

// Handler returns the HTTP handler serving every route.
func (c *Container) Handler() http.Handler {
	return router.NewHandler(&router.Config{
		AuthHandler:    c.AuthHandler,
		CountyHandler:  c.CountyHandler,
		PersonHandler:  c.PersonHandler,
		UserHandler:    c.UserHandler,
		Filter:         c.Filter,
		Policy:         c.Policy,
		APIPrefix:      c.Config.Server.APIPrefix,
		AllowedOrigins: c.Config.CORS.AllowedOrigins,
		LoginRateLimit: c.Config.Auth.LoginRateLimit,
		Timeout:        c.Config.Server.Timeout,
		Logger:         c.Logger,
	})
}

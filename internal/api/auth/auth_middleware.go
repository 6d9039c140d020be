package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	appMiddleware "github.com/FACorreiaa/go-contact-registry/app/middleware"
	"github.com/FACorreiaa/go-contact-registry/app/observability/metrics"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

// Filter attaches the caller's identity to requests carrying a valid bearer
// token. It never rejects a request; the authorization policy does that.
type Filter struct {
	logger *slog.Logger
	tokens TokenService
	repo   AuthRepo
}

func NewFilter(tokens TokenService, repo AuthRepo, logger *slog.Logger) *Filter {
	return &Filter{
		logger: logger,
		tokens: tokens,
		repo:   repo,
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Resolve works out who is calling. The identity is only meaningful when the
// state is Authenticated.
func (f *Filter) Resolve(r *http.Request) (types.Identity, appMiddleware.FilterState) {
	ctx := r.Context()

	token, ok := bearerToken(r)
	if !ok {
		return types.Identity{}, appMiddleware.NoToken
	}

	l := f.logger.With(slog.String("method", "Resolve"), slog.String("path", r.URL.Path))

	username, err := f.tokens.Validate(token)
	if err != nil {
		// unverified, so only good for the log line
		claimed, _ := f.tokens.ExtractSubject(token)
		l.InfoContext(ctx, "Rejected bearer token", slog.String("claimed_subject", claimed), slog.Any("error", err))
		return types.Identity{}, appMiddleware.TokenPresentInvalid
	}

	cred, err := f.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Valid token for unknown user", slog.String("username", username))
		} else {
			l.ErrorContext(ctx, "Could not load user for token", slog.String("username", username), slog.Any("error", err))
		}
		return types.Identity{}, appMiddleware.TokenPresentInvalid
	}

	return types.NewIdentity(cred), appMiddleware.Authenticated
}

// Handler runs Resolve once per request and records the outcome in the
// request context.
func (f *Filter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, seen := appMiddleware.FilterStateFromContext(ctx); seen {
			next.ServeHTTP(w, r)
			return
		}

		id, state := f.Resolve(r)
		if state != appMiddleware.NoToken {
			metrics.Get().TokenValidationsTotal.Add(ctx, 1,
				metric.WithAttributes(attribute.String("state", state.String())))
		}

		ctx = appMiddleware.WithFilterState(ctx, state)
		if state == appMiddleware.Authenticated {
			ctx = appMiddleware.WithIdentity(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

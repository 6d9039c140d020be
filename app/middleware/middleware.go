package appMiddleware

import (
	"context"
	"net/http"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

type contextKey string

const (
	identityKey    contextKey = "identity"
	filterStateKey contextKey = "authFilterState"
)

// FilterState is the outcome of authenticating a single request.
type FilterState int

const (
	NoToken FilterState = iota
	TokenPresentInvalid
	Authenticated
)

func (s FilterState) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case TokenPresentInvalid:
		return "token_invalid"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id types.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by the authentication
// filter, if any.
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	id, ok := ctx.Value(identityKey).(types.Identity)
	if !ok || id.Username == "" {
		return types.Identity{}, false
	}
	return id, true
}

// WithFilterState records the filter outcome. Its presence marks the request
// as already filtered.
func WithFilterState(ctx context.Context, state FilterState) context.Context {
	return context.WithValue(ctx, filterStateKey, state)
}

// FilterStateFromContext reports the recorded filter outcome; ok is false for
// requests the filter has not seen.
func FilterStateFromContext(ctx context.Context) (FilterState, bool) {
	s, ok := ctx.Value(filterStateKey).(FilterState)
	return s, ok
}

// CanonicalPath drops a request's RawPath so routing matches the decoded
// path, which is also what the authorization policy decides on. It must run
// before the router.
func CanonicalPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawPath != "" {
			u := *r.URL
			u.RawPath = ""
			r2 := new(http.Request)
			*r2 = *r
			r2.URL = &u
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}

package appMiddleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/FACorreiaa/go-contact-registry/internal/api"
	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

// Requirement is what a rule demands of the caller.
type Requirement int

const (
	RequireAuthenticated Requirement = iota
	RequirePublic
)

func (r Requirement) String() string {
	if r == RequirePublic {
		return "public"
	}
	return "authenticated"
}

// Rule grants access to requests whose method and path match. An empty
// Methods list matches every method. Authority, when set, must be held by
// the identity in addition to it being present.
type Rule struct {
	Methods     []string
	Pattern     string
	Access      Requirement
	Authority   types.Authority
	Description string
}

type compiledRule struct {
	Rule
	matchers []glob.Glob
}

func (c compiledRule) matches(method, path string) bool {
	if len(c.Methods) > 0 && !slices.Contains(c.Methods, method) {
		return false
	}
	for _, m := range c.matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// Policy is a static, ordered rule table. The first matching rule decides;
// a request matching no rule needs an identity.
type Policy struct {
	rules  []compiledRule
	logger *slog.Logger
}

// NewPolicy compiles rules in order. Patterns follow Ant conventions:
// "**" spans any number of segments, "*" and "{name}" stand for one segment.
func NewPolicy(rules []Rule, logger *slog.Logger) (*Policy, error) {
	p := &Policy{logger: logger}
	for _, r := range rules {
		matchers, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Pattern, err)
		}
		methods := make([]string, len(r.Methods))
		for i, m := range r.Methods {
			methods[i] = strings.ToUpper(m)
		}
		r.Methods = methods
		p.rules = append(p.rules, compiledRule{Rule: r, matchers: matchers})
	}
	return p, nil
}

var templateVar = regexp.MustCompile(`\{[^/{}]+\}`)

// compilePattern expands a pattern into the globs that together give Ant
// semantics: "/**/" may collapse to "/", and a trailing "/**" also matches
// the bare prefix.
func compilePattern(pattern string) ([]glob.Glob, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern must start with '/'")
	}
	pattern = templateVar.ReplaceAllString(pattern, "*")

	var out []glob.Glob
	for _, variant := range expandPattern(pattern) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func expandPattern(pattern string) []string {
	if i := strings.Index(pattern, "/**/"); i >= 0 {
		head, tail := pattern[:i], pattern[i+len("/**/"):]
		var out []string
		for _, t := range expandPattern("/" + tail) {
			out = append(out, head+"/**"+t, head+t)
		}
		return out
	}
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if prefix == "" {
			prefix = "/"
		}
		return []string{pattern, prefix}
	}
	return []string{pattern}
}

// Decide returns the rule governing the request. ok is false when no rule matched.
func (p *Policy) Decide(method, path string) (Rule, bool) {
	for _, r := range p.rules {
		if r.matches(method, path) {
			return r.Rule, true
		}
	}
	return Rule{}, false
}

// routingPath returns the path the policy decides on. It must be the path
// the router matches: chi routes on RawPath when one is set, so such
// requests are refused unless CanonicalPath ran first. One trailing slash is
// dropped, as middleware.StripSlashes does.
func routingPath(u *url.URL) (string, bool) {
	if u.RawPath != "" {
		return "", false
	}
	path := u.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path, true
}

// Handler enforces the policy. It must run after the authentication filter.
func (p *Policy) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ok := routingPath(r.URL)
		if !ok {
			p.logger.WarnContext(r.Context(), "Rejecting non-canonical request path",
				slog.String("method", r.Method),
				slog.String("raw_path", r.URL.RawPath))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Malformed request path")
			return
		}

		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		rule, ok := p.Decide(r.Method, path)
		if !ok {
			rule = Rule{Access: RequireAuthenticated}
		}
		if rule.Access == RequirePublic {
			next.ServeHTTP(w, r)
			return
		}

		l := p.logger.With(
			slog.String("method", r.Method),
			slog.String("path", path),
			slog.String("rule", rule.Pattern),
		)

		id, ok := IdentityFromContext(r.Context())
		if !ok {
			state, _ := FilterStateFromContext(r.Context())
			l.DebugContext(r.Context(), "Rejecting unauthenticated request", slog.String("filter_state", state.String()))
			api.ErrorResponse(w, r, http.StatusUnauthorized, types.ErrUnauthenticated.Error())
			return
		}
		if rule.Authority != "" && !id.Has(rule.Authority) {
			l.WarnContext(r.Context(), "Rejecting request lacking authority",
				slog.String("username", id.Username),
				slog.String("authority", string(rule.Authority)))
			api.ErrorResponse(w, r, http.StatusForbidden, types.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DefaultRules is the rule table the API is served with.
func DefaultRules(prefix string) []Rule {
	prefix = strings.TrimSuffix(prefix, "/")
	get := []string{http.MethodGet}
	return []Rule{
		{Methods: []string{http.MethodOptions}, Pattern: "/**", Access: RequirePublic, Description: "CORS preflight"},
		{Pattern: prefix + "/auth/**", Access: RequirePublic, Description: "signup and login"},
		{Methods: get, Pattern: prefix + "/counties/**", Access: RequirePublic, Description: "county listing and lookup"},
		{Methods: get, Pattern: prefix + "/persons/gender-stats", Access: RequirePublic, Description: "aggregate statistics"},
		{Methods: get, Pattern: "/ping", Access: RequirePublic, Description: "health"},
		{Methods: get, Pattern: "/swagger/**", Access: RequirePublic, Description: "API docs"},
		{Methods: []string{http.MethodDelete}, Pattern: prefix + "/counties/**", Access: RequireAuthenticated, Authority: types.AuthorityAdmin, Description: "county removal"},
		{Methods: []string{http.MethodPost, http.MethodPut, http.MethodDelete}, Pattern: prefix + "/users/**", Access: RequireAuthenticated, Authority: types.AuthorityAdmin, Description: "user administration"},
		{Pattern: "/**", Access: RequireAuthenticated, Description: "everything else"},
	}
}

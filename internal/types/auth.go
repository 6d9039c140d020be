package types

import (
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Credential is the persisted identity record used for signup and login.
type Credential struct {
	ID           string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Username     string    `json:"username" example:"johndoe"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role,omitempty" example:"admin"` // free-form category, empty unless supplied
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const PasswordSymbols = `-@$!%*?&#._`

var (
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSymbol  = regexp.MustCompile(`[-@$!%*?&#._]`)
	passwordCharset = regexp.MustCompile(`^[A-Za-z0-9\-@$!%*?&#._]+$`)
)

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username" example:"johndoe"`
	Password string `json:"password" example:"Str0ngP@ss!"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Password, passwordRules...),
	)
}

var usernameRules = []validation.Rule{
	validation.Required.Error("Username is required"),
	validation.Length(3, 255).Error("Username must be between 3 and 255 characters"),
}

var passwordRules = []validation.Rule{
	validation.Required.Error("Password is required"),
	validation.Length(8, 255).Error("Password must be between 8 and 255 characters"),
	validation.Match(passwordLower).Error("Password must contain at least one lowercase letter"),
	validation.Match(passwordUpper).Error("Password must contain at least one uppercase letter"),
	validation.Match(passwordDigit).Error("Password must contain at least one number"),
	validation.Match(passwordSymbol).Error("Password must contain at least one of " + PasswordSymbols),
	validation.Match(passwordCharset).Error("Password may only contain letters, numbers and " + PasswordSymbols),
}

// UserRequest is the body of the admin user endpoints. Unlike signup it
// sets the role, and on update it replaces every field.
type UserRequest struct {
	Username string `json:"username" example:"janedoe"`
	Password string `json:"password" example:"Str0ngP@ss!"`
	Role     string `json:"role" example:"admin"`
}

func (r UserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.Role,
			validation.Required.Error("Role is required"),
			validation.Length(3, 50).Error("Role must be between 3 and 50 characters"),
		),
	)
}

// LoginRequest is the body of POST /auth/login. Only presence is checked:
// anything else is answered with the undifferentiated invalid-credentials error.
type LoginRequest struct {
	Username string `json:"username" example:"johndoe"`
	Password string `json:"password" example:"Str0ngP@ss!"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("Username is required")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJI..."`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// Authority is a single permission granted to an authenticated identity.
type Authority string

const (
	AuthorityUser  Authority = "ROLE_USER"
	AuthorityAdmin Authority = "ROLE_ADMIN"
)

const RoleAdmin = "admin"

// AuthoritiesFor derives the authority set for a credential role.
// Every credential is a user; the admin category adds AuthorityAdmin.
func AuthoritiesFor(role string) []Authority {
	authorities := []Authority{AuthorityUser}
	if strings.EqualFold(strings.TrimSpace(role), RoleAdmin) {
		authorities = append(authorities, AuthorityAdmin)
	}
	return authorities
}

// Identity is the request-scoped view of who is calling. It is built by the
// authentication middleware from a validated token and never persisted.
type Identity struct {
	Username    string      `json:"username"`
	Role        string      `json:"role,omitempty"`
	Authorities []Authority `json:"authorities"`
}

func NewIdentity(c *Credential) Identity {
	return Identity{
		Username:    c.Username,
		Role:        c.Role,
		Authorities: AuthoritiesFor(c.Role),
	}
}

// Has reports whether the identity was granted the authority.
func (i Identity) Has(a Authority) bool {
	return slices.Contains(i.Authorities, a)
}

package types

import "errors"

var (
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("action forbidden")
	ErrStoreUnavailable   = errors.New("data store unavailable")
)

package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-contact-registry/internal/types"
)

// Classify maps driver errors onto the domain sentinels so callers can use
// errors.Is without knowing about pgx. The driver error stays wrapped.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %w", types.ErrNotFound, err)
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", types.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
}

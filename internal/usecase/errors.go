package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = access.ErrForbidden
	ErrConflict              = errors.New("concurrent modification conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// IsRetryable reports whether the caller may retry the same request unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

func authorize(actor access.Actor, op access.Operation, targetOwner string) error {
	err := access.Authorize(actor, op, targetOwner)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, access.ErrUnauthenticated):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	default:
		return err
	}
}

package user

import (
	"context"
	"errors"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
)

var ErrEmailTaken = errors.New("email already registered")

// Repository describes user directory persistence needs from use cases.
type Repository interface {
	// Create returns ErrEmailTaken when the email is already stored.
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, email string, role access.Role) (bool, error)
}

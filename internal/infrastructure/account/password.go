package account

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

// BcryptHasher stores passwords as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%w: invalid credentials", usecase.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: compare password hash: %v", usecase.ErrUnauthorized, err)
	}
}

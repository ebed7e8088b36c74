package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
)

// User is a registered pool participant. Email is the identity.
type User struct {
	Email        string
	PasswordHash string
	Role         access.Role
	CreatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("user email is invalid: %q", u.Email)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: %q", access.ErrUnknownRole, u.Role)
	}

	return nil
}

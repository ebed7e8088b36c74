package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

func (r *UserRepository) Create(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[item.Email]; exists {
		return fmt.Errorf("%w: %s", user.ErrEmailTaken, item.Email)
	}
	r.users[item.Email] = item
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.users[email]
	return item, ok, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.users))
	for _, item := range r.users {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, email string, role access.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.users[email]
	if !ok {
		return false, nil
	}
	item.Role = role
	r.users[email] = item
	return true, nil
}

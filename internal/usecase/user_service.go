package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

const (
	minPasswordLength   = 8
	overviewConcurrency = 8
)

// PasswordHasher stores and checks password hashes. Compare returns ErrUnauthorized on mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies access tokens carrying a user email.
type TokenIssuer interface {
	Issue(ctx context.Context, email string) (token string, expiresAt time.Time, err error)
	Verify(ctx context.Context, token string) (email string, err error)
}

type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        user.User
}

// UserOverview is one row of the admin dashboard.
type UserOverview struct {
	Email   string
	Role    access.Role
	Entries []EntryOverview
}

type EntryOverview struct {
	Entry entry.Entry
	Picks []pick.Pick
}

type UserService struct {
	userRepo  user.Repository
	entryRepo entry.Repository
	pickRepo  pick.Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	logger    *logging.Logger
	now       func() time.Time
}

func NewUserService(
	userRepo user.Repository,
	entryRepo entry.Repository,
	pickRepo pick.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *logging.Logger,
) *UserService {
	if logger == nil {
		logger = logging.Default()
	}

	return &UserService{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		pickRepo:  pickRepo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, email, password string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	return s.create(ctx, email, password, access.RolePlayer)
}

// EnsureAdmin creates an admin account, or promotes an existing one, for bootstrap.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.EnsureAdmin")
	defer span.End()

	email = user.NormalizeEmail(email)
	existing, exists, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}
	if exists {
		if existing.Role == access.RoleAdmin {
			return nil
		}
		if _, err := s.userRepo.UpdateRole(ctx, email, access.RoleAdmin); err != nil {
			return fmt.Errorf("promote bootstrap admin: %w", err)
		}
		s.logger.InfoContext(ctx, "bootstrap admin promoted", "email", email)
		return nil
	}

	if _, err := s.create(ctx, email, password, access.RoleAdmin); err != nil {
		return err
	}
	return nil
}

func (s *UserService) create(ctx context.Context, email, password string, role access.Role) (user.User, error) {
	email = user.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, exists, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	} else if exists {
		return user.User{}, fmt.Errorf("%w: %s", user.ErrEmailTaken, email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	item := user.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.userRepo.Create(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		"email", item.Email,
		"role", string(item.Role),
	)

	return item, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Login")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return Session{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := s.hasher.Compare(item.PasswordHash, password); err != nil {
		return Session{}, err
	}

	token, expiresAt, err := s.tokens.Issue(ctx, item.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        item,
	}, nil
}

// Authenticate resolves a bearer token into an actor using the role currently stored.
func (s *UserService) Authenticate(ctx context.Context, token string) (access.Actor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Authenticate")
	defer span.End()

	email, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return access.Actor{}, err
	}

	item, exists, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return access.Actor{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return access.Actor{}, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}

	return access.Actor{Email: item.Email, Role: item.Role}, nil
}

func (s *UserService) ChangeRole(ctx context.Context, actor access.Actor, email string, role access.Role) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ChangeRole")
	defer span.End()

	if err := authorize(actor, access.OpChangeRole, ""); err != nil {
		return user.User{}, err
	}
	if !role.Valid() {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, access.ErrUnknownRole)
	}

	email = user.NormalizeEmail(email)
	item, exists, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, email)
	}
	if item.Role == role {
		return item, nil
	}

	updated, err := s.userRepo.UpdateRole(ctx, email, role)
	if err != nil {
		return user.User{}, fmt.Errorf("update user role: %w", err)
	}
	if !updated {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, email)
	}

	s.logger.InfoContext(ctx, "user role changed",
		"email", email,
		"from", string(item.Role),
		"to", string(role),
		"actor", actor.Email,
	)

	item.Role = role
	return item, nil
}

// ListOverview returns every user with their entries and picks.
func (s *UserService) ListOverview(ctx context.Context, actor access.Actor) ([]UserOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ListOverview")
	defer span.End()

	if err := authorize(actor, access.OpViewAll, ""); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	p := pool.NewWithResults[UserOverview]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(overviewConcurrency)
	for _, item := range users {
		p.Go(func(ctx context.Context) (UserOverview, error) {
			return s.loadOverview(ctx, item)
		})
	}

	out, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *UserService) loadOverview(ctx context.Context, item user.User) (UserOverview, error) {
	entries, err := s.entryRepo.ListByOwner(ctx, item.Email)
	if err != nil {
		return UserOverview{}, fmt.Errorf("list entries for %s: %w", item.Email, err)
	}
	sortEntries(entries)

	row := UserOverview{
		Email:   item.Email,
		Role:    item.Role,
		Entries: make([]EntryOverview, 0, len(entries)),
	}
	for _, e := range entries {
		picks, err := s.pickRepo.ListByEntry(ctx, e.ID)
		if err != nil {
			return UserOverview{}, fmt.Errorf("list picks for entry %s: %w", e.ID, err)
		}
		sortPicks(picks)
		row.Entries = append(row.Entries, EntryOverview{Entry: e, Picks: picks})
	}

	return row, nil
}

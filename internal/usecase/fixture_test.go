package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
)

// Week 1 locks at the base deadline; fixtureNow sits before it so every week is open.
var fixtureNow = schedule.DefaultBaseDeadline.Add(-48 * time.Hour)

type sequenceIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1)), nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return nil
}

type echoTokens struct{}

func (echoTokens) Issue(_ context.Context, email string) (string, time.Time, error) {
	return "token:" + email, fixtureNow.Add(time.Hour), nil
}

func (echoTokens) Verify(_ context.Context, token string) (string, error) {
	email, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return "", fmt.Errorf("%w: bad token", ErrUnauthorized)
	}
	return email, nil
}

type poolFixture struct {
	users   *memory.UserRepository
	entries *memory.EntryRepository
	teams   *memory.TeamRepository
	picks   *memory.PickRepository
	results *memory.ResultRepository

	userSvc     *UserService
	teamSvc     *TeamService
	entrySvc    *EntryService
	pickSvc     *PickService
	resultSvc   *ResultService
	standingSvc *StandingService

	admin   access.Actor
	manager access.Actor
}

func newPoolFixture(t *testing.T) *poolFixture {
	t.Helper()

	f := &poolFixture{
		users:   memory.NewUserRepository(),
		entries: memory.NewEntryRepository(),
		teams:   memory.NewTeamRepository(memory.SeedTeams()),
		picks:   memory.NewPickRepository(),
		results: memory.NewResultRepository(),
		admin:   access.Actor{Email: "admin@pool.test", Role: access.RoleAdmin},
		manager: access.Actor{Email: "manager@pool.test", Role: access.RoleManager},
	}

	roster := NewRosterGuard()
	clock := func() time.Time { return fixtureNow }

	f.userSvc = NewUserService(f.users, f.entries, f.picks, plainHasher{}, echoTokens{}, nil)
	f.userSvc.now = clock
	f.teamSvc = NewTeamService(f.teams, f.picks, f.results, roster, &sequenceIDs{prefix: "team"}, nil)
	f.entrySvc = NewEntryService(f.users, f.entries, &sequenceIDs{prefix: "entry"}, nil)
	f.entrySvc.now = clock
	f.pickSvc = NewPickService(f.entries, f.teams, f.picks, schedule.DefaultCalendar(), roster, &sequenceIDs{prefix: "pick"}, nil)
	f.pickSvc.now = clock
	f.resultSvc = NewResultService(f.teams, f.results, f.entries, f.picks, roster, nil)
	f.resultSvc.now = clock
	f.standingSvc = NewStandingService(f.entries, f.picks, f.results, 2, nil)

	for _, actor := range []access.Actor{f.admin, f.manager} {
		f.mustCreateUser(t, actor.Email, actor.Role)
	}
	return f
}

func (f *poolFixture) mustCreateUser(t *testing.T, email string, role access.Role) access.Actor {
	t.Helper()

	err := f.users.Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: "hashed:password123",
		Role:         role,
		CreatedAt:    fixtureNow,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return access.Actor{Email: email, Role: role}
}

func (f *poolFixture) mustPlayer(t *testing.T, email string) access.Actor {
	t.Helper()
	return f.mustCreateUser(t, email, access.RolePlayer)
}

func (f *poolFixture) mustVerifiedEntry(t *testing.T, owner access.Actor, nickname string) entry.Entry {
	t.Helper()

	item, err := f.entrySvc.CreateEntry(context.Background(), owner, owner.Email, nickname)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	item, err = f.entrySvc.VerifyEntry(context.Background(), f.manager, item.ID)
	if err != nil {
		t.Fatalf("verify entry: %v", err)
	}
	return item
}

// setNow moves the clock of every time-aware service.
func (f *poolFixture) setNow(now time.Time) {
	clock := func() time.Time { return now }
	f.pickSvc.now = clock
	f.resultSvc.now = clock
	f.entrySvc.now = clock
	f.userSvc.now = clock
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	idgen "github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/lock"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type PickService struct {
	entryRepo  entry.Repository
	teamRepo   team.Repository
	pickRepo   pick.Repository
	calendar   schedule.Calendar
	roster     *RosterGuard
	entryLocks *lock.Keyed
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewPickService(
	entryRepo entry.Repository,
	teamRepo team.Repository,
	pickRepo pick.Repository,
	calendar schedule.Calendar,
	roster *RosterGuard,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PickService{
		entryRepo:  entryRepo,
		teamRepo:   teamRepo,
		pickRepo:   pickRepo,
		calendar:   calendar,
		roster:     roster,
		entryLocks: lock.NewKeyed(),
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitPick records a new pick for (entryID, week). Week 0 means the current week.
func (s *PickService) SubmitPick(ctx context.Context, actor access.Actor, entryID string, week int, teamName string) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick")
	defer span.End()

	entryID = strings.TrimSpace(entryID)
	teamName = team.NormalizeName(teamName)
	if entryID == "" {
		return pick.Pick{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	unlock := s.entryLocks.Lock(entryID)
	defer unlock()
	release := s.roster.share()
	defer release()

	owner, err := loadEntry(ctx, s.entryRepo, entryID)
	if err != nil {
		return pick.Pick{}, err
	}
	if err := authorize(actor, access.OpSubmitPick, owner.OwnerEmail); err != nil {
		return pick.Pick{}, err
	}
	if !owner.Verified {
		return pick.Pick{}, fmt.Errorf("%w: entry=%s", pick.ErrEntryNotVerified, owner.ID)
	}
	if err := teamExists(ctx, s.teamRepo, teamName); err != nil {
		return pick.Pick{}, err
	}

	now := s.now().UTC()
	week, err = s.openWeek(week, now)
	if err != nil {
		return pick.Pick{}, err
	}

	existing, err := s.pickRepo.ListByEntry(ctx, owner.ID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list entry picks: %w", err)
	}
	if err := pick.CheckNewPick(existing, week, teamName); err != nil {
		return pick.Pick{}, err
	}

	pickID, err := s.idGen.NewID()
	if err != nil {
		return pick.Pick{}, fmt.Errorf("generate pick id: %w", err)
	}

	item := pick.Pick{
		ID:        pickID,
		EntryID:   owner.ID,
		Week:      week,
		TeamName:  teamName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return pick.Pick{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.pickRepo.Create(ctx, item); err != nil {
		return pick.Pick{}, fmt.Errorf("create pick: %w", err)
	}

	s.logger.InfoContext(ctx, "pick submitted",
		"pick_id", item.ID,
		"entry_id", item.EntryID,
		"week", item.Week,
		"team", item.TeamName,
	)

	return item, nil
}

// EditPick moves an unlocked pick to another week and/or team. newWeek 0 keeps the stored
// week and an empty newTeam keeps the stored team.
func (s *PickService) EditPick(ctx context.Context, actor access.Actor, pickID string, newWeek int, newTeam string) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.EditPick")
	defer span.End()

	pickID = strings.TrimSpace(pickID)
	newTeam = team.NormalizeName(newTeam)
	if pickID == "" {
		return pick.Pick{}, fmt.Errorf("%w: pick id is required", ErrInvalidInput)
	}

	located, err := s.getPick(ctx, pickID)
	if err != nil {
		return pick.Pick{}, err
	}

	unlock := s.entryLocks.Lock(located.EntryID)
	defer unlock()
	release := s.roster.share()
	defer release()

	// Re-read under the entry lock.
	current, err := s.getPick(ctx, pickID)
	if err != nil {
		return pick.Pick{}, err
	}
	owner, err := loadEntry(ctx, s.entryRepo, current.EntryID)
	if err != nil {
		return pick.Pick{}, err
	}
	if err := authorize(actor, access.OpEditPick, owner.OwnerEmail); err != nil {
		return pick.Pick{}, err
	}

	now := s.now().UTC()
	locked, err := s.calendar.IsLocked(current.Week, now)
	if err != nil {
		return pick.Pick{}, err
	}
	if locked {
		return pick.Pick{}, fmt.Errorf("%w: week=%d", pick.ErrWeekLocked, current.Week)
	}

	next := current
	if newWeek < 0 {
		return pick.Pick{}, fmt.Errorf("%w: %d", schedule.ErrInvalidWeek, newWeek)
	}
	if newWeek != 0 {
		next.Week = newWeek
	}
	if newTeam != "" {
		next.TeamName = newTeam
	}

	existing, err := s.pickRepo.ListByEntry(ctx, current.EntryID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list entry picks: %w", err)
	}

	if next.Week != current.Week {
		if _, err := s.openWeek(next.Week, now); err != nil {
			return pick.Pick{}, err
		}
		if err := pick.CheckWeekChange(existing, current.ID, next.Week); err != nil {
			return pick.Pick{}, err
		}
	}
	if next.TeamName != current.TeamName {
		if err := pick.CheckTeamChange(existing, current.ID, next.TeamName); err != nil {
			return pick.Pick{}, err
		}
		if err := teamExists(ctx, s.teamRepo, next.TeamName); err != nil {
			return pick.Pick{}, err
		}
	}

	if next.Week == current.Week && next.TeamName == current.TeamName {
		return current, nil
	}

	next.UpdatedAt = now
	if err := s.pickRepo.Update(ctx, current, next); err != nil {
		if errors.Is(err, pick.ErrStaleWrite) {
			return pick.Pick{}, fmt.Errorf("%w: pick=%s", ErrConflict, current.ID)
		}
		return pick.Pick{}, fmt.Errorf("update pick: %w", err)
	}

	s.logger.InfoContext(ctx, "pick edited",
		"pick_id", next.ID,
		"entry_id", next.EntryID,
		"from_week", current.Week,
		"to_week", next.Week,
		"from_team", current.TeamName,
		"to_team", next.TeamName,
	)

	return next, nil
}

// ListPicksFor returns every pick across the entries owned by email.
func (s *PickService) ListPicksFor(ctx context.Context, actor access.Actor, email string) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListPicksFor")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" {
		email = user.NormalizeEmail(actor.Email)
	}
	if err := authorize(actor, access.OpViewOwn, email); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list entries by owner: %w", err)
	}

	out := make([]pick.Pick, 0, len(entries))
	for _, item := range entries {
		picks, err := s.pickRepo.ListByEntry(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list entry picks: %w", err)
		}
		out = append(out, picks...)
	}

	sortPicks(out)
	return out, nil
}

func (s *PickService) ListPicksForEntry(ctx context.Context, actor access.Actor, entryID string) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListPicksForEntry")
	defer span.End()

	owner, err := loadEntry(ctx, s.entryRepo, entryID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, access.OpViewOwn, owner.OwnerEmail); err != nil {
		return nil, err
	}

	picks, err := s.pickRepo.ListByEntry(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list entry picks: %w", err)
	}

	sortPicks(picks)
	return picks, nil
}

func (s *PickService) openWeek(week int, now time.Time) (int, error) {
	week, err := s.calendar.ResolveWeek(week, now)
	if err != nil {
		return 0, err
	}
	locked, err := s.calendar.IsLocked(week, now)
	if err != nil {
		return 0, err
	}
	if locked {
		return 0, fmt.Errorf("%w: week=%d", pick.ErrWeekLocked, week)
	}
	return week, nil
}

func (s *PickService) getPick(ctx context.Context, pickID string) (pick.Pick, error) {
	item, exists, err := s.pickRepo.GetByID(ctx, pickID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get pick by id: %w", err)
	}
	if !exists {
		return pick.Pick{}, fmt.Errorf("%w: pick=%s", ErrNotFound, pickID)
	}
	return item, nil
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].EntryID != items[j].EntryID {
			return items[i].EntryID < items[j].EntryID
		}
		return items[i].Week < items[j].Week
	})
}

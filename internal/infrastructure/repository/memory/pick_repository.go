package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

type weekSlot struct {
	entryID string
	week    int
}

type teamSlot struct {
	entryID  string
	teamName string
}

// PickRepository keeps per-entry uniqueness indexes under one lock so a losing writer
// sees the same errors a unique index would raise.
type PickRepository struct {
	mu     sync.RWMutex
	picks  map[string]pick.Pick
	order  []string
	byWeek map[weekSlot]string
	byTeam map[teamSlot]string
}

func NewPickRepository() *PickRepository {
	return &PickRepository{
		picks:  make(map[string]pick.Pick),
		byWeek: make(map[weekSlot]string),
		byTeam: make(map[teamSlot]string),
	}
}

func (r *PickRepository) Create(_ context.Context, item pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.picks[item.ID]; exists {
		return fmt.Errorf("pick id already exists: %s", item.ID)
	}
	if err := r.checkSlots(item, ""); err != nil {
		return err
	}

	r.picks[item.ID] = item
	r.order = append(r.order, item.ID)
	r.byWeek[weekSlot{entryID: item.EntryID, week: item.Week}] = item.ID
	r.byTeam[teamSlot{entryID: item.EntryID, teamName: item.TeamName}] = item.ID
	return nil
}

func (r *PickRepository) GetByID(_ context.Context, pickID string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.picks[pickID]
	return item, ok, nil
}

func (r *PickRepository) ListByEntry(_ context.Context, entryID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, id := range r.order {
		if item := r.picks[id]; item.EntryID == entryID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PickRepository) List(_ context.Context) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.picks[id])
	}
	return out, nil
}

func (r *PickRepository) Update(_ context.Context, expected, next pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.picks[expected.ID]
	if !ok || !samePick(stored, expected) {
		return fmt.Errorf("%w: %s", pick.ErrStaleWrite, expected.ID)
	}
	if err := r.checkSlots(next, stored.ID); err != nil {
		return err
	}

	delete(r.byWeek, weekSlot{entryID: stored.EntryID, week: stored.Week})
	delete(r.byTeam, teamSlot{entryID: stored.EntryID, teamName: stored.TeamName})
	next.ID = stored.ID
	next.EntryID = stored.EntryID
	next.CreatedAt = stored.CreatedAt
	r.picks[stored.ID] = next
	r.byWeek[weekSlot{entryID: next.EntryID, week: next.Week}] = next.ID
	r.byTeam[teamSlot{entryID: next.EntryID, teamName: next.TeamName}] = next.ID
	return nil
}

func (r *PickRepository) ReferencesTeam(_ context.Context, teamName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.picks {
		if item.TeamName == teamName {
			return true, nil
		}
	}
	return false, nil
}

func (r *PickRepository) checkSlots(item pick.Pick, ignoreID string) error {
	if holder, taken := r.byWeek[weekSlot{entryID: item.EntryID, week: item.Week}]; taken && holder != ignoreID {
		return fmt.Errorf("%w: week=%d", pick.ErrPickAlreadyExists, item.Week)
	}
	if holder, taken := r.byTeam[teamSlot{entryID: item.EntryID, teamName: item.TeamName}]; taken && holder != ignoreID {
		return fmt.Errorf("%w: team=%s", pick.ErrTeamAlreadyUsed, item.TeamName)
	}
	return nil
}

func samePick(a, b pick.Pick) bool {
	return a.ID == b.ID &&
		a.EntryID == b.EntryID &&
		a.Week == b.Week &&
		a.TeamName == b.TeamName &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

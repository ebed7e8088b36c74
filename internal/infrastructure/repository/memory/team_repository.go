package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byID   map[string]team.Team
	byName map[string]string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		byID:   make(map[string]team.Team, len(teams)),
		byName: make(map[string]string, len(teams)),
	}
	for _, item := range teams {
		r.byID[item.ID] = item
		r.byName[item.Name] = item.ID
	}

	return r
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byName[name]
	if !ok {
		return team.Team{}, false, nil
	}
	return r.byID[teamID], true, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[item.Name]; taken {
		return fmt.Errorf("%w: %s", team.ErrDuplicateTeam, item.Name)
	}
	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("team id already exists: %s", item.ID)
	}

	r.byID[item.ID] = item
	r.byName[item.Name] = item.ID
	return nil
}

func (r *TeamRepository) Rename(_ context.Context, teamID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[teamID]
	if !ok {
		return fmt.Errorf("team not found: %s", teamID)
	}
	if holder, taken := r.byName[name]; taken && holder != teamID {
		return fmt.Errorf("%w: %s", team.ErrDuplicateTeam, name)
	}

	delete(r.byName, item.Name)
	item.Name = name
	r.byID[teamID] = item
	r.byName[name] = teamID
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[teamID]
	if !ok {
		return nil
	}
	delete(r.byID, teamID)
	delete(r.byName, item.Name)
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/result"
)

type resultKey struct {
	week     int
	teamName string
}

type ResultRepository struct {
	mu      sync.RWMutex
	results map[resultKey]result.Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[resultKey]result.Result)}
}

func (r *ResultRepository) Upsert(_ context.Context, item result.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[resultKey{week: item.Week, teamName: item.TeamName}] = item
	return nil
}

func (r *ResultRepository) Get(_ context.Context, week int, teamName string) (result.Result, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.results[resultKey{week: week, teamName: teamName}]
	return item, ok, nil
}

func (r *ResultRepository) List(_ context.Context) ([]result.Result, error) {
	return r.collect(func(result.Result) bool { return true }), nil
}

func (r *ResultRepository) ListByWeek(_ context.Context, week int) ([]result.Result, error) {
	return r.collect(func(item result.Result) bool { return item.Week == week }), nil
}

func (r *ResultRepository) ReferencesTeam(_ context.Context, teamName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key := range r.results {
		if key.teamName == teamName {
			return true, nil
		}
	}
	return false, nil
}

func (r *ResultRepository) collect(keep func(result.Result) bool) []result.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.Result, 0, len(r.results))
	for _, item := range r.results {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out
}

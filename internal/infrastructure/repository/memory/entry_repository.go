package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
)

type EntryRepository struct {
	mu      sync.RWMutex
	entries map[string]entry.Entry
	order   []string
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[string]entry.Entry)}
}

func (r *EntryRepository) Create(_ context.Context, item entry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[item.ID]; exists {
		return fmt.Errorf("entry id already exists: %s", item.ID)
	}
	r.entries[item.ID] = item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *EntryRepository) GetByID(_ context.Context, entryID string) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.entries[entryID]
	return item, ok, nil
}

func (r *EntryRepository) ListByOwner(_ context.Context, ownerEmail string) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, 0)
	for _, id := range r.order {
		if item := r.entries[id]; item.OwnerEmail == ownerEmail {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *EntryRepository) List(_ context.Context) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out, nil
}

func (r *EntryRepository) MarkVerified(_ context.Context, entryID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.entries[entryID]
	if !ok {
		return false, nil
	}
	item.Verified = true
	r.entries[entryID] = item
	return true, nil
}

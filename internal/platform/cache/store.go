package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent misses for one key share a single load.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	// generation advances on every invalidation; loads started before it are not stored.
	generation uint64
	ttl        time.Duration
	flight     singleflight.Group
	now        func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = s.newEntry(value)
	s.mu.Unlock()
}

func (s *Store[V]) newEntry(value V) entry[V] {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}
	return entry[V]{value: value, expiresAt: expiresAt}
}

func (s *Store[V]) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// setIfGeneration stores value only when no invalidation ran since gen was read.
func (s *Store[V]) setIfGeneration(key string, value V, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return false
	}
	s.entries[key] = s.newEntry(value)
	return true
}

// InvalidatePrefix drops every key starting with prefix; an empty prefix clears the store.
func (s *Store[V]) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if prefix == "" {
		s.entries = make(map[string]entry[V])
		return
	}
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		gen := s.currentGeneration()
		if cached, ok := s.Get(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.setIfGeneration(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	value, _ := v.(V)
	return value, nil
}

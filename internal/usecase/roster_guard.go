package usecase

import "sync"

// RosterGuard serializes team mutations against pick and result commits that reference
// team names. Commits share the read side; roster changes take the write side.
type RosterGuard struct {
	mu sync.RWMutex
}

func NewRosterGuard() *RosterGuard {
	return &RosterGuard{}
}

func (g *RosterGuard) share() func() {
	if g == nil {
		return func() {}
	}
	g.mu.RLock()
	return g.mu.RUnlock
}

func (g *RosterGuard) exclusive() func() {
	if g == nil {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}

// Package prefs holds the pin / mute / expand sets and their persistence.
package prefs

import (
	"slices"
	"sync"

	"xprem/internal/domain"
)

// State applies the toggle rules atomically:
// pinning unmutes, unpinning collapses, expand needs a pin, muting unpins.
type State struct {
	mu     sync.RWMutex
	pinned map[string]struct{}
	muted  map[string]struct{}
	open   map[string]struct{}
}

func NewState() *State {
	return &State{
		pinned: make(map[string]struct{}),
		muted:  make(map[string]struct{}),
		open:   make(map[string]struct{}),
	}
}

func (s *State) TogglePin(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.togglePinLocked(ticker)
}

func (s *State) togglePinLocked(ticker string) {
	if _, ok := s.pinned[ticker]; ok {
		delete(s.pinned, ticker)
		delete(s.open, ticker)
		return
	}
	delete(s.muted, ticker)
	s.pinned[ticker] = struct{}{}
}

// ToggleExpand is a no-op unless the ticker is pinned.
func (s *State) ToggleExpand(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pinned[ticker]; !ok {
		return
	}
	if _, ok := s.open[ticker]; ok {
		delete(s.open, ticker)
		return
	}
	s.open[ticker] = struct{}{}
}

func (s *State) ToggleMute(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pinned[ticker]; ok {
		s.togglePinLocked(ticker)
	}
	if _, ok := s.muted[ticker]; ok {
		delete(s.muted, ticker)
		return
	}
	s.muted[ticker] = struct{}{}
}

func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.pinned)
	clear(s.muted)
	clear(s.open)
}

// IsOpen is the raw open-set membership; ranking only honors it for pinned rows.
func (s *State) IsOpen(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.open[ticker]
	return ok
}

// Snapshot returns sorted copies of the three sets.
func (s *State) Snapshot() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Preferences{
		Pinned: sortedKeys(s.pinned),
		Muted:  sortedKeys(s.muted),
		Open:   sortedKeys(s.open),
	}
}

// Restore replaces all sets. Loaded data is taken as-is, including an open
// entry without a pin; ranking ignores those.
func (s *State) Restore(p domain.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = toSet(p.Pinned)
	s.muted = toSet(p.Muted)
	s.open = toSet(p.Open)
}

func toSet(in []string) map[string]struct{} {
	m := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v != "" {
			m[v] = struct{}{}
		}
	}
	return m
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

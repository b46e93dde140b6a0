package memory

import (
	"context"
	"slices"
	"sync"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// Repo keeps preferences for the lifetime of the process.
type Repo struct {
	mu   sync.RWMutex
	data map[string]domain.Preferences
}

func New() *Repo {
	return &Repo{data: make(map[string]domain.Preferences)}
}

func (r *Repo) Load(_ context.Context, key string) (domain.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.data[key]
	return domain.Preferences{
		Pinned: slices.Clone(p.Pinned),
		Muted:  slices.Clone(p.Muted),
		Open:   slices.Clone(p.Open),
	}, nil
}

func (r *Repo) Save(_ context.Context, key string, p domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = domain.Preferences{
		Pinned: slices.Clone(p.Pinned),
		Muted:  slices.Clone(p.Muted),
		Open:   slices.Clone(p.Open),
	}
	return nil
}

func (r *Repo) Close() error { return nil }

var _ port.PrefsStore = (*Repo)(nil)

package composite

import (
	"context"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// Repo fans saves out to every backend and loads from the first one that
// has something stored.
type Repo struct {
	repos []port.PrefsStore
}

func New(repos ...port.PrefsStore) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.PrefsStore, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

func (r *Repo) Load(ctx context.Context, key string) (domain.Preferences, error) {
	var firstErr error
	for _, repo := range r.repos {
		p, err := repo.Load(ctx, key)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !p.Empty() {
			return p, nil
		}
	}
	return domain.Preferences{}, firstErr
}

func (r *Repo) Save(ctx context.Context, key string, p domain.Preferences) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Save(ctx, key, p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.PrefsStore = (*Repo)(nil)

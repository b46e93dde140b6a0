package monitor

import (
	"context"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// noopPrefs is used when no storage backend is configured.
type noopPrefs struct{}

func NewNoopPrefs() port.PrefsStore { return noopPrefs{} }

func (noopPrefs) Load(context.Context, string) (domain.Preferences, error) {
	return domain.Preferences{}, nil
}

func (noopPrefs) Save(context.Context, string, domain.Preferences) error { return nil }

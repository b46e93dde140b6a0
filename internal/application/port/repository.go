package port

import (
	"context"

	"xprem/internal/domain"
)

// PrefsStore persists pin/mute/expand sets keyed by market-pair identity.
// Load returns empty preferences when nothing (or nothing readable) is stored.
type PrefsStore interface {
	Load(ctx context.Context, key string) (domain.Preferences, error)
	Save(ctx context.Context, key string, p domain.Preferences) error
}

// WalletSource reports settlement network capabilities for a ticker.
type WalletSource interface {
	WalletStatus(ticker string) []domain.WalletStatus
}

package prefs

import (
	"context"
	"sync"
	"time"

	"xprem/internal/application/port"
	"xprem/internal/domain"

	"github.com/rs/zerolog/log"
)

const ioTimeout = 3 * time.Second

// Keeper loads and saves preferences for the active pair key. Saving stays
// disarmed from Switch until Arm, so nothing captured mid-switch is written.
// Storage failures are logged; state continues in memory.
type Keeper struct {
	store port.PrefsStore

	mu    sync.Mutex
	key   string
	armed bool
}

func NewKeeper(store port.PrefsStore) *Keeper {
	return &Keeper{store: store}
}

// Switch disarms saving, moves to key and loads what is stored there.
func (k *Keeper) Switch(ctx context.Context, key string) domain.Preferences {
	k.mu.Lock()
	k.key = key
	k.armed = false
	k.mu.Unlock()

	if k.store == nil {
		return domain.Preferences{}
	}
	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()
	p, err := k.store.Load(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs load failed, starting empty")
		return domain.Preferences{}
	}
	return p
}

// Arm enables saving for the current key.
func (k *Keeper) Arm() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.armed = true
}

// Save persists p under the current key if armed.
func (k *Keeper) Save(ctx context.Context, p domain.Preferences) {
	k.mu.Lock()
	key, armed := k.key, k.armed
	k.mu.Unlock()
	if !armed || key == "" || k.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()
	if err := k.store.Save(ctx, key, p); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("prefs save failed, keeping in memory")
	}
}

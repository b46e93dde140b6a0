package stream

import (
	"context"
	"errors"
	"sync"

	"xprem/internal/application/port"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Manager runs the ingestors of the active market pair. Start replaces any
// previous set; the old connections are fully torn down before it returns.
type Manager struct {
	cfg Config

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg.withDefaults()}
}

// Start launches one ingestor per side. A side that exhausts its retries
// stays closed; the other side keeps running.
func (m *Manager) Start(parent context.Context, sides []Side, sink PriceSink, rates RateRouter, onState func(Side, State)) {
	m.Stop()

	ctx, cancel := context.WithCancel(parent)
	members := make([]*Ingestor, 0, len(sides))
	for _, s := range sides {
		side := s
		var cb func(State)
		if onState != nil {
			cb = func(st State) { onState(side, st) }
		}
		members = append(members, NewIngestor(side, m.cfg, sink, rates, cb))
	}

	var g errgroup.Group
	for _, in := range members {
		g.Go(func() error {
			err := in.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Str("market", in.side.Market.Key()).Err(err).Msg("ingestor stopped")
			}
			return nil
		})
	}
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	m.mu.Lock()
	m.cancel, m.done = cancel, done
	m.mu.Unlock()
}

// Stop cancels the running ingestors and waits for them to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

var _ port.StreamRunner = (*Manager)(nil)

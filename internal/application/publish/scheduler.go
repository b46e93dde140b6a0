// Package publish turns bursty price writes into fixed-cadence row updates.
package publish

import (
	"sync"
	"time"

	"xprem/internal/application/store"
	"xprem/internal/domain"
)

// DefaultInterval caps publishes at roughly one per display frame.
const DefaultInterval = 16 * time.Millisecond

// Update is one batched publish: the rows whose prices changed.
type Update struct {
	Rows []domain.MarketRow
}

type Config struct {
	Interval  time.Duration
	OnPublish func(Update)
	OnRate    func(rate float64)
}

// Scheduler wraps the price store. Writes land in the store immediately and
// mark their ticker pending; pending tickers are recomputed into rows at most
// once per interval. While paused, writes still land but publishes are held
// until Resume, which publishes everything in one batch.
type Scheduler struct {
	store *store.PriceStore
	table *Table
	cfg   Config

	mu        sync.Mutex
	a, b      domain.MarketID
	pending   map[string]struct{}
	timer     *time.Timer
	scheduled bool
	paused    bool
	gen       uint64

	heldRate    float64
	hasHeldRate bool

	// serializes deliveries so consumers see publishes in order
	deliverMu sync.Mutex
}

func NewScheduler(s *store.PriceStore, t *Table, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{
		store:   s,
		table:   t,
		cfg:     cfg,
		pending: make(map[string]struct{}),
	}
}

// Reset binds the scheduler to a new pair of markets and discards everything
// pending for the previous one. A timer armed for the old pair becomes a no-op
// and an in-flight publish completes before Reset returns.
func (s *Scheduler) Reset(a, b domain.MarketID) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.a, s.b = a, b
	clear(s.pending)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.scheduled = false
	s.hasHeldRate = false
}

// Write stores the price and marks the ticker for the next publish. Writes
// for a market the scheduler is not bound to are dropped, so a late tick from
// a replaced pair never reaches the store.
func (s *Scheduler) Write(m domain.MarketID, ticker string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m != s.a && m != s.b {
		return
	}
	s.store.Write(m, ticker, price)
	s.pending[ticker] = struct{}{}
	s.scheduleLocked()
}

// Touch marks tickers pending without writing a price, so rows are created
// for instruments that have not traded yet.
func (s *Scheduler) Touch(tickers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickers {
		s.pending[t] = struct{}{}
	}
	s.scheduleLocked()
}

func (s *Scheduler) scheduleLocked() {
	if s.scheduled || s.paused || len(s.pending) == 0 {
		return
	}
	s.scheduled = true
	gen := s.gen
	s.timer = time.AfterFunc(s.cfg.Interval, func() { s.flush(gen) })
}

// PublishRate delivers the cross-rate right away, bypassing the batch. While
// paused the latest value is held and delivered on Resume.
func (s *Scheduler) PublishRate(rate float64) {
	s.mu.Lock()
	if s.paused {
		s.heldRate = rate
		s.hasHeldRate = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if s.cfg.OnRate != nil {
		s.cfg.OnRate(rate)
	}
}

func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume performs one synchronous catch-up publish.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	rate, hasRate := s.heldRate, s.hasHeldRate
	s.hasHeldRate = false
	gen := s.gen
	s.mu.Unlock()

	if hasRate && s.cfg.OnRate != nil {
		s.cfg.OnRate(rate)
	}
	s.flush(gen)
}

func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Flush publishes pending tickers now.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.flush(gen)
}

func (s *Scheduler) flush(gen uint64) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.scheduled = false
	if s.paused || len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	tickers := make([]string, 0, len(s.pending))
	for t := range s.pending {
		tickers = append(tickers, t)
	}
	clear(s.pending)
	a, b := s.a, s.b
	s.mu.Unlock()

	var changed []domain.MarketRow
	for _, t := range tickers {
		pa, pb := s.store.ReadPair(a, b, t)
		if row, ok := s.table.Upsert(t, pa, pb); ok {
			changed = append(changed, row)
		}
	}
	if len(changed) == 0 || s.cfg.OnPublish == nil {
		return
	}
	s.cfg.OnPublish(Update{Rows: changed})
}

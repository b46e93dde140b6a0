package monitor

import (
	"context"
	"strings"

	"xprem/internal/application/port"
	"xprem/internal/application/publish"
	"xprem/internal/domain"
)

// viewState is what the render side sees. Guarded by Service.vmu.
type viewState struct {
	a, b    domain.MarketID
	label   string
	mode    string
	rows    []domain.MarketRow // id order
	order   []string
	rate    float64
	known   bool
	states  [2]port.ConnState
	version uint64
}

func (s *Service) rerankLocked() {
	rows := s.table.Rows()
	order, _ := s.ranker.Rank(rows, s.view.rate, s.prefs.IsOpen)
	s.view.rows = rows
	s.view.order = order
	s.view.version++
}

// onPublish runs once per scheduler batch. The scheduler already drops
// batches of a replaced pair.
func (s *Service) onPublish(publish.Update) {
	s.vmu.Lock()
	s.rerankLocked()
	s.vmu.Unlock()
}

func (s *Service) onRate(rate float64) {
	s.vmu.Lock()
	s.view.rate, s.view.known = rate, true
	s.rerankLocked()
	s.vmu.Unlock()
}

func (s *Service) onState(gen uint64) func(port.StreamSide, port.ConnState) {
	return func(side port.StreamSide, st port.ConnState) {
		if s.gen.Load() != gen {
			return
		}
		s.vmu.Lock()
		switch side.Market {
		case s.view.a:
			s.view.states[0] = st
		case s.view.b:
			s.view.states[1] = st
		}
		s.view.version++
		s.vmu.Unlock()
	}
}

// View returns the current snapshot.
func (s *Service) View() View {
	s.vmu.Lock()
	defer s.vmu.Unlock()

	byTicker := make(map[string]domain.MarketRow, len(s.view.rows))
	for _, r := range s.view.rows {
		byTicker[r.Ticker] = r
	}
	rows := make([]Row, 0, len(s.view.order))
	for _, t := range s.view.order {
		r, ok := byTicker[t]
		if !ok {
			continue
		}
		rate := s.view.rate
		rows = append(rows, Row{
			MarketRow: r,
			Premium:   r.Premium(rate),
			Arbitrage: r.Arbitrageable(rate),
			Expanded:  r.IsPinned && s.prefs.IsOpen(t),
		})
	}
	return View{
		Pair:           s.view.label,
		A:              s.view.a,
		B:              s.view.b,
		CrossRate:      s.view.rate,
		CrossRateKnown: s.view.known,
		CrossRateMode:  s.view.mode,
		Rows:           rows,
		States:         s.view.states,
		Paused:         s.sched.Paused(),
		Frozen:         s.ranker.Frozen(),
		Version:        s.view.version,
	}
}

func (s *Service) Pause() {
	s.sched.Pause()
	s.bump()
}

// Resume publishes everything written while paused in one go.
func (s *Service) Resume() {
	s.sched.Resume()
	s.bump()
}

// SetFrozen holds the current row order while the user is interacting.
// Releasing recomputes from current inputs.
func (s *Service) SetFrozen(frozen bool) {
	s.ranker.SetFrozen(frozen)
	s.vmu.Lock()
	s.rerankLocked()
	s.vmu.Unlock()
}

func (s *Service) bump() {
	s.vmu.Lock()
	s.view.version++
	s.vmu.Unlock()
}

func (s *Service) TogglePin(ctx context.Context, ticker string) {
	s.updatePrefs(ctx, func() { s.prefs.TogglePin(normTicker(ticker)) })
}

func (s *Service) ToggleMute(ctx context.Context, ticker string) {
	s.updatePrefs(ctx, func() { s.prefs.ToggleMute(normTicker(ticker)) })
}

func (s *Service) ToggleExpand(ctx context.Context, ticker string) {
	s.updatePrefs(ctx, func() { s.prefs.ToggleExpand(normTicker(ticker)) })
}

// ResetPrefs clears pinned, muted and open sets and the row flags.
func (s *Service) ResetPrefs(ctx context.Context) {
	s.updatePrefs(ctx, s.prefs.Reset)
}

func (s *Service) Preferences() domain.Preferences { return s.prefs.Snapshot() }

// updatePrefs applies a toggle under switchMu: a toggle issued during a pair
// switch lands on the new pair after its preferences were restored.
func (s *Service) updatePrefs(ctx context.Context, apply func()) {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	apply()

	p := s.prefs.Snapshot()
	s.table.ApplyFlags(p.Pinned, p.Muted)
	s.keeper.Save(ctx, p)
	s.vmu.Lock()
	s.rerankLocked()
	s.vmu.Unlock()
}

func normTicker(t string) string { return strings.ToUpper(strings.TrimSpace(t)) }

// Package ranking orders rows for display.
package ranking

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"xprem/internal/domain"
)

// OpenFunc reports whether a ticker is expanded. Callers pass the raw open
// set; only pinned rows count as open.
type OpenFunc func(ticker string) bool

func tier(r domain.MarketRow, open OpenFunc) int {
	switch {
	case r.IsPinned && open != nil && open(r.Ticker):
		return 0
	case r.IsPinned:
		return 1
	case r.IsMuted:
		return 3
	default:
		return 2
	}
}

// Order returns tickers in display order: open+pinned, pinned, the rest by
// descending |premium|, muted last; ties by ascending id.
func Order(rows []domain.MarketRow, crossRate float64, open OpenFunc) []string {
	type keyed struct {
		row  domain.MarketRow
		tier int
		abs  float64
	}
	ks := make([]keyed, len(rows))
	for i, r := range rows {
		ks[i] = keyed{row: r, tier: tier(r, open), abs: math.Abs(r.Premium(crossRate))}
	}
	slices.SortFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.tier, b.tier); c != 0 {
			return c
		}
		if c := cmp.Compare(b.abs, a.abs); c != 0 {
			return c
		}
		return cmp.Compare(a.row.ID, b.row.ID)
	})
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.row.Ticker
	}
	return out
}

// Ranker keeps the last published order. The returned slice is the same one
// as before whenever the order did not change, and is never mutated after
// being returned.
type Ranker struct {
	mu     sync.Mutex
	frozen bool
	last   []string
}

func NewRanker() *Ranker { return &Ranker{} }

// Rank recomputes the order unless frozen. While frozen the previous order is
// kept verbatim; rows that appeared since are appended by id and rows that
// disappeared are dropped.
func (r *Ranker) Rank(rows []domain.MarketRow, crossRate float64, open OpenFunc) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next []string
	if r.frozen && r.last != nil {
		next = reconcile(r.last, rows)
	} else {
		next = Order(rows, crossRate, open)
	}
	if r.last != nil && slices.Equal(next, r.last) {
		return r.last, false
	}
	r.last = next
	return next, true
}

func reconcile(prev []string, rows []domain.MarketRow) []string {
	present := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		present[row.Ticker] = struct{}{}
	}
	out := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(prev))
	for _, t := range prev {
		if _, ok := present[t]; !ok {
			continue
		}
		out = append(out, t)
		seen[t] = struct{}{}
	}
	// rows are id-ordered by the table
	for _, row := range rows {
		if _, ok := seen[row.Ticker]; !ok {
			out = append(out, row.Ticker)
		}
	}
	return out
}

func (r *Ranker) SetFrozen(frozen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = frozen
}

func (r *Ranker) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}

// Reset forgets the last order, e.g. after a market-pair switch.
func (r *Ranker) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = nil
}

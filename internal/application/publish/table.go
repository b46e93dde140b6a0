package publish

import (
	"slices"
	"sync"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// Table owns the MarketRow objects. Row ids come from a counter that is never
// reset, so an id is never handed out twice.
type Table struct {
	mu      sync.RWMutex
	nextID  uint64
	rows    map[string]domain.MarketRow
	pinned  map[string]bool
	muted   map[string]bool
	wallets port.WalletSource
}

func NewTable(wallets port.WalletSource) *Table {
	return &Table{
		rows:    make(map[string]domain.MarketRow),
		pinned:  make(map[string]bool),
		muted:   make(map[string]bool),
		wallets: wallets,
	}
}

// Upsert creates or updates the row for ticker. It reports changed=false and
// returns the prior row untouched when neither price moved.
func (t *Table) Upsert(ticker string, priceA, priceB float64) (domain.MarketRow, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.rows[ticker]; ok {
		if prev.PriceA == priceA && prev.PriceB == priceB {
			return prev, false
		}
		prev.PriceA = priceA
		prev.PriceB = priceB
		t.rows[ticker] = prev
		return prev, true
	}

	t.nextID++
	row := domain.MarketRow{
		ID:       t.nextID,
		Ticker:   ticker,
		PriceA:   priceA,
		PriceB:   priceB,
		IsPinned: t.pinned[ticker],
		IsMuted:  t.muted[ticker],
	}
	if t.wallets != nil {
		row.WalletStatus = t.wallets.WalletStatus(ticker)
	}
	t.rows[ticker] = row
	return row, true
}

// ApplyFlags replaces the pinned/muted sets and rewrites the flags of every row.
func (t *Table) ApplyFlags(pinned, muted []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.pinned)
	clear(t.muted)
	for _, s := range pinned {
		t.pinned[s] = true
	}
	for _, s := range muted {
		t.muted[s] = true
	}
	for k, row := range t.rows {
		row.IsPinned = t.pinned[k]
		row.IsMuted = t.muted[k]
		t.rows[k] = row
	}
}

func (t *Table) Get(ticker string) (domain.MarketRow, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[ticker]
	return r, ok
}

// Rows returns all rows ordered by id.
func (t *Table) Rows() []domain.MarketRow {
	t.mu.RLock()
	out := make([]domain.MarketRow, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	t.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.MarketRow) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Clear drops every row; ids keep counting.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.rows)
}

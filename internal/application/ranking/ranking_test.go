package ranking

import (
	"slices"
	"testing"

	"xprem/internal/domain"
)

func openSet(tickers ...string) OpenFunc {
	return func(t string) bool { return slices.Contains(tickers, t) }
}

// premiums at cross-rate 1 with PriceB = 100
func row(id uint64, ticker string, premium float64) domain.MarketRow {
	return domain.MarketRow{ID: id, Ticker: ticker, PriceA: 100 * (1 + premium), PriceB: 100}
}

func exampleRows() []domain.MarketRow {
	a := row(1, "A", 0.001)
	a.IsPinned = true
	b := row(2, "B", 0)
	b.IsPinned = true
	c := row(3, "C", 0.5)
	c.IsMuted = true
	d := row(4, "D", 0.02)
	e := row(5, "E", -0.05)
	return []domain.MarketRow{c, e, a, d, b}
}

func TestOrderTiers(t *testing.T) {
	got := Order(exampleRows(), 1, openSet("A"))
	want := []string{"A", "B", "E", "D", "C"}
	if !slices.Equal(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
}

func TestOpenRequiresPinned(t *testing.T) {
	rows := exampleRows()
	// D is open but not pinned: it must not jump ahead of pinned rows
	got := Order(rows, 1, openSet("D", "B"))
	want := []string{"B", "A", "E", "D", "C"}
	if !slices.Equal(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
}

func TestTieBreakByID(t *testing.T) {
	rows := []domain.MarketRow{row(9, "Z", 0), row(3, "Y", 0), row(5, "X", 0)}
	got := Order(rows, 1, nil)
	if !slices.Equal(got, []string{"Y", "X", "Z"}) {
		t.Fatalf("Order = %v", got)
	}
	// unknown cross-rate: every premium is 0, order falls back to id
	got = Order([]domain.MarketRow{row(2, "B", 0.5), row(1, "A", 0.1)}, 0, nil)
	if !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("Order with unknown rate = %v", got)
	}
}

func TestRankerReferentialStability(t *testing.T) {
	r := NewRanker()
	rows := exampleRows()
	first, changed := r.Rank(rows, 1, openSet("A"))
	if !changed {
		t.Fatal("first rank is a change")
	}
	second, changed := r.Rank(rows, 1, openSet("A"))
	if changed || &second[0] != &first[0] {
		t.Fatal("equal order must return the same slice")
	}
}

func TestFreeze(t *testing.T) {
	r := NewRanker()
	rows := exampleRows()
	before, _ := r.Rank(rows, 1, openSet("A"))

	r.SetFrozen(true)
	// E collapses, D jumps: would reorder if not frozen
	rows[1] = row(5, "E", 0.0001)
	rows[3] = row(4, "D", 0.3)
	for i := 0; i < 3; i++ {
		got, changed := r.Rank(rows, 1, openSet("A"))
		if changed || !slices.Equal(got, before) {
			t.Fatalf("frozen rank changed: %v", got)
		}
	}

	r.SetFrozen(false)
	got, _ := r.Rank(rows, 1, openSet("A"))
	if want := Order(rows, 1, openSet("A")); !slices.Equal(got, want) {
		t.Fatalf("after release got %v, want fresh %v", got, want)
	}
	if !slices.Equal(got, []string{"A", "B", "D", "E", "C"}) {
		t.Fatalf("unexpected order after release: %v", got)
	}
}

func TestFreezeKeepsNewRowsVisible(t *testing.T) {
	r := NewRanker()
	rows := []domain.MarketRow{row(1, "A", 0.01), row(2, "B", 0.02)}
	r.Rank(rows, 1, nil)
	r.SetFrozen(true)
	rows = append(rows[1:], row(3, "C", 0.9))
	got, changed := r.Rank(rows, 1, nil)
	if !changed || !slices.Equal(got, []string{"B", "C"}) {
		t.Fatalf("frozen reconcile = %v, %v", got, changed)
	}
}

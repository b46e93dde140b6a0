// Package pair selects the two markets being compared.
package pair

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/domain"

	"golang.org/x/sync/errgroup"
)

// MarketPair is the active comparison. CrossRate is fixed for the pair's lifetime.
type MarketPair struct {
	A, B          domain.MarketID
	AdapterA      port.Adapter
	AdapterB      port.Adapter
	CommonTickers []string
	CrossRate     domain.CrossRateConfig
}

// Key identifies the pair for preference storage.
func (p MarketPair) Key() string {
	return application.PrefsKeyPrefix + p.A.Key() + "|" + p.B.Key()
}

func (p MarketPair) String() string {
	return p.A.Key() + " vs " + p.B.Key()
}

// WithTickers returns a copy with a different common ticker set.
func (p MarketPair) WithTickers(tickers []string) MarketPair {
	p.CommonTickers = slices.Clone(tickers)
	return p
}

// New builds a pair from the adapters' cached lists so it can render
// immediately. reference is the derived cross-rate instrument.
func New(a port.Adapter, quoteA string, b port.Adapter, quoteB string, reference string) (MarketPair, error) {
	quoteA = strings.ToUpper(strings.TrimSpace(quoteA))
	quoteB = strings.ToUpper(strings.TrimSpace(quoteB))
	if a == nil || b == nil {
		return MarketPair{}, fmt.Errorf("market pair needs two adapters")
	}
	if !slices.Contains(a.QuoteCurrencies(), quoteA) {
		return MarketPair{}, fmt.Errorf("%s does not quote %s", a.ID(), quoteA)
	}
	if !slices.Contains(b.QuoteCurrencies(), quoteB) {
		return MarketPair{}, fmt.Errorf("%s does not quote %s", b.ID(), quoteB)
	}
	ma := domain.NewMarketID(a.ID(), quoteA)
	mb := domain.NewMarketID(b.ID(), quoteB)
	if ma == mb {
		return MarketPair{}, fmt.Errorf("market pair sides are identical: %s", ma)
	}
	return MarketPair{
		A:             ma,
		B:             mb,
		AdapterA:      a,
		AdapterB:      b,
		CommonTickers: CommonTickers(a.AvailableTickers(quoteA), b.AvailableTickers(quoteB)),
		CrossRate:     BuildCrossRate(a.ID(), quoteA, quoteB, reference),
	}, nil
}

// CommonTickers intersects two lists, keeping the order of a.
func CommonTickers(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	out := make([]string, 0, min(len(a), len(b)))
	seen := make(map[string]struct{}, len(a))
	for _, t := range a {
		if _, ok := inB[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// FetchCommonTickers refreshes both sides concurrently and intersects.
// Adapters never fail here; they fall back to their cached lists.
func FetchCommonTickers(ctx context.Context, p MarketPair) []string {
	var ta, tb []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ta = p.AdapterA.FetchAvailableTickers(gctx, p.A.Quote)
		return nil
	})
	g.Go(func() error {
		tb = p.AdapterB.FetchAvailableTickers(gctx, p.B.Quote)
		return nil
	})
	_ = g.Wait()
	return CommonTickers(ta, tb)
}

// BuildCrossRate: same quote is fixed 1; KRW against a dollar stablecoin uses
// side A's KRW-<stable> ticker; anything else derives from the reference.
func BuildCrossRate(exchangeA, quoteA, quoteB, reference string) domain.CrossRateConfig {
	if quoteA == quoteB {
		return domain.FixedCrossRate()
	}
	if quoteA == application.QuoteKRW && isStable(quoteB) {
		return domain.TickerCrossRate(exchangeA, application.QuoteKRW+"-"+quoteB)
	}
	return domain.DerivedCrossRate(reference)
}

func isStable(q string) bool {
	return q == application.QuoteUSDT || q == application.QuoteUSDC
}

func quotesKRW(a port.Adapter) bool {
	return slices.Contains(a.QuoteCurrencies(), application.QuoteKRW)
}

// Stablecoins lists the quote choices for a pair of exchanges: the non-KRW
// side's quotes when exactly one side is a KRW market, none when both are,
// otherwise the quotes both sides share.
func Stablecoins(a, b port.Adapter) []string {
	krwA, krwB := quotesKRW(a), quotesKRW(b)
	switch {
	case krwA && krwB:
		return nil
	case krwA:
		return b.QuoteCurrencies()
	case krwB:
		return a.QuoteCurrencies()
	}
	qb := b.QuoteCurrencies()
	var out []string
	for _, q := range a.QuoteCurrencies() {
		if slices.Contains(qb, q) {
			out = append(out, q)
		}
	}
	return out
}

// DefaultQuotes picks quotes for a pair of exchanges the way a fresh
// selection does: KRW on a KRW side, the first shared stablecoin otherwise.
func DefaultQuotes(a, b port.Adapter) (string, string) {
	stables := Stablecoins(a, b)
	stable := application.QuoteUSDT
	if len(stables) > 0 {
		stable = stables[0]
	}
	qa, qb := stable, stable
	if quotesKRW(a) {
		qa = application.QuoteKRW
	}
	if quotesKRW(b) {
		qb = application.QuoteKRW
	}
	return qa, qb
}

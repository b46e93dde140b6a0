// Package crossrate resolves the conversion factor between two quote currencies.
package crossrate

import (
	"sync"

	"xprem/internal/domain"

	"github.com/rs/zerolog/log"
)

// PriceReader is the read side of the price store.
type PriceReader interface {
	Read(m domain.MarketID, ticker string) (float64, bool)
}

// Resolver holds the current cross-rate for one market pair. A rate of 0 with
// known=false means nothing has been resolved yet.
type Resolver struct {
	cfg      domain.CrossRateConfig
	a, b     domain.MarketID
	prices   PriceReader
	onChange func(float64)

	mu    sync.Mutex
	rate  float64
	known bool
}

func New(cfg domain.CrossRateConfig, a, b domain.MarketID, prices PriceReader, onChange func(float64)) *Resolver {
	r := &Resolver{cfg: cfg, a: a, b: b, prices: prices, onChange: onChange}
	if cfg.Kind == domain.CrossRateFixed {
		r.rate, r.known = 1, true
	}
	return r
}

func (r *Resolver) Rate() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate, r.known
}

// Claims reports whether a tick from exchangeID is the streamed cross-rate
// instrument rather than a regular row.
func (r *Resolver) Claims(exchangeID string, t domain.Tick) bool {
	return r.cfg.Kind == domain.CrossRateTicker &&
		exchangeID == r.cfg.Exchange &&
		t.Symbol == r.cfg.Code
}

// Set takes the price of the streamed cross-rate instrument.
func (r *Resolver) Set(price float64) {
	if r.cfg.Kind != domain.CrossRateTicker {
		return
	}
	r.update(price)
}

// Observe is called after a regular tick was stored. In derived mode an update
// of the reference instrument recomputes refA / refB when both are positive.
func (r *Resolver) Observe(ticker string) {
	if r.cfg.Kind != domain.CrossRateDerived || ticker != r.cfg.Reference {
		return
	}
	r.Recompute()
}

// Recompute re-derives the rate from the stored reference prices.
func (r *Resolver) Recompute() {
	if r.cfg.Kind != domain.CrossRateDerived {
		return
	}
	pa, _ := r.prices.Read(r.a, r.cfg.Reference)
	pb, _ := r.prices.Read(r.b, r.cfg.Reference)
	if pa <= 0 || pb <= 0 {
		return
	}
	r.update(pa / pb)
}

func (r *Resolver) update(rate float64) {
	if rate <= 0 {
		return
	}
	r.mu.Lock()
	if r.known && r.rate == rate {
		r.mu.Unlock()
		return
	}
	first := !r.known
	r.rate, r.known = rate, true
	r.mu.Unlock()

	if first {
		log.Info().Str("mode", r.cfg.String()).Float64("rate", rate).Msg("cross-rate resolved")
	}
	if r.onChange != nil {
		r.onChange(rate)
	}
}

// Package store holds the latest price per (market, ticker).
package store

import (
	"maps"
	"sync"

	"xprem/internal/domain"
)

// PriceStore is a last-write-wins map from market to ticker to price.
// Safe for concurrent writers and readers.
type PriceStore struct {
	mu      sync.RWMutex
	markets map[domain.MarketID]map[string]float64
}

func New() *PriceStore {
	return &PriceStore{markets: make(map[domain.MarketID]map[string]float64)}
}

func (s *PriceStore) Write(m domain.MarketID, ticker string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tm := s.markets[m]
	if tm == nil {
		tm = make(map[string]float64)
		s.markets[m] = tm
	}
	tm[ticker] = price
}

func (s *PriceStore) Read(m domain.MarketID, ticker string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.markets[m][ticker]
	return p, ok
}

// ReadPair reads both sides under one lock.
func (s *PriceStore) ReadPair(a, b domain.MarketID, ticker string) (pa, pb float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markets[a][ticker], s.markets[b][ticker]
}

// Seed writes prices only where no price is stored yet, so REST snapshots
// never overwrite stream data.
func (s *PriceStore) Seed(m domain.MarketID, prices map[string]float64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tm := s.markets[m]
	if tm == nil {
		tm = make(map[string]float64, len(prices))
		s.markets[m] = tm
	}
	var seeded []string
	for t, p := range prices {
		if p <= 0 {
			continue
		}
		if _, ok := tm[t]; ok {
			continue
		}
		tm[t] = p
		seeded = append(seeded, t)
	}
	return seeded
}

// Market returns a copy of one market's prices.
func (s *PriceStore) Market(m domain.MarketID) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.markets[m])
}

func (s *PriceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.markets)
}

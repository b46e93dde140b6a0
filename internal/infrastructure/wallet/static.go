package wallet

import (
	"slices"
	"strings"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// Entry is one network's capabilities on both sides of a pair.
type Entry struct {
	Ticker  string
	Network string
	A       domain.NetworkStatus
	B       domain.NetworkStatus
}

// Static serves wallet capabilities from a fixed table. Tickers without an
// entry report no networks and are therefore never arbitrage-eligible.
type Static struct {
	byTicker map[string][]domain.WalletStatus
}

func NewStatic(entries []Entry) *Static {
	s := &Static{byTicker: make(map[string][]domain.WalletStatus)}
	for _, e := range entries {
		t := strings.ToUpper(strings.TrimSpace(e.Ticker))
		if t == "" {
			continue
		}
		s.byTicker[t] = append(s.byTicker[t], domain.WalletStatus{
			Network: e.Network,
			MarketA: e.A,
			MarketB: e.B,
		})
	}
	return s
}

func (s *Static) WalletStatus(ticker string) []domain.WalletStatus {
	return slices.Clone(s.byTicker[strings.ToUpper(ticker)])
}

func (s *Static) Len() int { return len(s.byTicker) }

var _ port.WalletSource = (*Static)(nil)

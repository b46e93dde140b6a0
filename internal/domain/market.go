package domain

import (
	"strings"
)

// MarketID identifies one side of a comparison: an exchange quoted in one currency.
type MarketID struct {
	Exchange string
	Quote    string
}

func NewMarketID(exchange, quote string) MarketID {
	return MarketID{
		Exchange: strings.ToLower(strings.TrimSpace(exchange)),
		Quote:    strings.ToUpper(strings.TrimSpace(quote)),
	}
}

// Key returns "exchange:QUOTE", e.g. "upbit:KRW".
func (m MarketID) Key() string {
	return m.Exchange + ":" + m.Quote
}

func (m MarketID) String() string { return m.Key() }

// ParseMarketID parses the Key form back into a MarketID.
func ParseMarketID(s string) (MarketID, bool) {
	ex, q, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || ex == "" || q == "" {
		return MarketID{}, false
	}
	return NewMarketID(ex, q), true
}

// Tick is a normalized price update produced by an exchange adapter.
// Symbol keeps the exchange-local instrument code (e.g. "KRW-USDT") so that
// cross-rate instruments can be recognized after normalization.
type Tick struct {
	Ticker string
	Symbol string
	Price  float64
	Quote  string
}

// NetworkStatus is the deposit/withdraw capability of one settlement network on one market.
type NetworkStatus struct {
	Deposit  bool `json:"deposit" toml:"deposit"`
	Withdraw bool `json:"withdraw" toml:"withdraw"`
}

// WalletStatus pairs the capability of one network on both markets.
type WalletStatus struct {
	Network string        `json:"network"`
	MarketA NetworkStatus `json:"marketA"`
	MarketB NetworkStatus `json:"marketB"`
}

// MarketRow is the published view of one instrument. A zero price means no data yet.
type MarketRow struct {
	ID           uint64
	Ticker       string
	PriceA       float64
	PriceB       float64
	WalletStatus []WalletStatus
	IsPinned     bool
	IsMuted      bool
}

// Premium of the row at the given cross-rate.
func (r MarketRow) Premium(crossRate float64) float64 {
	return Premium(r.PriceA, r.PriceB, crossRate)
}

// Arbitrageable reports whether the row's premium can be captured over at least one network.
func (r MarketRow) Arbitrageable(crossRate float64) bool {
	return Arbitrageable(r.Premium(crossRate), r.WalletStatus)
}

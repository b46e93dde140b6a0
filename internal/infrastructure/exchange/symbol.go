package exchange

import (
	"slices"
	"strings"
)

// DefaultAliases 各交易所的本地符号 -> 统一符号映射
var DefaultAliases = map[string]map[string]string{
	"binance": {"BEAMX": "BEAM"},
}

// Normalizer 交易所本地符号与统一符号之间的双向映射
// 未映射的符号原样透传
type Normalizer struct {
	toCanonical map[string]string
	toExchange  map[string]string
}

// NewNormalizer 合并默认别名与配置别名（配置优先），构建双向映射。
// 多个本地符号映射到同一统一符号时只保留第一个，保证映射是双射。
func NewNormalizer(exchangeID string, extra map[string]string) *Normalizer {
	n := &Normalizer{
		toCanonical: make(map[string]string),
		toExchange:  make(map[string]string),
	}
	merged := make(map[string]string)
	for k, v := range DefaultAliases[exchangeID] {
		merged[k] = v
	}
	for k, v := range extra {
		merged[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}

	// 按本地符号排序插入，重复目标时结果确定
	local := make([]string, 0, len(merged))
	for k := range merged {
		local = append(local, k)
	}
	slices.Sort(local)
	for _, k := range local {
		v := merged[k]
		if k == "" || v == "" || k == v {
			continue
		}
		if _, taken := n.toExchange[v]; taken {
			continue
		}
		n.toCanonical[k] = v
		n.toExchange[v] = k
	}
	return n
}

// ToCanonical 例: BEAMX -> BEAM (binance)
func (n *Normalizer) ToCanonical(sym string) string {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	if v, ok := n.toCanonical[sym]; ok {
		return v
	}
	return sym
}

// ToExchange 例: BEAM -> BEAMX (binance)
func (n *Normalizer) ToExchange(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if v, ok := n.toExchange[ticker]; ok {
		return v
	}
	return ticker
}

// SymbolConverter 交易对 <-> 币种
type SymbolConverter interface {
	// Symbol2Coin 例: BTCUSDT -> BTC, BTC-USDT -> BTC
	Symbol2Coin(symbol string) (string, bool)
	// Coin2Symbol 例: BTC -> BTCUSDT
	Coin2Symbol(coin string) string
}

// SuffixConverter 无分隔符格式，如 BTCUSDT
type SuffixConverter struct {
	Quote string
}

func (c SuffixConverter) Symbol2Coin(symbol string) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	q := strings.ToUpper(c.Quote)
	if q == "" || !strings.HasSuffix(sym, q) || len(sym) == len(q) {
		return "", false
	}
	return strings.TrimSuffix(sym, q), true
}

func (c SuffixConverter) Coin2Symbol(coin string) string {
	return strings.ToUpper(strings.TrimSpace(coin)) + strings.ToUpper(c.Quote)
}

// DashConverter 分隔符格式。QuoteFirst 为 true 时是 KRW-BTC，否则 BTC-USDT
type DashConverter struct {
	Quote      string
	QuoteFirst bool
}

func (c DashConverter) Symbol2Coin(symbol string) (string, bool) {
	a, b, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(symbol)), "-")
	if !ok || a == "" || b == "" {
		return "", false
	}
	q := strings.ToUpper(c.Quote)
	if c.QuoteFirst {
		if q != "" && a != q {
			return "", false
		}
		return b, true
	}
	if q != "" && b != q {
		return "", false
	}
	return a, true
}

func (c DashConverter) Coin2Symbol(coin string) string {
	coin = strings.ToUpper(strings.TrimSpace(coin))
	q := strings.ToUpper(c.Quote)
	if c.QuoteFirst {
		return q + "-" + coin
	}
	return coin + "-" + q
}

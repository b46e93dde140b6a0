package binance

import (
	"errors"
	"strings"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/exchange"

	"github.com/goccy/go-json"
)

const (
	DefaultWsURL   = "wss://stream.binance.com:9443/ws"
	DefaultRestURL = "https://data-api.binance.vision"
)

// REST 不可用时首屏使用的列表
var (
	usdtFallback = []string{
		"BTC", "ETH", "XRP", "SOL", "TRX", "PENGU", "AXS", "ALGO",
		"KAITO", "MOVE", "SUI", "CHZ", "PUMP", "ADA", "BCH", "FLOW",
		"DOGE", "PEPE", "FIL", "XPL", "NEAR", "AVAX", "UNI",
	}
	usdcFallback = []string{
		"BTC", "ETH", "XRP", "SOL", "DOGE", "ADA", "AVAX", "SUI",
		"NEAR", "PEPE", "UNI",
	}
)

type Adapter struct {
	exchange.Base
}

func New(cfg exchange.Config, cache *exchange.Cache) *Adapter {
	if cfg.WsURL == "" {
		cfg.WsURL = DefaultWsURL
	}
	if cfg.RestURL == "" {
		cfg.RestURL = DefaultRestURL
	}
	a := &Adapter{Base: exchange.NewBase(application.ExchangeBinance, "Binance",
		[]string{application.QuoteUSDT, application.QuoteUSDC}, cfg, cache)}
	a.Fallback = fallback
	return a
}

func fallback(quote string) []string {
	switch quote {
	case application.QuoteUSDT:
		return append([]string(nil), usdtFallback...)
	case application.QuoteUSDC:
		return append([]string(nil), usdcFallback...)
	}
	return nil
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("binance ws_url empty")
	}
	return a.WsURL, nil
}

type subReq struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int      `json:"id"`
}

// SubscribeMessages {"method":"SUBSCRIBE","params":["btcusdt@trade",...],"id":1}
func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	conv := exchange.SuffixConverter{Quote: quote}
	params := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		params = append(params, strings.ToLower(conv.Coin2Symbol(a.Norm.ToExchange(t)))+"@trade")
	}
	if len(params) == 0 {
		return nil, errors.New("no symbols for binance streams")
	}
	b, err := json.Marshal(subReq{Method: "SUBSCRIBE", Params: params, ID: 1})
	if err != nil {
		return nil, err
	}
	return [][]byte{b}, nil
}

type tradeMsg struct {
	Symbol string `json:"s"`
	Price  string `json:"p"`
}

// combined stream: {"stream":"btcusdt@trade","data":{...}}
type envelope struct {
	tradeMsg
	Data *tradeMsg `json:"data"`
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	var env envelope
	if err := json.Unmarshal(f.Data, &env); err != nil {
		return port.None()
	}
	msg := env.tradeMsg
	if env.Data != nil {
		msg = *env.Data
	}
	// 订阅回执 {"result":null,"id":1} 没有 s/p
	if msg.Symbol == "" || msg.Price == "" {
		return port.None()
	}
	px, err := exchange.ParsePrice(msg.Price)
	if err != nil {
		return port.None()
	}

	sym := strings.ToUpper(msg.Symbol)
	for _, q := range a.QuoteCurrencies() {
		coin, ok := exchange.SuffixConverter{Quote: q}.Symbol2Coin(sym)
		if !ok {
			continue
		}
		return port.Resolved(domain.Tick{
			Ticker: a.Norm.ToCanonical(coin),
			Symbol: sym,
			Price:  px,
			Quote:  q,
		}, true)
	}
	return port.None()
}

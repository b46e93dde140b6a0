package coinbase

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
	DefaultWsURL   = "wss://advanced-trade-ws.coinbase.com"
	DefaultRestURL = "https://api.exchange.coinbase.com"

	// USD 与 USDC 在 Coinbase 合并撮合，对外显示为 USDC
	productQuote = "USD"
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
	return &Adapter{Base: exchange.NewBase(application.ExchangeCoinbase, "Coinbase",
		[]string{application.QuoteUSDC}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("coinbase ws_url empty")
	}
	return a.WsURL, nil
}

type subReq struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channel    string   `json:"channel"`
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	conv := exchange.DashConverter{Quote: productQuote}
	ids := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		ids = append(ids, conv.Coin2Symbol(a.Norm.ToExchange(t)))
	}
	if len(ids) == 0 {
		return nil, errors.New("no product ids for coinbase")
	}
	b, err := json.Marshal(subReq{Type: "subscribe", ProductIDs: ids, Channel: "ticker_batch"})
	if err != nil {
		return nil, err
	}
	return [][]byte{b}, nil
}

type batchMsg struct {
	Channel string `json:"channel"`
	Events  []struct {
		Type    string `json:"type"`
		Tickers []struct {
			ProductID string `json:"product_id"`
			Price     string `json:"price"`
		} `json:"tickers"`
	} `json:"events"`
}

// Parse yields one tick per frame: the first well-formed ticker of the
// batch. The remaining products of the same batch are dropped; they come
// around again in the next batch.
func (a *Adapter) Parse(f port.Frame) port.Pending {
	var msg batchMsg
	if err := json.Unmarshal(f.Data, &msg); err != nil || msg.Channel != "ticker_batch" {
		return port.None()
	}
	for _, ev := range msg.Events {
		for _, it := range ev.Tickers {
			symbol := strings.ToUpper(it.ProductID)
			base, _, ok := strings.Cut(symbol, "-")
			if !ok || base == "" {
				continue
			}
			px, err := exchange.ParsePrice(it.Price)
			if err != nil {
				continue
			}
			return port.Resolved(domain.Tick{
				Ticker: a.Norm.ToCanonical(base),
				Symbol: symbol,
				Price:  px,
				Quote:  application.QuoteUSDC,
			}, true)
		}
	}
	return port.None()
}

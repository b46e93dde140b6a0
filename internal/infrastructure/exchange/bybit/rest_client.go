package bybit

import (
	"context"
	"fmt"
	"net/url"

	"xprem/internal/infrastructure/exchange"
)

type tickersResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []tickerItem `json:"list"`
	} `json:"result"`
}

// FetchAvailableTickers GET /v5/market/tickers?category=spot，列表与价格一次拿到
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, a.fetch)
}

func (a *Adapter) fetch(ctx context.Context, quote string) ([]string, map[string]float64, error) {
	var resp tickersResp
	if err := a.REST.GetJSON(ctx, "/v5/market/tickers", url.Values{"category": {"spot"}}, &resp); err != nil {
		return nil, nil, err
	}
	if resp.RetCode != 0 {
		return nil, nil, fmt.Errorf("bybit retCode=%d: %s", resp.RetCode, resp.RetMsg)
	}
	conv := exchange.SuffixConverter{Quote: quote}
	tickers := make([]string, 0, len(resp.Result.List))
	prices := make(map[string]float64, len(resp.Result.List))
	for _, it := range resp.Result.List {
		coin, ok := conv.Symbol2Coin(it.Symbol)
		if !ok {
			continue
		}
		px, err := exchange.ParsePrice(it.LastPrice)
		if err != nil {
			continue
		}
		canonical := a.Norm.ToCanonical(coin)
		tickers = append(tickers, canonical)
		prices[canonical] = px
	}
	return tickers, prices, nil
}

package bitget

import (
	"context"
	"fmt"

	"xprem/internal/infrastructure/exchange"
)

type tickersResp struct {
	Code string       `json:"code"`
	Msg  string       `json:"msg"`
	Data []tickerData `json:"data"`
}

// FetchAvailableTickers GET /api/v2/spot/market/tickers
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, a.fetch)
}

func (a *Adapter) fetch(ctx context.Context, quote string) ([]string, map[string]float64, error) {
	var resp tickersResp
	if err := a.REST.GetJSON(ctx, "/api/v2/spot/market/tickers", nil, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Code != "00000" {
		return nil, nil, fmt.Errorf("bitget code=%s: %s", resp.Code, resp.Msg)
	}
	conv := exchange.SuffixConverter{Quote: quote}
	tickers := make([]string, 0, len(resp.Data))
	prices := make(map[string]float64, len(resp.Data))
	for _, it := range resp.Data {
		coin, ok := conv.Symbol2Coin(it.Symbol)
		if !ok {
			continue
		}
		px, err := exchange.ParsePrice(it.LastPr)
		if err != nil {
			continue
		}
		canonical := a.Norm.ToCanonical(coin)
		tickers = append(tickers, canonical)
		prices[canonical] = px
	}
	return tickers, prices, nil
}

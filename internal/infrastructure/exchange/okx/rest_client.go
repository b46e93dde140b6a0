package okx

import (
	"context"
	"fmt"
	"net/url"

	"xprem/internal/infrastructure/exchange"
)

type tickersResp struct {
	Code string       `json:"code"`
	Msg  string       `json:"msg"`
	Data []tickerData `json:"data"`
}

// FetchAvailableTickers GET /api/v5/market/tickers?instType=SPOT
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, a.fetch)
}

func (a *Adapter) fetch(ctx context.Context, quote string) ([]string, map[string]float64, error) {
	var resp tickersResp
	if err := a.REST.GetJSON(ctx, "/api/v5/market/tickers", url.Values{"instType": {"SPOT"}}, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Code != "" && resp.Code != "0" {
		return nil, nil, fmt.Errorf("okx code=%s: %s", resp.Code, resp.Msg)
	}
	conv := exchange.DashConverter{Quote: quote}
	tickers := make([]string, 0, len(resp.Data))
	prices := make(map[string]float64, len(resp.Data))
	for _, it := range resp.Data {
		base, ok := conv.Symbol2Coin(it.InstID)
		if !ok {
			continue
		}
		px, err := exchange.ParsePrice(it.Last)
		if err != nil {
			continue
		}
		canonical := a.Norm.ToCanonical(base)
		tickers = append(tickers, canonical)
		prices[canonical] = px
	}
	return tickers, prices, nil
}

package upbit

import (
	"context"
	"strings"

	"xprem/internal/infrastructure/exchange"
)

type market struct {
	Market string `json:"market"`
}

// FetchAvailableTickers GET /v1/market/all，保留 <quote>- 开头的市场
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, func(ctx context.Context, quote string) ([]string, map[string]float64, error) {
		tickers, err := FetchMarkets(ctx, a.REST, a.Norm, quote)
		return tickers, nil, err
	})
}

// FetchMarkets 适用于 Upbit 兼容的 /v1/market/all 接口
func FetchMarkets(ctx context.Context, rest *exchange.RESTClient, norm *exchange.Normalizer, quote string) ([]string, error) {
	var markets []market
	if err := rest.GetJSON(ctx, "/v1/market/all", nil, &markets); err != nil {
		return nil, err
	}
	prefix := strings.ToUpper(quote) + "-"
	out := make([]string, 0, len(markets))
	for _, m := range markets {
		if !strings.HasPrefix(m.Market, prefix) {
			continue
		}
		out = append(out, norm.ToCanonical(strings.TrimPrefix(m.Market, prefix)))
	}
	return out, nil
}

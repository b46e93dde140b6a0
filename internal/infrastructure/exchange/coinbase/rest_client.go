package coinbase

import (
	"context"
)

type product struct {
	ID            string `json:"id"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
	Status        string `json:"status"`
}

// FetchAvailableTickers GET /products，保留 USD 报价且 online 的产品。
// 该接口没有价格，首屏价格由 ticker_batch 快照补齐。
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, a.fetch)
}

func (a *Adapter) fetch(ctx context.Context, quote string) ([]string, map[string]float64, error) {
	var products []product
	if err := a.REST.GetJSON(ctx, "/products", nil, &products); err != nil {
		return nil, nil, err
	}
	tickers := make([]string, 0, len(products))
	for _, p := range products {
		if p.QuoteCurrency != productQuote || p.Status != "online" {
			continue
		}
		tickers = append(tickers, a.Norm.ToCanonical(p.BaseCurrency))
	}
	return tickers, nil, nil
}

package bithumb

import (
	"context"

	"xprem/internal/infrastructure/exchange/upbit"
)

func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, func(ctx context.Context, quote string) ([]string, map[string]float64, error) {
		tickers, err := upbit.FetchMarkets(ctx, a.REST, a.Norm, quote)
		return tickers, nil, err
	})
}

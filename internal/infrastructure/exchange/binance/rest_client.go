package binance

import (
	"context"

	"xprem/internal/infrastructure/exchange"

	"github.com/rs/zerolog/log"
)

type exchangeInfo struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		BaseAsset  string `json:"baseAsset"`
		QuoteAsset string `json:"quoteAsset"`
		Status     string `json:"status"`
	} `json:"symbols"`
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchAvailableTickers GET /api/v3/exchangeInfo（TRADING 状态），
// 顺带 GET /api/v3/ticker/price 作为首屏价格，价格失败不影响列表
func (a *Adapter) FetchAvailableTickers(ctx context.Context, quote string) []string {
	return a.Refresh(ctx, quote, a.fetch)
}

func (a *Adapter) fetch(ctx context.Context, quote string) ([]string, map[string]float64, error) {
	var info exchangeInfo
	if err := a.REST.GetJSON(ctx, "/api/v3/exchangeInfo", nil, &info); err != nil {
		return nil, nil, err
	}
	tickers := make([]string, 0, len(info.Symbols))
	bySymbol := make(map[string]string, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.QuoteAsset != quote || s.Status != "TRADING" {
			continue
		}
		canonical := a.Norm.ToCanonical(s.BaseAsset)
		tickers = append(tickers, canonical)
		bySymbol[s.Symbol] = canonical
	}

	var prices []tickerPrice
	if err := a.REST.GetJSON(ctx, "/api/v3/ticker/price", nil, &prices); err != nil {
		log.Debug().Str("exchange", a.ID()).Err(err).Msg("price snapshot unavailable")
		return tickers, nil, nil
	}
	pm := make(map[string]float64, len(bySymbol))
	for _, p := range prices {
		canonical, ok := bySymbol[p.Symbol]
		if !ok {
			continue
		}
		px, err := exchange.ParsePrice(p.Price)
		if err != nil {
			continue
		}
		pm[canonical] = px
	}
	return tickers, pm, nil
}

package bithumb

import (
	"errors"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/exchange/upbit"
)

const (
	DefaultWsURL   = "wss://ws-api.bithumb.com/websocket/v1"
	DefaultRestURL = "https://api.bithumb.com"
)

// Adapter Bithumb v1 接口与 Upbit 帧格式一致
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
	return &Adapter{Base: exchange.NewBase(application.ExchangeBithumb, "Bithumb", []string{application.QuoteKRW}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("bithumb ws_url empty")
	}
	return a.WsURL, nil
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	b, err := upbit.SubscribeFrame(a.Norm, quote, tickers, auxCode)
	if err != nil {
		return nil, err
	}
	return [][]byte{b}, nil
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	t, ok := upbit.ParseSimple(a.Norm, f.Data)
	return port.Resolved(t, ok)
}

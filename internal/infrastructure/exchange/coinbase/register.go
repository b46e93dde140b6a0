package coinbase

import (
	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/pricefeed"
)

// init() 自动注册 Coinbase 适配器
func init() {
	pricefeed.Register(application.ExchangeCoinbase, func(cfg exchange.Config, cache *exchange.Cache) port.Adapter {
		return New(cfg, cache)
	})
}

package bithumb

import (
	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/pricefeed"
)

// init() 自动注册 Bithumb 适配器
func init() {
	pricefeed.Register(application.ExchangeBithumb, func(cfg exchange.Config, cache *exchange.Cache) port.Adapter {
		return New(cfg, cache)
	})
}

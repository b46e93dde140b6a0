package bitget

import (
	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/pricefeed"
)

// init() 自动注册 Bitget 适配器
func init() {
	pricefeed.Register(application.ExchangeBitget, func(cfg exchange.Config, cache *exchange.Cache) port.Adapter {
		return New(cfg, cache)
	})
}

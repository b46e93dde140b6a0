package binance

import (
	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/pricefeed"
)

// init() 自动注册 Binance 适配器，避免在容器中硬编码
func init() {
	pricefeed.Register(application.ExchangeBinance, func(cfg exchange.Config, cache *exchange.Cache) port.Adapter {
		return New(cfg, cache)
	})
}

package pricefeed

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"

	"github.com/rs/zerolog/log"
)

var ErrUnknownExchange = errors.New("unknown exchange")

// Factory 根据配置与注入的缓存创建适配器
type Factory func(cfg exchange.Config, cache *exchange.Cache) port.Adapter

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register 由各交易所包的 init() 调用来自注册
func Register(exchangeName string, factory Factory) {
	if factory == nil {
		log.Warn().Str("exchange", exchangeName).Msg("invalid adapter factory")
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[exchangeName]; exists {
		log.Warn().Str("exchange", exchangeName).Msg("adapter factory already registered, overwriting")
	}
	registry[exchangeName] = factory
}

// Get 获取已注册的 factory
func Get(exchangeName string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := registry[exchangeName]
	return factory, ok
}

// New 创建指定交易所的适配器
func New(exchangeName string, cfg exchange.Config, cache *exchange.Cache) (port.Adapter, error) {
	factory, ok := Get(exchangeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExchange, exchangeName)
	}
	return factory(cfg, cache), nil
}

// Names 已注册交易所，按字母序
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

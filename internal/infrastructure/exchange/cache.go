package exchange

import (
	"maps"
	"slices"
	"sync"
)

// Cache 单个交易所的标的/价格缓存，按 quote 分组。
// 由容器创建并注入适配器，同一交易所的所有使用者共享。
type Cache struct {
	mu      sync.RWMutex
	tickers map[string][]string
	prices  map[string]map[string]float64
}

func NewCache() *Cache {
	return &Cache{
		tickers: make(map[string][]string),
		prices:  make(map[string]map[string]float64),
	}
}

// Tickers 返回副本；未缓存时 ok=false
func (c *Cache) Tickers(quote string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tickers[quote]
	if !ok {
		return nil, false
	}
	return slices.Clone(t), true
}

func (c *Cache) SetTickers(quote string, tickers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers[quote] = slices.Clone(tickers)
}

// Prices 返回副本，未缓存时为空 map
func (c *Cache) Prices(quote string) map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.prices[quote]
	if p == nil {
		return map[string]float64{}
	}
	return maps.Clone(p)
}

func (c *Cache) SetPrices(quote string, prices map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[quote] = maps.Clone(prices)
}

// Caches 按交易所 ID 持有 Cache
type Caches struct {
	mu sync.Mutex
	m  map[string]*Cache
}

func NewCaches() *Caches {
	return &Caches{m: make(map[string]*Cache)}
}

// For 获取或创建指定交易所的 Cache
func (c *Caches) For(exchangeID string) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cc, ok := c.m[exchangeID]; ok {
		return cc
	}
	cc := NewCache()
	c.m[exchangeID] = cc
	return cc
}

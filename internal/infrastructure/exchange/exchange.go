package exchange

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config 单个交易所适配器的配置
type Config struct {
	WsURL       string
	RestURL     string
	RPS         float64
	HTTPTimeout time.Duration
	Aliases     map[string]string // 本地符号 -> 统一符号
}

// Base 各交易所适配器共用的部分：标识、缓存、别名、REST
type Base struct {
	id     string
	name   string
	quotes []string

	WsURL string
	Cache *Cache
	Norm  *Normalizer
	REST  *RESTClient

	// Fallback REST 不可用且无缓存时的硬编码列表，可为 nil
	Fallback func(quote string) []string
}

func NewBase(id, name string, quotes []string, cfg Config, cache *Cache) Base {
	if cache == nil {
		cache = NewCache()
	}
	return Base{
		id:     id,
		name:   name,
		quotes: quotes,
		WsURL:  strings.TrimSpace(cfg.WsURL),
		Cache:  cache,
		Norm:   NewNormalizer(id, cfg.Aliases),
		REST:   NewRESTClient(cfg.RestURL, cfg.RPS, cfg.HTTPTimeout),
	}
}

func (b *Base) ID() string   { return b.id }
func (b *Base) Name() string { return b.name }

func (b *Base) QuoteCurrencies() []string { return slices.Clone(b.quotes) }

func (b *Base) SupportsQuote(quote string) bool {
	return slices.Contains(b.quotes, strings.ToUpper(quote))
}

// AvailableTickers 同步返回缓存，无缓存时返回 fallback
func (b *Base) AvailableTickers(quote string) []string {
	quote = strings.ToUpper(quote)
	if !b.SupportsQuote(quote) {
		return nil
	}
	if t, ok := b.Cache.Tickers(quote); ok {
		return t
	}
	if b.Fallback != nil {
		return b.Fallback(quote)
	}
	return nil
}

func (b *Base) CachedPrices(quote string) map[string]float64 {
	return b.Cache.Prices(strings.ToUpper(quote))
}

// Refresh 执行 fetch 并写入缓存；失败时记录日志并返回 AvailableTickers 的结果
func (b *Base) Refresh(ctx context.Context, quote string, fetch func(ctx context.Context, quote string) ([]string, map[string]float64, error)) []string {
	quote = strings.ToUpper(quote)
	if !b.SupportsQuote(quote) {
		return nil
	}
	tickers, prices, err := fetch(ctx, quote)
	if err == nil && len(tickers) == 0 {
		err = errEmptyListing
	}
	if err != nil {
		log.Warn().Str("exchange", b.id).Str("quote", quote).Err(err).Msg("rest ticker fetch failed, using cached list")
		return b.AvailableTickers(quote)
	}
	tickers = dedupe(tickers)
	b.Cache.SetTickers(quote, tickers)
	if prices != nil {
		b.Cache.SetPrices(quote, prices)
	}
	log.Debug().Str("exchange", b.id).Str("quote", quote).Int("tickers", len(tickers)).Msg("rest tickers refreshed")
	return tickers
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

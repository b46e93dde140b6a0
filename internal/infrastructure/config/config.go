package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	ErrPairIncomplete = errors.New("pair: exchange_a/quote_a/exchange_b/quote_b required")
	ErrPairIdentical  = errors.New("pair: both sides are the same market")
	ErrExchangeOff    = errors.New("exchange disabled")
)

type Config struct {
	App struct {
		LogLevel          string `toml:"log_level"`
		LogFile           string `toml:"log_file"`
		RenderEveryMs     int    `toml:"render_every_ms"`
		PublishIntervalMs int    `toml:"publish_interval_ms"`
		SnapshotEveryMin  int    `toml:"snapshot_every_min"`
		// 溢价提示阈值（百分比），只影响展示
		HighlightPct float64 `toml:"highlight_pct"`
	} `toml:"app"`

	Pair Pair `toml:"pair"`

	Stream struct {
		MaxRetries     int `toml:"max_retries"`
		RetryDelayMs   int `toml:"retry_delay_ms"`
		DialTimeoutMs  int `toml:"dial_timeout_ms"`
		ReadTimeoutMs  int `toml:"read_timeout_ms"`
		PingIntervalMs int `toml:"ping_interval_ms"`
	} `toml:"stream"`

	Exchanges map[string]Exchange `toml:"exchange"`

	Storage struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`
		Redis struct {
			Enabled  bool   `toml:"enabled"`
			Addr     string `toml:"addr"`
			Password string `toml:"password"`
			DB       int    `toml:"db"`
			Prefix   string `toml:"prefix"`
			TTLHours int    `toml:"ttl_hours"`
		} `toml:"redis"`
		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`

	Wallets []Wallet `toml:"wallet"`
}

type Pair struct {
	ExchangeA string `toml:"exchange_a"`
	QuoteA    string `toml:"quote_a"`
	ExchangeB string `toml:"exchange_b"`
	QuoteB    string `toml:"quote_b"`
	Reference string `toml:"reference"`
}

type Exchange struct {
	// nil 表示未配置，默认启用
	Enabled *bool             `toml:"enabled"`
	WsURL   string            `toml:"ws_url"`
	RestURL string            `toml:"rest_url"`
	RestRPS float64           `toml:"rest_rps"`
	Aliases map[string]string `toml:"aliases"`
}

func (e Exchange) IsEnabled() bool { return e.Enabled == nil || *e.Enabled }

type Wallet struct {
	Ticker    string `toml:"ticker"`
	Network   string `toml:"network"`
	ADeposit  bool   `toml:"a_deposit"`
	AWithdraw bool   `toml:"a_withdraw"`
	BDeposit  bool   `toml:"b_deposit"`
	BWithdraw bool   `toml:"b_withdraw"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.RenderEveryMs <= 0 {
		cfg.App.RenderEveryMs = 250
	}
	if cfg.App.PublishIntervalMs <= 0 {
		cfg.App.PublishIntervalMs = 16
	}
	if cfg.App.SnapshotEveryMin <= 0 {
		cfg.App.SnapshotEveryMin = 5
	}
	if cfg.App.HighlightPct <= 0 {
		cfg.App.HighlightPct = 2.0
	}

	p := &cfg.Pair
	if p.ExchangeA == "" && p.ExchangeB == "" {
		p.ExchangeA, p.QuoteA = "upbit", "KRW"
		p.ExchangeB, p.QuoteB = "binance", "USDT"
	}
	p.ExchangeA = strings.ToLower(strings.TrimSpace(p.ExchangeA))
	p.ExchangeB = strings.ToLower(strings.TrimSpace(p.ExchangeB))
	p.QuoteA = strings.ToUpper(strings.TrimSpace(p.QuoteA))
	p.QuoteB = strings.ToUpper(strings.TrimSpace(p.QuoteB))
	p.Reference = strings.ToUpper(strings.TrimSpace(p.Reference))
	if p.Reference == "" {
		p.Reference = "BTC"
	}

	s := &cfg.Stream
	if s.MaxRetries <= 0 {
		s.MaxRetries = 10
	}
	if s.RetryDelayMs <= 0 {
		s.RetryDelayMs = 3000
	}
	if s.DialTimeoutMs <= 0 {
		s.DialTimeoutMs = 10000
	}
	if s.ReadTimeoutMs <= 0 {
		s.ReadTimeoutMs = 60000
	}
	if s.PingIntervalMs <= 0 {
		s.PingIntervalMs = 25000
	}

	if cfg.Storage.SQLite.Enabled && strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		cfg.Storage.SQLite.Path = "data/xprem.db"
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Prefix) == "" {
		cfg.Storage.Redis.Prefix = "xprem"
	}

	normalized := make(map[string]Exchange, len(cfg.Exchanges))
	for id, ex := range cfg.Exchanges {
		normalized[strings.ToLower(strings.TrimSpace(id))] = ex
	}
	cfg.Exchanges = normalized

	for i := range cfg.Wallets {
		cfg.Wallets[i].Ticker = strings.ToUpper(strings.TrimSpace(cfg.Wallets[i].Ticker))
		cfg.Wallets[i].Network = strings.TrimSpace(cfg.Wallets[i].Network)
	}
}

func validate(cfg *Config) error {
	p := cfg.Pair
	if p.ExchangeA == "" || p.QuoteA == "" || p.ExchangeB == "" || p.QuoteB == "" {
		return ErrPairIncomplete
	}
	if p.ExchangeA == p.ExchangeB && p.QuoteA == p.QuoteB {
		return ErrPairIdentical
	}
	for _, id := range []string{p.ExchangeA, p.ExchangeB} {
		if !cfg.ExchangeEnabled(id) {
			return fmt.Errorf("%w: %s", ErrExchangeOff, id)
		}
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	for i, w := range cfg.Wallets {
		if w.Ticker == "" || w.Network == "" {
			return fmt.Errorf("wallet[%d]: ticker and network required", i)
		}
	}
	return nil
}

// ExchangeEnabled reports whether id may be used. Unlisted exchanges are on.
func (c *Config) ExchangeEnabled(id string) bool {
	ex, ok := c.Exchanges[strings.ToLower(id)]
	return !ok || ex.IsEnabled()
}

// Exchange returns the section for id, zero value when unlisted.
func (c *Config) Exchange(id string) Exchange {
	return c.Exchanges[strings.ToLower(id)]
}

func (c *Config) RenderEvery() time.Duration {
	return time.Duration(c.App.RenderEveryMs) * time.Millisecond
}

func (c *Config) PublishInterval() time.Duration {
	return time.Duration(c.App.PublishIntervalMs) * time.Millisecond
}

func (c *Config) SnapshotEvery() time.Duration {
	return time.Duration(c.App.SnapshotEveryMin) * time.Minute
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Stream.RetryDelayMs) * time.Millisecond
}

func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Stream.DialTimeoutMs) * time.Millisecond
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Stream.ReadTimeoutMs) * time.Millisecond
}

func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Stream.PingIntervalMs) * time.Millisecond
}

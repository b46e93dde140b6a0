package container

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/config"
	"xprem/internal/infrastructure/exchange"
	"xprem/internal/infrastructure/pricefeed"
	"xprem/internal/infrastructure/storage/composite"
	"xprem/internal/infrastructure/storage/memory"
	pgrepo "xprem/internal/infrastructure/storage/postgres"
	redisrepo "xprem/internal/infrastructure/storage/redis"
	sqliterepo "xprem/internal/infrastructure/storage/sqlite"
	"xprem/internal/infrastructure/stream"
	"xprem/internal/infrastructure/wallet"

	// 各交易所在 init() 中注册到 pricefeed
	_ "xprem/internal/infrastructure/exchange/binance"
	_ "xprem/internal/infrastructure/exchange/bitget"
	_ "xprem/internal/infrastructure/exchange/bithumb"
	_ "xprem/internal/infrastructure/exchange/bybit"
	_ "xprem/internal/infrastructure/exchange/coinbase"
	_ "xprem/internal/infrastructure/exchange/okx"
	_ "xprem/internal/infrastructure/exchange/upbit"
)

const restTimeout = 10 * time.Second

// Container 包含所有基础设施依赖
type Container struct {
	cfg *config.Config

	caches   *exchange.Caches
	mu       sync.Mutex
	adapters map[string]port.Adapter

	prefs   *composite.Repo
	wallets *wallet.Static
	streams *stream.Manager

	redisClient *redis.Client
	sqliteRepo  *sqliterepo.Repo
	redisRepo   *redisrepo.Repo
	pgRepo      *pgrepo.Repo

	closeOnce   sync.Once
	closerChain []func() error
}

// New 创建新的容器实例
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:         cfg,
		caches:      exchange.NewCaches(),
		adapters:    make(map[string]port.Adapter),
		closerChain: make([]func() error, 0),
	}

	c.wallets = wallet.NewStatic(walletEntries(cfg.Wallets))
	log.Debug().Int("tickers", c.wallets.Len()).Msg("wallet status loaded")
	c.streams = stream.NewManager(stream.Config{
		MaxRetries:   cfg.Stream.MaxRetries,
		RetryDelay:   cfg.RetryDelay(),
		DialTimeout:  cfg.DialTimeout(),
		ReadTimeout:  cfg.ReadTimeout(),
		PingInterval: cfg.PingInterval(),
	})
	c.closerChain = append(c.closerChain, func() error {
		c.streams.Stop()
		return nil
	})

	c.initStorage()

	// 启动前校验配置的交易对
	for _, side := range []struct{ ex, quote string }{
		{cfg.Pair.ExchangeA, cfg.Pair.QuoteA},
		{cfg.Pair.ExchangeB, cfg.Pair.QuoteB},
	} {
		a, err := c.Adapter(side.ex)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		if !slices.Contains(a.QuoteCurrencies(), side.quote) {
			_ = c.Close()
			return nil, fmt.Errorf("%s does not offer quote %s (has %v)", side.ex, side.quote, a.QuoteCurrencies())
		}
	}

	return c, nil
}

// initStorage 初始化偏好存储。单个后端不可用时只记录警告，偏好继续保存在内存
func (c *Container) initStorage() {
	var repos []port.PrefsStore

	if c.cfg.Storage.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, skipping")
		} else {
			repos = append(repos, c.redisRepo)
		}
	}

	if c.cfg.Storage.SQLite.Enabled {
		if err := c.initSQLite(); err != nil {
			log.Warn().Err(err).Msg("sqlite unavailable, skipping")
		} else {
			repos = append(repos, c.sqliteRepo)
		}
	}

	if c.cfg.Storage.Postgres.Enabled {
		if err := c.initPostgres(); err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, skipping")
		} else {
			repos = append(repos, c.pgRepo)
		}
	}

	if len(repos) == 0 {
		log.Info().Msg("no durable storage configured, preferences kept in memory")
		repos = append(repos, memory.New())
	}
	c.prefs = composite.New(repos...)
	log.Info().Int("backends", c.prefs.Len()).Msg("preference storage ready")
}

// initRedis 初始化 Redis 连接
func (c *Container) initRedis() error {
	rc := c.cfg.Storage.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.redisClient = rdb
	c.redisRepo = redisrepo.New(rdb, rc.Prefix, time.Duration(rc.TTLHours)*time.Hour)

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().Str("addr", rc.Addr).Int("db", rc.DB).Msg("redis initialized")
	return nil
}

// initSQLite 初始化 SQLite 数据库
func (c *Container) initSQLite() error {
	repo, err := sqliterepo.New(c.cfg.Storage.SQLite.Path)
	if err != nil {
		return err
	}
	c.sqliteRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().Str("path", c.cfg.Storage.SQLite.Path).Msg("sqlite initialized")
	return nil
}

func (c *Container) initPostgres() error {
	repo, err := pgrepo.New(c.cfg.Storage.Postgres.DSN)
	if err != nil {
		return err
	}
	c.pgRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("postgres initialized")
	return nil
}

// Adapter 返回交易所适配器，同一 id 只创建一次，缓存随适配器共享
func (c *Container) Adapter(exchangeID string) (port.Adapter, error) {
	id := strings.ToLower(strings.TrimSpace(exchangeID))

	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.adapters[id]; ok {
		return a, nil
	}
	if !c.cfg.ExchangeEnabled(id) {
		return nil, fmt.Errorf("%w: %s", config.ErrExchangeOff, id)
	}

	ex := c.cfg.Exchange(id)
	a, err := pricefeed.New(id, exchange.Config{
		WsURL:       ex.WsURL,
		RestURL:     ex.RestURL,
		RPS:         ex.RestRPS,
		HTTPTimeout: restTimeout,
		Aliases:     ex.Aliases,
	}, c.caches.For(id))
	if err != nil {
		return nil, err
	}
	c.adapters[id] = a
	log.Debug().Str("exchange", id).Strs("quotes", a.QuoteCurrencies()).Msg("adapter created")
	return a, nil
}

// Exchanges 已注册且启用的交易所
func (c *Container) Exchanges() []string {
	var out []string
	for _, id := range pricefeed.Names() {
		if c.cfg.ExchangeEnabled(id) {
			out = append(out, id)
		}
	}
	return out
}

func (c *Container) Prefs() port.PrefsStore { return c.prefs }

func (c *Container) Wallets() port.WalletSource { return c.wallets }

func (c *Container) Streams() *stream.Manager { return c.streams }

// RedisClient 获取 Redis 客户端
func (c *Container) RedisClient() *redis.Client { return c.redisClient }

func (c *Container) SQLiteRepo() *sqliterepo.Repo { return c.sqliteRepo }

// Close 关闭所有资源（按后进先出顺序）
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
		log.Info().Msg("container closed")
	})
	return err
}

func walletEntries(ws []config.Wallet) []wallet.Entry {
	out := make([]wallet.Entry, 0, len(ws))
	for _, w := range ws {
		out = append(out, wallet.Entry{
			Ticker:  w.Ticker,
			Network: w.Network,
			A:       domain.NetworkStatus{Deposit: w.ADeposit, Withdraw: w.AWithdraw},
			B:       domain.NetworkStatus{Deposit: w.BDeposit, Withdraw: w.BWithdraw},
		})
	}
	return out
}

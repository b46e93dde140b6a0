package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"xprem/internal/application/port"
	"xprem/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrRetriesExhausted is returned by Run when the side gives up reconnecting.
var ErrRetriesExhausted = errors.New("stream: reconnect attempts exhausted")

// Config 连接与重连参数
type Config struct {
	MaxRetries   int
	RetryDelay   time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	PingInterval time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig 10 次重连，固定间隔 3 秒
var DefaultConfig = Config{
	MaxRetries:   10,
	RetryDelay:   3 * time.Second,
	DialTimeout:  10 * time.Second,
	ReadTimeout:  60 * time.Second,
	PingInterval: 25 * time.Second,
	WriteTimeout: 5 * time.Second,
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultConfig.RetryDelay
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultConfig.DialTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultConfig.ReadTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultConfig.PingInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultConfig.WriteTimeout
	}
	return c
}

// Ingestor owns one websocket connection for one market side.
type Ingestor struct {
	side    Side
	cfg     Config
	sink    PriceSink
	rates   RateRouter
	onState func(State)
	dialer  *websocket.Dialer
	tickers map[string]struct{}

	state atomic.Int32
	// per-session counters, reported when the session ends
	ticks   atomic.Uint64
	dropped atomic.Uint64
}

func NewIngestor(side Side, cfg Config, sink PriceSink, rates RateRouter, onState func(State)) *Ingestor {
	cfg = cfg.withDefaults()
	in := &Ingestor{
		side:    side,
		cfg:     cfg,
		sink:    sink,
		rates:   rates,
		onState: onState,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: cfg.DialTimeout,
		},
		tickers: make(map[string]struct{}, len(side.Tickers)),
	}
	for _, t := range side.Tickers {
		in.tickers[t] = struct{}{}
	}
	in.state.Store(int32(StateClosed))
	return in
}

func (in *Ingestor) State() State { return State(in.state.Load()) }

func (in *Ingestor) setState(s State) {
	if State(in.state.Swap(int32(s))) == s {
		return
	}
	log.Debug().Str("market", in.side.Market.Key()).Str("state", s.String()).Msg("ws state")
	if in.onState != nil {
		in.onState(s)
	}
}

// Run connects and keeps the side connected until ctx is done or the retry
// budget is spent. The retry counter resets after every successful open.
func (in *Ingestor) Run(ctx context.Context) error {
	market := in.side.Market.Key()
	url, err := in.side.Adapter.Endpoint(in.side.Market.Quote, in.side.Tickers)
	if err != nil {
		in.setState(StateClosed)
		return fmt.Errorf("endpoint %s: %w", market, err)
	}
	frames, err := in.side.Adapter.SubscribeMessages(in.side.Market.Quote, in.side.Tickers, in.side.AuxCode)
	if err != nil {
		log.Warn().Str("market", market).Err(err).Msg("no subscribe frames")
	}

	bo := backoff.NewConstantBackOff(in.cfg.RetryDelay)
	retries := 0
	for {
		if ctx.Err() != nil {
			in.setState(StateClosed)
			return ctx.Err()
		}

		in.setState(StateConnecting)
		log.Info().Str("market", market).Str("url", url).Int("attempt", retries).Msg("ws connecting")
		conn, err := in.dial(ctx, url)
		if err == nil {
			retries = 0
			bo.Reset()
			in.setState(StateOpen)
			log.Info().Str("market", market).Int("frames", len(frames)).Msg("ws connected")
			err = in.session(ctx, conn, frames)
			log.Info().Str("market", market).
				Uint64("ticks", in.ticks.Swap(0)).
				Uint64("dropped", in.dropped.Swap(0)).
				Msg("ws session ended")
		}
		if ctx.Err() != nil {
			in.setState(StateClosed)
			return ctx.Err()
		}
		in.setState(StateClosed)

		if retries >= in.cfg.MaxRetries {
			log.Error().Str("market", market).Err(err).Int("max_retries", in.cfg.MaxRetries).Msg("ws gave up reconnecting")
			return ErrRetriesExhausted
		}
		retries++
		log.Warn().Str("market", market).Err(err).Int("attempt", retries).Msg("ws disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.NextBackOff()):
		}
	}
}

func (in *Ingestor) dial(ctx context.Context, url string) (*websocket.Conn, error) {
	cctx, cancel := context.WithTimeout(ctx, in.cfg.DialTimeout)
	defer cancel()
	conn, _, err := in.dialer.DialContext(cctx, url, nil)
	return conn, err
}

// session sends the subscribe frames once and pumps frames until the
// connection fails or ctx is done. It returns only after the reader goroutine
// has exited, so no tick from this connection reaches the sink afterwards.
func (in *Ingestor) session(ctx context.Context, conn *websocket.Conn, frames [][]byte) error {
	var writeMu sync.Mutex
	write := func(b []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(in.cfg.WriteTimeout))
		return conn.WriteMessage(websocket.TextMessage, b)
	}

	for _, f := range frames {
		if err := write(f); err != nil {
			_ = conn.Close()
			return fmt.Errorf("subscribe: %w", err)
		}
	}

	goodbye := func() {
		in.setState(StateClosing)
		writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		writeMu.Unlock()
	}
	return in.readLoop(ctx, conn, write, goodbye)
}

func (in *Ingestor) readLoop(ctx context.Context, conn *websocket.Conn, write func([]byte) error, goodbye func()) error {
	_ = conn.SetReadDeadline(time.Now().Add(in.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(in.cfg.ReadTimeout))
		return nil
	})

	pingTicker := time.NewTicker(in.cfg.PingInterval)
	defer pingTicker.Stop()

	// 应用层心跳，独立定时，不阻塞读
	var hbC <-chan time.Time
	var hb port.Heartbeat
	if p, ok := in.side.Adapter.(port.HeartbeatProvider); ok {
		hb = p.Heartbeat()
		if len(hb.Message) > 0 && hb.Interval > 0 {
			t := time.NewTicker(hb.Interval)
			defer t.Stop()
			hbC = t.C
		}
	}

	// rctx stops dispatch of frames already read once we leave the loop
	rctx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			mt, b, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(in.cfg.ReadTimeout))
			in.dispatch(rctx, port.Frame{Type: mt, Data: b})
		}
	}()
	// 关闭连接并等读协程退出
	defer func() {
		cancel()
		_ = conn.Close()
		for range errCh {
		}
	}()

	for {
		select {
		case <-ctx.Done():
			goodbye()
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case <-hbC:
			if err := write(hb.Message); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}
		}
	}
}

// dispatch awaits the adapter's parse result and routes it: the cross-rate
// instrument goes to the resolver, everything else to the sink. Nothing is
// delivered once ctx is done.
func (in *Ingestor) dispatch(ctx context.Context, f port.Frame) {
	var (
		t  domain.Tick
		ok bool
	)
	select {
	case <-ctx.Done():
		return
	case t, ok = <-in.side.Adapter.Parse(f):
	}
	if !ok {
		in.drop("unparsed", t)
		return
	}
	if ctx.Err() != nil {
		return
	}

	if in.rates != nil && in.rates.Claims(in.side.Adapter.ID(), t) {
		in.rates.Set(t.Price)
		return
	}
	if t.Quote != in.side.Market.Quote {
		in.drop("quote mismatch", t)
		return
	}
	if _, tracked := in.tickers[t.Ticker]; !tracked {
		in.drop("untracked", t)
		return
	}

	in.sink.Write(in.side.Market, t.Ticker, t.Price)
	in.ticks.Add(1)
	if in.rates != nil {
		in.rates.Observe(t.Ticker)
	}
}

func (in *Ingestor) drop(reason string, t domain.Tick) {
	in.dropped.Add(1)
	log.Debug().Str("market", in.side.Market.Key()).Str("reason", reason).
		Str("ticker", t.Ticker).Str("quote", t.Quote).Msg("frame dropped")
}

package okx

import (
	"errors"
	"strings"
	"time"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/exchange"

	"github.com/goccy/go-json"
)

const (
	DefaultWsURL   = "wss://ws.okx.com:8443/ws/v5/public"
	DefaultRestURL = "https://www.okx.com"

	subscribeChunk    = 25
	heartbeatInterval = 25 * time.Second
)

type Adapter struct {
	exchange.Base
}

func New(cfg exchange.Config, cache *exchange.Cache) *Adapter {
	if cfg.WsURL == "" {
		cfg.WsURL = DefaultWsURL
	}
	if cfg.RestURL == "" {
		cfg.RestURL = DefaultRestURL
	}
	return &Adapter{Base: exchange.NewBase(application.ExchangeOKX, "OKX",
		[]string{application.QuoteUSDT, application.QuoteUSDC}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("okx ws_url empty")
	}
	return a.WsURL, nil
}

// Heartbeat OKX 30 秒无消息会断开，文本 "ping" 回 "pong"
func (a *Adapter) Heartbeat() port.Heartbeat {
	return port.Heartbeat{Message: []byte("ping"), Interval: heartbeatInterval}
}

type subArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type subReq struct {
	Op   string   `json:"op"`
	Args []subArg `json:"args"`
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	conv := exchange.DashConverter{Quote: quote}
	ids := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		ids = append(ids, conv.Coin2Symbol(a.Norm.ToExchange(t)))
	}
	if len(ids) == 0 {
		return nil, errors.New("no valid instIds for okx")
	}
	chunks := exchange.ChunkStrings(ids, subscribeChunk)
	out := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		args := make([]subArg, 0, len(c))
		for _, id := range c {
			args = append(args, subArg{Channel: "tickers", InstID: id})
		}
		b, err := json.Marshal(subReq{Op: "subscribe", Args: args})
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

type tickerData struct {
	InstID string `json:"instId"`
	Last   string `json:"last"`
}

type tickerMsg struct {
	Arg *struct {
		Channel string `json:"channel"`
	} `json:"arg"`
	Event string       `json:"event"`
	Data  []tickerData `json:"data"`
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	var msg tickerMsg
	// "pong" 不是 JSON，直接丢弃
	if err := json.Unmarshal(f.Data, &msg); err != nil {
		return port.None()
	}
	if msg.Event != "" || msg.Arg == nil || msg.Arg.Channel != "tickers" || len(msg.Data) == 0 {
		return port.None()
	}
	d := msg.Data[0]
	base, quote, ok := strings.Cut(strings.ToUpper(d.InstID), "-")
	if !ok || base == "" || quote == "" {
		return port.None()
	}
	px, err := exchange.ParsePrice(d.Last)
	if err != nil {
		return port.None()
	}
	return port.Resolved(domain.Tick{
		Ticker: a.Norm.ToCanonical(base),
		Symbol: strings.ToUpper(d.InstID),
		Price:  px,
		Quote:  quote,
	}, true)
}

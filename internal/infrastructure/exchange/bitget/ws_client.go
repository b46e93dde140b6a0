package bitget

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
	DefaultWsURL   = "wss://ws.bitget.com/v2/ws/public"
	DefaultRestURL = "https://api.bitget.com"

	subscribeChunk    = 30
	heartbeatInterval = 30 * time.Second
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
	return &Adapter{Base: exchange.NewBase(application.ExchangeBitget, "Bitget",
		[]string{application.QuoteUSDT, application.QuoteUSDC}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("bitget ws_url empty")
	}
	return a.WsURL, nil
}

func (a *Adapter) Heartbeat() port.Heartbeat {
	return port.Heartbeat{Message: []byte("ping"), Interval: heartbeatInterval}
}

type subArg struct {
	InstType string `json:"instType"`
	Channel  string `json:"channel"`
	InstID   string `json:"instId"`
}

type subReq struct {
	Op   string   `json:"op"`
	Args []subArg `json:"args"`
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	conv := exchange.SuffixConverter{Quote: quote}
	syms := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		syms = append(syms, conv.Coin2Symbol(a.Norm.ToExchange(t)))
	}
	if len(syms) == 0 {
		return nil, errors.New("no valid symbols for bitget")
	}
	chunks := exchange.ChunkStrings(syms, subscribeChunk)
	out := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		args := make([]subArg, 0, len(c))
		for _, s := range c {
			args = append(args, subArg{InstType: "SPOT", Channel: "ticker", InstID: s})
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
	Symbol string `json:"symbol"`
	LastPr string `json:"lastPr"`
}

type tickerMsg struct {
	Action string `json:"action"`
	Arg    *struct {
		Channel string `json:"channel"`
	} `json:"arg"`
	Data []tickerData `json:"data"`
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	var msg tickerMsg
	if err := json.Unmarshal(f.Data, &msg); err != nil {
		return port.None()
	}
	if msg.Action != "snapshot" && msg.Action != "update" {
		return port.None()
	}
	if msg.Arg == nil || msg.Arg.Channel != "ticker" || len(msg.Data) == 0 {
		return port.None()
	}
	d := msg.Data[0]
	sym := strings.ToUpper(strings.TrimSpace(d.InstID))
	px, err := exchange.ParsePrice(d.LastPr)
	if sym == "" || err != nil {
		return port.None()
	}
	for _, q := range a.QuoteCurrencies() {
		coin, ok := exchange.SuffixConverter{Quote: q}.Symbol2Coin(sym)
		if !ok {
			continue
		}
		return port.Resolved(domain.Tick{
			Ticker: a.Norm.ToCanonical(coin),
			Symbol: sym,
			Price:  px,
			Quote:  q,
		}, true)
	}
	return port.None()
}

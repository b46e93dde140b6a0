package bybit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/exchange"

	"github.com/goccy/go-json"
)

const (
	DefaultWsURL   = "wss://stream.bybit.com/v5/public/spot"
	DefaultRestURL = "https://api.bybit.com"

	// 每条订阅消息最多 10 个 topic
	subscribeChunk    = 10
	heartbeatInterval = 20 * time.Second
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
	return &Adapter{Base: exchange.NewBase(application.ExchangeBybit, "Bybit",
		[]string{application.QuoteUSDT, application.QuoteUSDC}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("bybit ws_url empty")
	}
	return a.WsURL, nil
}

func (a *Adapter) Heartbeat() port.Heartbeat {
	return port.Heartbeat{Message: []byte(`{"op":"ping"}`), Interval: heartbeatInterval}
}

type subReq struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	conv := exchange.SuffixConverter{Quote: quote}
	topics := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		topics = append(topics, "tickers."+conv.Coin2Symbol(a.Norm.ToExchange(t)))
	}
	if len(topics) == 0 {
		return nil, errors.New("no valid symbols for bybit topics")
	}
	chunks := exchange.ChunkStrings(topics, subscribeChunk)
	out := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		b, err := json.Marshal(subReq{Op: "subscribe", Args: c})
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

type tickerItem struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
}

// DataList data can be object OR array
type DataList []tickerItem

func (d *DataList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = nil
		return nil
	}
	switch b[0] {
	case '[':
		var arr []tickerItem
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*d = arr
		return nil
	case '{':
		var one tickerItem
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*d = DataList{one}
		return nil
	default:
		return fmt.Errorf("unexpected data json: %s", string(b))
	}
}

type tickerMsg struct {
	Topic string   `json:"topic"`
	Data  DataList `json:"data"`

	// ack / pong
	Success *bool  `json:"success,omitempty"`
	Op      string `json:"op,omitempty"`
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	var msg tickerMsg
	if err := json.Unmarshal(f.Data, &msg); err != nil {
		return port.None()
	}
	if msg.Success != nil || !strings.HasPrefix(msg.Topic, "tickers.") || len(msg.Data) == 0 {
		return port.None()
	}
	d := msg.Data[0]
	sym := strings.ToUpper(strings.TrimSpace(d.Symbol))
	px, err := exchange.ParsePrice(d.LastPrice)
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

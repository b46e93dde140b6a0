package upbit

import (
	"errors"
	"slices"
	"strings"

	"xprem/internal/application"
	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/exchange"

	"github.com/goccy/go-json"
)

const (
	DefaultWsURL   = "wss://api.upbit.com/websocket/v1"
	DefaultRestURL = "https://api.upbit.com"

	ticket = "premium-table"
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
	return &Adapter{Base: exchange.NewBase(application.ExchangeUpbit, "Upbit", []string{application.QuoteKRW}, cfg, cache)}
}

func (a *Adapter) Endpoint(quote string, tickers []string) (string, error) {
	if a.WsURL == "" {
		return "", errors.New("upbit ws_url empty")
	}
	return a.WsURL, nil
}

func (a *Adapter) SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error) {
	b, err := SubscribeFrame(a.Norm, quote, tickers, auxCode)
	if err != nil {
		return nil, err
	}
	return [][]byte{b}, nil
}

func (a *Adapter) Parse(f port.Frame) port.Pending {
	t, ok := ParseSimple(a.Norm, f.Data)
	return port.Resolved(t, ok)
}

type subTicket struct {
	Ticket string `json:"ticket"`
}

type subType struct {
	Type  string   `json:"type"`
	Codes []string `json:"codes"`
}

type subFormat struct {
	Format string `json:"format"`
}

// SubscribeFrame 构建 Upbit v1 风格的订阅帧:
// [{"ticket":...},{"type":"ticker","codes":["KRW-BTC",...]},{"format":"SIMPLE"}]
// auxCode（如 KRW-USDT）追加在末尾，已存在时不重复。
func SubscribeFrame(norm *exchange.Normalizer, quote string, tickers []string, auxCode string) ([]byte, error) {
	quote = strings.ToUpper(strings.TrimSpace(quote))
	conv := exchange.DashConverter{Quote: quote, QuoteFirst: true}
	codes := make([]string, 0, len(tickers)+1)
	for _, t := range tickers {
		if strings.TrimSpace(t) == "" {
			continue
		}
		codes = append(codes, conv.Coin2Symbol(norm.ToExchange(t)))
	}
	if auxCode != "" && !slices.Contains(codes, auxCode) {
		codes = append(codes, auxCode)
	}
	if len(codes) == 0 {
		return nil, errors.New("no codes to subscribe")
	}
	return json.Marshal([]any{
		subTicket{Ticket: ticket},
		subType{Type: "ticker", Codes: codes},
		subFormat{Format: "SIMPLE"},
	})
}

type simpleTicker struct {
	Type  string   `json:"ty"`
	Code  string   `json:"cd"`
	Price *float64 `json:"tp"`
}

// ParseSimple 解析 SIMPLE 格式的 ticker 帧（二进制或文本均可）
func ParseSimple(norm *exchange.Normalizer, data []byte) (domain.Tick, bool) {
	var msg simpleTicker
	if err := json.Unmarshal(data, &msg); err != nil {
		return domain.Tick{}, false
	}
	if msg.Code == "" || msg.Price == nil || !exchange.ValidPrice(*msg.Price) {
		return domain.Tick{}, false
	}
	quote, coin, ok := strings.Cut(msg.Code, "-")
	if !ok || quote == "" || coin == "" {
		return domain.Tick{}, false
	}
	return domain.Tick{
		Ticker: norm.ToCanonical(coin),
		Symbol: msg.Code,
		Price:  *msg.Price,
		Quote:  quote,
	}, true
}

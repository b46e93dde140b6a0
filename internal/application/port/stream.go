package port

import (
	"context"

	"xprem/internal/domain"
)

// ConnState is the connection state of one market side.
type ConnState int32

const (
	ConnConnecting ConnState = iota
	ConnOpen
	ConnClosing
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "Connecting"
	case ConnOpen:
		return "Connected"
	case ConnClosing:
		return "Closing"
	case ConnClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// StreamSide describes what one connection subscribes to.
type StreamSide struct {
	Market  domain.MarketID
	Adapter Adapter
	Tickers []string
	// AuxCode is an extra exchange-local instrument, e.g. the KRW-USDT cross-rate.
	AuxCode string
}

// PriceSink receives regular ticks for a market.
type PriceSink interface {
	Write(m domain.MarketID, ticker string, price float64)
}

// RateRouter is the cross-rate side of tick dispatch.
type RateRouter interface {
	Claims(exchangeID string, t domain.Tick) bool
	Set(price float64)
	Observe(ticker string)
}

// StreamRunner owns the live connections of the active pair. Start replaces
// whatever was running; Stop returns once every connection is gone.
type StreamRunner interface {
	Start(ctx context.Context, sides []StreamSide, sink PriceSink, rates RateRouter, onState func(StreamSide, ConnState))
	Stop()
}

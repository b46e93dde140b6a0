package port

import (
	"context"
	"time"

	"xprem/internal/domain"
)

// Frame is one inbound websocket message. Type carries the websocket message
// type (text or binary) so adapters can decode binary payloads themselves.
type Frame struct {
	Type int
	Data []byte
}

// Pending yields zero or one tick and is then closed. Adapters that parse
// synchronously return an already-resolved Pending.
type Pending <-chan domain.Tick

// Resolved returns a Pending that delivers t (if ok) and closes.
func Resolved(t domain.Tick, ok bool) Pending {
	ch := make(chan domain.Tick, 1)
	if ok {
		ch <- t
	}
	close(ch)
	return ch
}

// None is a Pending with no tick.
func None() Pending { return Resolved(domain.Tick{}, false) }

// Adapter encapsulates one exchange's wire format and instrument discovery.
type Adapter interface {
	ID() string
	Name() string
	QuoteCurrencies() []string

	// Endpoint returns the websocket URL for a subscription.
	Endpoint(quote string, tickers []string) (string, error)
	// SubscribeMessages returns the frames to send once the connection is open.
	// auxCode is an extra exchange-local instrument (the cross-rate source), may be empty.
	SubscribeMessages(quote string, tickers []string, auxCode string) ([][]byte, error)
	// Parse never fails: control frames and garbage resolve to no tick.
	Parse(f Frame) Pending

	// AvailableTickers returns the cached instrument list without blocking.
	AvailableTickers(quote string) []string
	// FetchAvailableTickers refreshes the cache from REST; on failure it returns
	// the best list it has.
	FetchAvailableTickers(ctx context.Context, quote string) []string
}

// PriceCacher is implemented by adapters whose REST discovery also returns prices.
type PriceCacher interface {
	CachedPrices(quote string) map[string]float64
}

// Heartbeat is an application-level keepalive payload.
type Heartbeat struct {
	Message  []byte
	Interval time.Duration
}

// HeartbeatProvider is implemented by adapters whose exchange expects keepalives.
type HeartbeatProvider interface {
	Heartbeat() Heartbeat
}

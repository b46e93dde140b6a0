package stream

import "xprem/internal/application/port"

type State = port.ConnState

const (
	StateConnecting = port.ConnConnecting
	StateOpen       = port.ConnOpen
	StateClosing    = port.ConnClosing
	StateClosed     = port.ConnClosed
)

type (
	Side       = port.StreamSide
	PriceSink  = port.PriceSink
	RateRouter = port.RateRouter
)

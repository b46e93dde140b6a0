package monitor

import (
	"time"

	"xprem/internal/application/port"
	"xprem/internal/domain"
)

// AdapterSource resolves exchange ids to adapters.
type AdapterSource interface {
	Adapter(exchangeID string) (port.Adapter, error)
}

type ServiceDeps struct {
	Adapters AdapterSource
	Streams  port.StreamRunner
	Prefs    port.PrefsStore
	Wallets  port.WalletSource
	Sink     port.Sink

	PublishInterval time.Duration
	RenderEvery     time.Duration
	SnapshotEvery   time.Duration
	// Reference is the instrument used for derived cross-rates.
	Reference string
	// Threshold 高亮溢价阈值（比例，0.02 = 2%）
	Threshold float64
}

// Row is a MarketRow with the values the render layer needs precomputed.
type Row struct {
	domain.MarketRow
	Premium   float64
	Arbitrage bool
	Expanded  bool
}

// View is a read-only snapshot for rendering.
type View struct {
	Pair           string
	A, B           domain.MarketID
	CrossRate      float64
	CrossRateKnown bool
	CrossRateMode  string
	Rows           []Row // display order
	States         [2]port.ConnState
	Paused         bool
	Frozen         bool
	Version        uint64
}

package monitor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"xprem/internal/application/crossrate"
	"xprem/internal/application/pair"
	"xprem/internal/application/port"
	"xprem/internal/application/prefs"
	"xprem/internal/application/publish"
	"xprem/internal/application/ranking"
	"xprem/internal/application/store"
	"xprem/internal/domain"

	"github.com/rs/zerolog/log"
)

var ErrNoPair = errors.New("monitor: no market pair selected")

// Service is the aggregation engine: it owns the price store, the publish
// scheduler, ranking and preference state for one active market pair.
type Service struct {
	deps ServiceDeps
	fmt  *Formatter

	store  *store.PriceStore
	table  *publish.Table
	sched  *publish.Scheduler
	ranker *ranking.Ranker
	prefs  *prefs.State
	keeper *prefs.Keeper

	// switchMu serializes pair switches and ticker refreshes.
	switchMu      sync.Mutex
	gen           atomic.Uint64
	pair          pair.MarketPair
	hasPair       bool
	resolver      *crossrate.Resolver
	streamCtx     context.Context
	refreshCancel context.CancelFunc

	vmu  sync.Mutex
	view viewState
}

func NewService(deps ServiceDeps) *Service {
	if deps.Prefs == nil {
		deps.Prefs = NewNoopPrefs()
	}
	if deps.PublishInterval <= 0 {
		deps.PublishInterval = publish.DefaultInterval
	}
	if deps.RenderEvery <= 0 {
		deps.RenderEvery = 250 * time.Millisecond
	}
	if deps.Reference == "" {
		deps.Reference = domain.DefaultReference
	}

	s := &Service{
		deps:   deps,
		fmt:    NewFormatter(deps.Threshold),
		store:  store.New(),
		table:  publish.NewTable(deps.Wallets),
		ranker: ranking.NewRanker(),
		prefs:  prefs.NewState(),
		keeper: prefs.NewKeeper(deps.Prefs),
	}
	s.sched = publish.NewScheduler(s.store, s.table, publish.Config{
		Interval:  deps.PublishInterval,
		OnPublish: s.onPublish,
		OnRate:    s.onRate,
	})
	for i := range s.view.states {
		s.view.states[i] = port.ConnClosed
	}
	return s
}

// SwitchPair resolves exchange ids and switches to the pair. Empty quotes
// pick the exchanges' default quotes.
func (s *Service) SwitchPair(ctx context.Context, exA, quoteA, exB, quoteB string) error {
	if s.deps.Adapters == nil {
		return errors.New("monitor: no adapter source")
	}
	a, err := s.deps.Adapters.Adapter(exA)
	if err != nil {
		return err
	}
	b, err := s.deps.Adapters.Adapter(exB)
	if err != nil {
		return err
	}
	if quoteA == "" || quoteB == "" {
		da, db := pair.DefaultQuotes(a, b)
		if quoteA == "" {
			quoteA = da
		}
		if quoteB == "" {
			quoteB = db
		}
	}
	p, err := pair.New(a, quoteA, b, quoteB, s.deps.Reference)
	if err != nil {
		return err
	}
	s.SetMarketPair(ctx, p)
	return nil
}

// SetMarketPair tears everything down and starts over for p. ctx bounds the
// lifetime of the new connections. Preferences are saved again only after
// the switch has completed.
func (s *Service) SetMarketPair(ctx context.Context, p pair.MarketPair) {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	gen := s.gen.Add(1)
	if s.refreshCancel != nil {
		s.refreshCancel()
		s.refreshCancel = nil
	}
	if s.deps.Streams != nil {
		s.deps.Streams.Stop()
	}

	// old pair: nothing pending, nothing stored, nothing shown
	s.sched.Reset(p.A, p.B)
	s.store.Clear()
	s.table.Clear()
	s.ranker.Reset()

	s.pair, s.hasPair = p, true
	s.streamCtx = ctx
	s.resolver = crossrate.New(p.CrossRate, p.A, p.B, s.store, func(rate float64) {
		if s.gen.Load() == gen {
			s.sched.PublishRate(rate)
		}
	})
	rate, known := s.resolver.Rate()

	s.vmu.Lock()
	s.view.a, s.view.b = p.A, p.B
	s.view.label = p.String()
	s.view.mode = p.CrossRate.String()
	s.view.rate, s.view.known = rate, known
	for i := range s.view.states {
		s.view.states[i] = port.ConnClosed
	}
	s.rerankLocked()
	s.vmu.Unlock()

	stored := s.keeper.Switch(ctx, p.Key())
	s.prefs.Restore(stored)
	snap := s.prefs.Snapshot()
	s.table.ApplyFlags(snap.Pinned, snap.Muted)

	s.seed(p)
	s.sched.Touch(p.CommonTickers...)
	s.startStreams(gen, p)

	rctx, cancel := context.WithCancel(ctx)
	s.refreshCancel = cancel
	go s.refreshTickers(rctx, gen, p)

	s.keeper.Arm()
	log.Info().
		Str("pair", p.String()).
		Str("cross_rate", p.CrossRate.String()).
		Int("tickers", len(p.CommonTickers)).
		Int("pinned", len(snap.Pinned)).
		Msg("market pair active")
}

// seed fills the store from the adapters' cached REST prices so rows show
// numbers before the first tick. Stream prices are never overwritten.
func (s *Service) seed(p pair.MarketPair) {
	for _, side := range []struct {
		m  domain.MarketID
		ad port.Adapter
	}{{p.A, p.AdapterA}, {p.B, p.AdapterB}} {
		pc, ok := side.ad.(port.PriceCacher)
		if !ok {
			continue
		}
		if seeded := s.store.Seed(side.m, pc.CachedPrices(side.m.Quote)); len(seeded) > 0 {
			log.Debug().Str("market", side.m.Key()).Int("count", len(seeded)).Msg("seeded cached prices")
		}
	}
	s.resolver.Recompute()
}

func (s *Service) sides(p pair.MarketPair) []port.StreamSide {
	auxA, auxB := "", ""
	if p.CrossRate.Kind == domain.CrossRateTicker {
		switch p.CrossRate.Exchange {
		case p.A.Exchange:
			auxA = p.CrossRate.Code
		case p.B.Exchange:
			auxB = p.CrossRate.Code
		}
	}
	if p.CrossRate.Kind == domain.CrossRateDerived && !slices.Contains(p.CommonTickers, p.CrossRate.Reference) {
		log.Warn().Str("pair", p.String()).Str("reference", p.CrossRate.Reference).
			Msg("reference instrument not listed on both sides, cross-rate stays unknown")
	}
	return []port.StreamSide{
		{Market: p.A, Adapter: p.AdapterA, Tickers: slices.Clone(p.CommonTickers), AuxCode: auxA},
		{Market: p.B, Adapter: p.AdapterB, Tickers: slices.Clone(p.CommonTickers), AuxCode: auxB},
	}
}

func (s *Service) startStreams(gen uint64, p pair.MarketPair) {
	if s.deps.Streams == nil {
		return
	}
	if len(p.CommonTickers) == 0 {
		log.Warn().Str("pair", p.String()).Msg("no common tickers yet, waiting for discovery")
		return
	}
	s.deps.Streams.Start(s.streamCtx, s.sides(p), s.sched, s.resolver, s.onState(gen))
}

// refreshTickers asks both exchanges for their authoritative listings and
// restarts ingestion for the same pair when the common set grew.
func (s *Service) refreshTickers(ctx context.Context, gen uint64, p pair.MarketPair) {
	fresh := pair.FetchCommonTickers(ctx, p)
	if ctx.Err() != nil {
		return
	}

	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	if s.gen.Load() != gen {
		return
	}
	var added []string
	for _, t := range fresh {
		if !slices.Contains(s.pair.CommonTickers, t) {
			added = append(added, t)
		}
	}
	if len(added) == 0 {
		log.Debug().Str("pair", p.String()).Int("tickers", len(fresh)).Msg("ticker refresh: no new instruments")
		return
	}

	s.pair = s.pair.WithTickers(append(slices.Clone(s.pair.CommonTickers), added...))
	log.Info().Str("pair", p.String()).Int("added", len(added)).Int("tickers", len(s.pair.CommonTickers)).
		Msg("ticker refresh: restarting streams")
	s.seed(s.pair)
	s.sched.Touch(added...)
	s.startStreams(gen, s.pair)
}

// Pair returns the active pair.
func (s *Service) Pair() (pair.MarketPair, bool) {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	return s.pair, s.hasPair
}

// Close stops the streams and any background refresh.
func (s *Service) Close() {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	s.gen.Add(1)
	if s.refreshCancel != nil {
		s.refreshCancel()
		s.refreshCancel = nil
	}
	if s.deps.Streams != nil {
		s.deps.Streams.Stop()
	}
}

// Run renders the view to the sink until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if s.deps.Sink == nil {
		return errors.New("monitor: no sink")
	}
	if _, ok := s.Pair(); !ok {
		return ErrNoPair
	}

	renderTicker := time.NewTicker(s.deps.RenderEvery)
	defer renderTicker.Stop()

	var snapC <-chan time.Time
	if s.deps.SnapshotEvery > 0 {
		snapTicker := time.NewTicker(s.deps.SnapshotEvery)
		defer snapTicker.Stop()
		snapC = snapTicker.C
	}

	var last uint64
	rendered := false
	render := func() {
		v := s.View()
		if rendered && v.Version == last {
			return
		}
		last, rendered = v.Version, true
		_ = s.deps.Sink.WriteLive(s.fmt.Render(v))
	}
	render()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			_ = s.deps.Sink.NewLine()
			return ctx.Err()
		case now := <-snapC:
			_ = s.deps.Sink.WriteSnapshot(now, s.fmt.Summary(s.View(), 5))
		case <-renderTicker.C:
			render()
		}
	}
}

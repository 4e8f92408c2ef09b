// Package engine drives the trading decision pipeline: AI signal intake,
// risk-aware filtering, strictly sequential order execution and the
// stop-loss/take-profit sweep, with circuit-breaker protection around every
// cycle.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/config"
	"github.com/tradepilot/tradepilot/id"
	"github.com/tradepilot/tradepilot/journal"
	"github.com/tradepilot/tradepilot/metrics"
	"github.com/tradepilot/tradepilot/risk"
	"github.com/tradepilot/tradepilot/signal"
)

// Engine owns one portfolio's decision loop. One evaluation cycle is
// end-to-end sequential; the engine never overlaps two trade batches, and
// its risk engine's running state is written from exactly one cycle at a
// time.
type Engine struct {
	brk       broker.Broker
	signals   signal.Service
	risk      *risk.Engine
	responder *risk.Responder
	jnl       journal.Journal
	log       zerolog.Logger

	// rebalanceMu serializes cycles and manual rebalance triggers; a second
	// caller is rejected with ErrRebalanceInProgress, never interleaved.
	rebalanceMu sync.Mutex

	// mu guards cfg, state and the latest metrics/alerts.
	mu          sync.Mutex
	cfg         config.Config
	state       State
	lastMetrics risk.Metrics
	lastAlerts  []risk.Alert
	hasMetrics  bool

	tradeDelay  time.Duration
	callTimeout time.Duration
	now         func() time.Time
}

type Option func(*Engine)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.jnl = j }
}

// WithRiskEngine injects a pre-seeded risk engine.
func WithRiskEngine(r *risk.Engine) Option {
	return func(e *Engine) { e.risk = r }
}

// WithClock overrides the wall clock; tests use it to cross date boundaries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTradeDelay overrides the inter-order delay. Production keeps the
// configured floor of one second; tests shorten it.
func WithTradeDelay(d time.Duration) Option {
	return func(e *Engine) { e.tradeDelay = d }
}

func New(b broker.Broker, s signal.Service, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	delay, err := cfg.ParseTradeDelay()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.ParseCallTimeout()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		brk:         b,
		signals:     s,
		jnl:         journal.Nop{},
		log:         zerolog.Nop(),
		cfg:         *cfg,
		tradeDelay:  delay,
		callTimeout: timeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.risk == nil {
		e.risk = risk.NewEngine(risk.WithLogger(e.log))
	}
	e.responder = risk.NewResponder(b, e.log)
	return e, nil
}

// Start verifies the collaborators are reachable before allowing cycles.
// Any check error aborts the transition and the engine remains stopped; a
// thin cash buffer only warns.
func (e *Engine) Start(ctx context.Context) error {
	acct, err := e.account(ctx)
	if err != nil {
		return fmt.Errorf("start: account check: %w", err)
	}

	e.mu.Lock()
	minCash := e.cfg.Risk.MinCashRatio
	e.mu.Unlock()

	if acct.TotalAssets > 0 && acct.CashBalance/acct.TotalAssets < minCash {
		e.log.Warn().
			Float64("cash_ratio", acct.CashBalance/acct.TotalAssets).
			Float64("min_cash_ratio", minCash).
			Msg("cash buffer below configured minimum")
	}

	if err := e.signals.Health(ctx); err != nil {
		return fmt.Errorf("start: signal service health: %w", err)
	}
	if _, err := e.signals.GetMarketAnalysis(ctx); err != nil {
		return fmt.Errorf("start: market analysis: %w", err)
	}

	e.mu.Lock()
	e.state.IsRunning = true
	e.mu.Unlock()

	e.log.Info().Msg("engine started")
	return nil
}

// Stop prevents new cycles from starting. In-flight order submissions are
// not interrupted.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.state.IsRunning = false
	e.mu.Unlock()
	e.log.Info().Msg("engine stopped")
}

// Running reports whether the engine accepts new cycles.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsRunning
}

// State returns a copy of the engine-owned running state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Config returns a copy of the live configuration.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// UpdateConfiguration merges the partial update into the live configuration,
// effective from the next cycle. The merged result must validate.
func (e *Engine) UpdateConfiguration(u config.Update) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := e.cfg
	merged.Apply(u)
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("update configuration: %w", err)
	}
	e.cfg = merged
	return nil
}

// GetPerformanceMetrics summarizes cumulative trading outcomes. Ratios are
// zero, never NaN, for an engine that has not traded.
func (e *Engine) GetPerformanceMetrics() Performance {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := Performance{
		TotalTrades: e.state.TotalTrades,
		WinTrades:   e.state.WinTrades,
		TotalPnL:    e.state.TotalPnL,
		MaxDrawdown: e.state.MaxDrawdown,
	}
	if e.state.TotalTrades > 0 {
		p.WinRate = float64(e.state.WinTrades) / float64(e.state.TotalTrades)
		p.AvgPnLPerTrade = e.state.TotalPnL / float64(e.state.TotalTrades)
	}
	return p
}

// CycleReport is everything one evaluation cycle produced.
type CycleReport struct {
	Metrics  risk.Metrics
	Alerts   []risk.Alert
	Breakers []risk.Breaker
	Halted   bool
	Results  []Result
}

// Cycle runs one full evaluation cycle: metrics, alerts, breakers, emergency
// response, then (if still running) rebalancing and the protective sweep.
func (e *Engine) Cycle(ctx context.Context) (CycleReport, error) {
	if !e.rebalanceMu.TryLock() {
		return CycleReport{}, ErrRebalanceInProgress
	}
	defer e.rebalanceMu.Unlock()

	if !e.Running() {
		return CycleReport{}, ErrNotRunning
	}

	acct, err := e.account(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	quotes := e.fetchQuotes(ctx, acct)
	e.risk.Observe(quotes)

	e.mu.Lock()
	limits := e.cfg.Risk
	e.mu.Unlock()

	m := e.risk.Compute(acct, quotes)
	alerts := risk.GenerateAlerts(m, limits)
	breakers := risk.EvaluateBreakers(m, limits)

	e.recordSnapshot(m, alerts, breakers)

	report := CycleReport{Metrics: m, Alerts: alerts, Breakers: breakers}

	tripped := false
	for _, b := range breakers {
		if b.Triggered {
			tripped = true
			break
		}
	}
	if tripped {
		if halt := e.responder.HandleEmergency(ctx, breakers, acct); halt {
			e.Stop()
			report.Halted = true
			return report, nil
		}
	}

	results, err := e.rebalance(ctx)
	if err != nil {
		return report, err
	}
	report.Results = results

	sweep, err := e.sweepStopLossTakeProfit(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("stop-loss/take-profit sweep failed")
		return report, nil
	}
	report.Results = append(report.Results, sweep...)

	metrics.RebalanceCycles.Inc()
	return report, nil
}

// EvaluateRisk computes one risk snapshot, with alerts and breaker states,
// without trading or emergency response. The snapshot still advances the
// engine's running peak/history state.
func (e *Engine) EvaluateRisk(ctx context.Context) (risk.Metrics, []risk.Alert, []risk.Breaker, error) {
	if !e.rebalanceMu.TryLock() {
		return risk.Metrics{}, nil, nil, ErrRebalanceInProgress
	}
	defer e.rebalanceMu.Unlock()

	acct, err := e.account(ctx)
	if err != nil {
		return risk.Metrics{}, nil, nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	quotes := e.fetchQuotes(ctx, acct)
	e.risk.Observe(quotes)

	e.mu.Lock()
	limits := e.cfg.Risk
	e.mu.Unlock()

	m := e.risk.Compute(acct, quotes)
	alerts := risk.GenerateAlerts(m, limits)
	breakers := risk.EvaluateBreakers(m, limits)
	e.recordSnapshot(m, alerts, breakers)
	return m, alerts, breakers, nil
}

// ExecuteRebalancing runs the signal → decision → execution pipeline once.
// It is non-reentrant per engine instance.
func (e *Engine) ExecuteRebalancing(ctx context.Context) ([]Result, error) {
	if !e.rebalanceMu.TryLock() {
		return nil, ErrRebalanceInProgress
	}
	defer e.rebalanceMu.Unlock()
	return e.rebalance(ctx)
}

// CheckStopLossAndTakeProfit forces protective exits for every held position
// breaching the loss floor or profit ceiling. These sells bypass the
// confidence, risk-score and daily-quota filters: they reduce risk rather
// than take it.
func (e *Engine) CheckStopLossAndTakeProfit(ctx context.Context) ([]Result, error) {
	if !e.rebalanceMu.TryLock() {
		return nil, ErrRebalanceInProgress
	}
	defer e.rebalanceMu.Unlock()
	return e.sweepStopLossTakeProfit(ctx)
}

func (e *Engine) recordSnapshot(m risk.Metrics, alerts []risk.Alert, breakers []risk.Breaker) {
	e.mu.Lock()
	e.lastMetrics = m
	e.lastAlerts = alerts
	e.hasMetrics = true
	if m.Drawdown.Max > e.state.MaxDrawdown {
		e.state.MaxDrawdown = m.Drawdown.Max
	}
	e.mu.Unlock()

	metrics.PortfolioValue.Set(m.TotalAssets)
	metrics.VaR95.Set(m.VaR95)
	metrics.Leverage.Set(m.Leverage)
	metrics.Drawdown.Set(m.Drawdown.Current)
	for _, b := range breakers {
		if b.Triggered {
			metrics.BreakerTrips.WithLabelValues(b.Name).Inc()
		}
	}

	for _, a := range alerts {
		rec := journal.AlertRecord{
			ID:             id.New(),
			Level:          string(a.Level),
			Category:       a.Category,
			Message:        a.Message,
			Recommendation: a.Recommendation,
			Symbols:        strings.Join(a.Symbols, ";"),
			Timestamp:      a.Timestamp,
		}
		if err := e.jnl.RecordAlert(rec); err != nil {
			e.log.Error().Err(err).Str("category", a.Category).Msg("journal alert failed")
		}
	}
}

// Run loops evaluation cycles at the configured frequency until the context
// is cancelled or the engine is stopped. Stop is cooperative: a cycle in
// flight finishes its submissions.
func (e *Engine) Run(ctx context.Context) error {
	for {
		e.mu.Lock()
		freqStr := e.cfg.RebalanceFrequency
		e.mu.Unlock()

		freq, err := time.ParseDuration(freqStr)
		if err != nil {
			return fmt.Errorf("rebalance frequency: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(freq):
		}

		if !e.Running() {
			return nil
		}

		if _, err := e.Cycle(ctx); err != nil {
			// A cycle that cannot begin is logged and retried next tick.
			e.log.Error().Err(err).Msg("cycle failed")
		}
	}
}

// account fetches a fresh snapshot with the per-call timeout.
func (e *Engine) account(ctx context.Context) (broker.AccountSnapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.brk.GetAccountBalance(cctx)
}

// fetchQuotes pulls quotes for every held position and configured target.
// A missing quote excludes only that symbol.
func (e *Engine) fetchQuotes(ctx context.Context, acct broker.AccountSnapshot) map[string]broker.PriceQuote {
	e.mu.Lock()
	targets := append([]string(nil), e.cfg.TargetSymbols...)
	e.mu.Unlock()

	want := make(map[string]struct{}, len(acct.Positions)+len(targets))
	for _, p := range acct.Positions {
		want[p.Symbol] = struct{}{}
	}
	for _, s := range targets {
		want[s] = struct{}{}
	}

	quotes := make(map[string]broker.PriceQuote, len(want))
	for sym := range want {
		cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		q, err := e.brk.GetRealTimePrice(cctx, sym)
		cancel()
		if err != nil {
			e.log.Warn().Err(err).Str("symbol", sym).Msg("quote unavailable")
			continue
		}
		quotes[sym] = q
	}
	return quotes
}

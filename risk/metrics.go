// Package risk computes portfolio risk metrics and drives the protective
// machinery built on them: alert generation, circuit breakers and the
// emergency responder.
//
// VaR and expected shortfall come from a Monte Carlo simulation that samples
// each asset's return independently. A pairwise correlation matrix is
// computed and reported alongside, but it is deliberately not fed back into
// the draws; correlated (e.g. Cholesky) sampling would change the percentile
// semantics the rest of the system is calibrated to.
package risk

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/sector"
)

const (
	defaultTrials = 10000
	historyWindow = 252 // one trading year of return samples
	minSamples    = 20

	// Assumed per-cycle return distribution for assets with thin history.
	defaultMean = 0.001
	defaultStd  = 0.02
)

type PositionWeight struct {
	Symbol string
	Weight float64
	Amount float64
}

type Concentration struct {
	MaxSinglePosition float64
	BySector          map[string]float64
	TopPositions      []PositionWeight
}

type Liquidity struct {
	Ratio             float64
	MarketImpactScore float64
}

type Correlation struct {
	Avg    float64
	Max    float64
	Matrix map[string]map[string]float64
}

type Drawdown struct {
	Current        float64
	Max            float64
	DurationCycles int
}

// Metrics is one cycle's full risk snapshot.
type Metrics struct {
	VaR95             float64
	VaR99             float64
	ExpectedShortfall float64
	Leverage          float64
	Concentration     Concentration
	Liquidity         Liquidity
	Correlation       Correlation
	Drawdown          Drawdown
	TotalAssets       float64
	Timestamp         time.Time
}

// Engine computes Metrics and owns the running state behind them: the
// all-time peak value, drawdown duration and per-symbol trailing return
// history. It is single-writer; one engine instance belongs to exactly one
// decision loop and must not be shared across concurrently executing cycles.
type Engine struct {
	trials   int
	norm     *normGen
	sectorFn func(string) string
	log      zerolog.Logger

	peak     float64
	maxDD    float64
	ddCycles int

	lastPrice map[string]float64
	history   map[string][]float64
}

type Option func(*Engine)

// WithTrials overrides the Monte Carlo trial count.
func WithTrials(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.trials = n
		}
	}
}

// WithSeed makes the simulation deterministic; tests rely on this.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.norm = newNormGen(seed) }
}

// WithSectorLookup replaces the default symbol→sector table.
func WithSectorLookup(fn func(string) string) Option {
	return func(e *Engine) { e.sectorFn = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		trials:    defaultTrials,
		norm:      newNormGen(time.Now().UnixNano()),
		sectorFn:  sector.Lookup,
		log:       zerolog.Nop(),
		lastPrice: make(map[string]float64),
		history:   make(map[string][]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Observe appends one return sample per symbol from successive price
// observations, keeping a rolling window of historyWindow samples.
func (e *Engine) Observe(quotes map[string]broker.PriceQuote) {
	for sym, q := range quotes {
		if q.Price <= 0 {
			continue
		}
		if last, ok := e.lastPrice[sym]; ok && last > 0 {
			h := append(e.history[sym], (q.Price-last)/last)
			if len(h) > historyWindow {
				h = h[len(h)-historyWindow:]
			}
			e.history[sym] = h
		}
		e.lastPrice[sym] = q.Price
	}
}

// SeedHistory replaces the trailing return series for a symbol.
func (e *Engine) SeedHistory(symbol string, returns []float64) {
	h := append([]float64(nil), returns...)
	if len(h) > historyWindow {
		h = h[len(h)-historyWindow:]
	}
	e.history[symbol] = h
}

// Compute produces the full risk snapshot for the account and advances the
// engine's running peak/drawdown state.
func (e *Engine) Compute(acct broker.AccountSnapshot, quotes map[string]broker.PriceQuote) Metrics {
	m := Metrics{
		TotalAssets: acct.TotalAssets,
		Timestamp:   time.Now(),
	}

	m.VaR95, m.VaR99, m.ExpectedShortfall = e.monteCarloVaR(acct)
	m.Leverage = leverage(acct)
	m.Concentration = e.concentration(acct)
	m.Liquidity = liquidity(acct, quotes)
	m.Correlation = e.correlation(acct)
	m.Drawdown = e.updateDrawdown(acct.TotalAssets)

	e.log.Debug().
		Float64("var95", m.VaR95).
		Float64("var99", m.VaR99).
		Float64("leverage", m.Leverage).
		Float64("drawdown", m.Drawdown.Current).
		Msg("risk snapshot")

	return m
}

// leverage is stock value over total assets; zero (never NaN/Inf) for an
// empty account.
func leverage(acct broker.AccountSnapshot) float64 {
	if acct.TotalAssets <= 0 {
		return 0
	}
	return acct.StockValue / acct.TotalAssets
}

func (e *Engine) concentration(acct broker.AccountSnapshot) Concentration {
	c := Concentration{BySector: make(map[string]float64)}
	if acct.TotalAssets <= 0 {
		return c
	}

	weights := make([]PositionWeight, 0, len(acct.Positions))
	for _, p := range acct.Positions {
		w := p.EvaluationAmount / acct.TotalAssets
		weights = append(weights, PositionWeight{Symbol: p.Symbol, Weight: w, Amount: p.EvaluationAmount})
		c.BySector[e.sectorFn(p.Symbol)] += w
		if w > c.MaxSinglePosition {
			c.MaxSinglePosition = w
		}
	}

	sort.Slice(weights, func(i, j int) bool { return weights[i].Amount > weights[j].Amount })
	if len(weights) > 5 {
		weights = weights[:5]
	}
	c.TopPositions = weights
	return c
}

// liquidity estimates how much of the portfolio could be unwound against one
// day's traded value, and a market-impact penalty for positions that are
// large relative to it. Positions with no usable volume data count as fully
// illiquid and contribute no impact term (their daily traded value is
// unknown, not zero-cost).
func liquidity(acct broker.AccountSnapshot, quotes map[string]broker.PriceQuote) Liquidity {
	if acct.TotalAssets <= 0 {
		return Liquidity{}
	}

	liquid := acct.CashBalance
	impact := 0.0
	for _, p := range acct.Positions {
		if p.EvaluationAmount <= 0 {
			continue
		}
		q, ok := quotes[p.Symbol]
		dailyValue := float64(q.Volume) * q.Price
		if !ok || dailyValue <= 0 {
			continue
		}
		liquid += p.EvaluationAmount * math.Min(dailyValue/p.EvaluationAmount, 1)
		impact += math.Max(0, (p.EvaluationAmount/dailyValue-0.05)*0.1) * p.EvaluationAmount
	}

	return Liquidity{
		Ratio:             liquid / acct.TotalAssets,
		MarketImpactScore: impact / acct.TotalAssets,
	}
}

// updateDrawdown advances the running peak and returns the current drawdown
// picture. DurationCycles counts consecutive most-recent cycles spent below
// the peak.
func (e *Engine) updateDrawdown(total float64) Drawdown {
	if total >= e.peak {
		e.peak = total
		e.ddCycles = 0
		return Drawdown{Max: e.maxDD}
	}

	e.ddCycles++
	current := 0.0
	if e.peak > 0 {
		current = (e.peak - total) / e.peak
	}
	if current > e.maxDD {
		e.maxDD = current
	}
	return Drawdown{Current: current, Max: e.maxDD, DurationCycles: e.ddCycles}
}

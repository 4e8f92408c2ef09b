package risk

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tradepilot/tradepilot/broker"
)

// returnStats is the per-asset (mean, std) estimate the simulation draws
// from. Assets with fewer than minSamples observations fall back to the
// package defaults.
type returnStats struct {
	mean float64
	std  float64
}

func (e *Engine) statsFor(symbol string) returnStats {
	h := e.history[symbol]
	if len(h) < minSamples {
		return returnStats{mean: defaultMean, std: defaultStd}
	}

	var sum float64
	for _, r := range h {
		sum += r
	}
	mean := sum / float64(len(h))

	var sq float64
	for _, r := range h {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(h)))
	if std == 0 {
		std = defaultStd
	}
	return returnStats{mean: mean, std: std}
}

// monteCarloVaR runs the full simulation: one standard-normal draw per asset
// per trial, scaled by that asset's (mean, std), independently across assets.
// Returns 95% VaR, 99% VaR and expected shortfall at the 95% cutoff, all as
// positive loss amounts relative to the current total.
func (e *Engine) monteCarloVaR(acct broker.AccountSnapshot) (var95, var99, shortfall float64) {
	if len(acct.Positions) == 0 || acct.TotalAssets <= 0 {
		return 0, 0, 0
	}

	stats := make([]returnStats, len(acct.Positions))
	for i, p := range acct.Positions {
		stats[i] = e.statsFor(p.Symbol)
	}

	totals := make([]float64, e.trials)
	for t := range totals {
		total := acct.CashBalance
		for i, p := range acct.Positions {
			r := stats[i].mean + e.norm.next()*stats[i].std
			total += p.EvaluationAmount * (1 + r)
		}
		totals[t] = total
	}
	sort.Float64s(totals)

	i95 := e.trials * 5 / 100
	i99 := e.trials / 100

	var95 = acct.TotalAssets - totals[i95]
	var99 = acct.TotalAssets - totals[i99]

	var tail float64
	for _, v := range totals[:i95+1] {
		tail += v
	}
	shortfall = acct.TotalAssets - tail/float64(i95+1)
	return var95, var99, shortfall
}

// normGen draws standard normals via Box-Muller, caching the second value of
// each pair. Not safe for concurrent use; the owning Engine is single-writer.
type normGen struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

func newNormGen(seed int64) *normGen {
	return &normGen{rng: rand.New(rand.NewSource(seed))}
}

func (g *normGen) next() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	u1 := g.rng.Float64()
	for u1 == 0 {
		u1 = g.rng.Float64()
	}
	u2 := g.rng.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2

	g.spare = r * math.Sin(theta)
	g.hasSpare = true
	return r * math.Cos(theta)
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradepilot/tradepilot/broker"
)

func TestMonteCarloVaROrdering(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(7))
	var95, var99, shortfall := e.monteCarloVaR(testAccount())

	assert.Greater(t, var95, 0.0)
	assert.GreaterOrEqual(t, var99, var95)
	assert.GreaterOrEqual(t, shortfall, var95)
}

func TestMonteCarloVaREmptyPortfolio(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(7))
	var95, var99, shortfall := e.monteCarloVaR(broker.AccountSnapshot{TotalAssets: 100000, CashBalance: 100000})

	assert.Zero(t, var95)
	assert.Zero(t, var99)
	assert.Zero(t, shortfall)
}

func TestMonteCarloVaRScalesWithExposure(t *testing.T) {
	t.Parallel()

	small := broker.AccountSnapshot{
		TotalAssets: 1000000,
		CashBalance: 900000,
		StockValue:  100000,
		Positions:   []broker.Position{{Symbol: "AAPL", EvaluationAmount: 100000}},
	}
	large := broker.AccountSnapshot{
		TotalAssets: 1000000,
		CashBalance: 100000,
		StockValue:  900000,
		Positions:   []broker.Position{{Symbol: "AAPL", EvaluationAmount: 900000}},
	}

	smallVaR, _, _ := NewEngine(WithSeed(7)).monteCarloVaR(small)
	largeVaR, _, _ := NewEngine(WithSeed(7)).monteCarloVaR(large)

	assert.Greater(t, largeVaR, smallVaR)
}

func TestStatsForDefaults(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(7))

	// Thin history falls back to the package defaults.
	e.SeedHistory("THIN", make([]float64, minSamples-1))
	st := e.statsFor("THIN")
	assert.InDelta(t, defaultMean, st.mean, 1e-12)
	assert.InDelta(t, defaultStd, st.std, 1e-12)

	// Long history is estimated from the samples.
	hist := make([]float64, 40)
	for i := range hist {
		if i%2 == 0 {
			hist[i] = 0.01
		} else {
			hist[i] = -0.01
		}
	}
	e.SeedHistory("DEEP", hist)
	st = e.statsFor("DEEP")
	assert.InDelta(t, 0, st.mean, 1e-12)
	assert.InDelta(t, 0.01, st.std, 1e-9)
}

func TestNormGenMoments(t *testing.T) {
	t.Parallel()

	g := newNormGen(11)
	const n = 200000

	var sum, sq float64
	for i := 0; i < n; i++ {
		v := g.next()
		sum += v
		sq += v * v
	}
	mean := sum / n
	variance := sq/n - mean*mean

	assert.InDelta(t, 0, mean, 0.02)
	assert.InDelta(t, 1, variance, 0.02)
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradepilot/tradepilot/broker"
)

func TestPearson(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1},
		{"inverse", []float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}, -1},
		{"constant_series", []float64{1, 1, 1}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, pearson(tt.x, tt.y), 1e-9)
		})
	}
}

func TestPairCorrelationDefault(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(3))
	e.SeedHistory("A", make([]float64, minSamples-1))
	e.SeedHistory("B", make([]float64, minSamples+10))

	// Either series below the sample floor yields the default.
	assert.InDelta(t, defaultCorrelation, e.pairCorrelation("A", "B"), 1e-12)
}

func TestCorrelationMatrix(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(3))

	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		v := float64(i%5) * 0.01
		up[i] = v
		down[i] = -v
	}
	e.SeedHistory("A", up)
	e.SeedHistory("B", down)

	acct := broker.AccountSnapshot{
		TotalAssets: 100,
		Positions: []broker.Position{
			{Symbol: "A", EvaluationAmount: 50},
			{Symbol: "B", EvaluationAmount: 50},
		},
	}
	c := e.correlation(acct)

	assert.InDelta(t, 1, c.Matrix["A"]["A"], 1e-9)
	assert.InDelta(t, -1, c.Matrix["A"]["B"], 1e-9)
	assert.InDelta(t, c.Matrix["A"]["B"], c.Matrix["B"]["A"], 1e-12, "matrix is symmetric")

	// Avg and Max summarize absolute values.
	assert.InDelta(t, 1, c.Avg, 1e-9)
	assert.InDelta(t, 1, c.Max, 1e-9)
}

func TestCorrelationSinglePosition(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithSeed(3))
	c := e.correlation(broker.AccountSnapshot{
		TotalAssets: 100,
		Positions:   []broker.Position{{Symbol: "A", EvaluationAmount: 100}},
	})

	assert.Zero(t, c.Avg)
	assert.Zero(t, c.Max)
	assert.InDelta(t, 1, c.Matrix["A"]["A"], 1e-12)
}

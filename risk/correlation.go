package risk

import (
	"math"

	"github.com/tradepilot/tradepilot/broker"
)

// defaultCorrelation stands in for pairs where either return series is too
// short to estimate from.
const defaultCorrelation = 0.3

// correlation builds the pairwise Pearson matrix over held symbols. Avg and
// Max summarize the absolute off-diagonal values.
func (e *Engine) correlation(acct broker.AccountSnapshot) Correlation {
	syms := make([]string, 0, len(acct.Positions))
	for _, p := range acct.Positions {
		syms = append(syms, p.Symbol)
	}

	c := Correlation{Matrix: make(map[string]map[string]float64, len(syms))}
	for _, s := range syms {
		c.Matrix[s] = make(map[string]float64, len(syms))
		c.Matrix[s][s] = 1
	}

	var sum float64
	var pairs int
	for i := 0; i < len(syms); i++ {
		for j := i + 1; j < len(syms); j++ {
			v := e.pairCorrelation(syms[i], syms[j])
			c.Matrix[syms[i]][syms[j]] = v
			c.Matrix[syms[j]][syms[i]] = v

			av := math.Abs(v)
			sum += av
			pairs++
			if av > c.Max {
				c.Max = av
			}
		}
	}
	if pairs > 0 {
		c.Avg = sum / float64(pairs)
	}
	return c
}

func (e *Engine) pairCorrelation(a, b string) float64 {
	ha, hb := e.history[a], e.history[b]
	if len(ha) < minSamples || len(hb) < minSamples {
		return defaultCorrelation
	}

	n := len(ha)
	if len(hb) < n {
		n = len(hb)
	}
	// Align on the most recent n samples.
	ha = ha[len(ha)-n:]
	hb = hb[len(hb)-n:]

	return pearson(ha, hb)
}

func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}

	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

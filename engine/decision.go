package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/signal"
)

// Decision is one cycle's intended trade for a symbol, produced from an AI
// prediction and consumed immediately.
type Decision struct {
	Symbol         string
	Action         broker.Side
	Confidence     float64
	TargetWeight   float64
	Reasoning      []string
	RiskScore      float64
	ExpectedReturn float64
}

// Result is the audit record for one decision: executed, rejected by the
// broker, or filtered before submission.
type Result struct {
	Decision  Decision
	Order     *broker.OrderResult
	Executed  bool
	Error     string
	Timestamp time.Time
}

const (
	// weightDeadBand is the minimum weight gap, in fraction of assets, before
	// a rebalancing trade is worth emitting.
	weightDeadBand = 0.01

	// lossyPositionRate marks a position as distressed for risk scoring.
	lossyPositionRate = -0.05

	maxRiskScore = 0.7
)

// buildDecisions requests one prediction per configured target symbol and
// converts the surviving signals into buy/sell decisions. A per-symbol fetch
// failure excludes only that symbol.
func (e *Engine) buildDecisions(ctx context.Context, acct broker.AccountSnapshot, sentiment signal.Sentiment) []Decision {
	e.mu.Lock()
	targets := append([]string(nil), e.cfg.TargetSymbols...)
	threshold := e.cfg.ConfidenceThreshold
	maxPosition := e.cfg.Risk.MaxPositionSize
	horizon := e.cfg.PredictionHorizon
	e.mu.Unlock()

	var decisions []Decision
	for _, sym := range targets {
		cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		pred, err := e.signals.PredictPrice(cctx, sym, horizon)
		cancel()
		if err != nil {
			e.log.Warn().Err(err).Str("symbol", sym).Msg("prediction unavailable, symbol excluded")
			continue
		}
		if pred.Confidence < threshold {
			continue
		}

		d, ok := e.decisionFor(acct, sym, pred, sentiment, maxPosition)
		if !ok {
			continue
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// decisionFor sizes the target weight from signal confidence and market
// sentiment, and emits a decision only when it moves the position by more
// than the dead band.
func (e *Engine) decisionFor(acct broker.AccountSnapshot, sym string, pred signal.Prediction, sentiment signal.Sentiment, maxPosition float64) (Decision, bool) {
	target := pred.Confidence * maxPosition * sentiment.Multiplier()
	if target > maxPosition {
		target = maxPosition
	}

	current := acct.Weight(sym)
	diff := target - current

	var action broker.Side
	switch {
	case diff > weightDeadBand:
		action = broker.SideBuy
	case diff < -weightDeadBand:
		action = broker.SideSell
	default:
		return Decision{}, false
	}

	d := Decision{
		Symbol:         sym,
		Action:         action,
		Confidence:     pred.Confidence,
		TargetWeight:   target,
		RiskScore:      e.riskScore(acct, sym, pred.Confidence),
		ExpectedReturn: pred.Prediction,
		Reasoning: []string{
			fmt.Sprintf("signal confidence %.2f with %s sentiment", pred.Confidence, sentiment),
			fmt.Sprintf("target weight %.1f%%, current %.1f%%", target*100, current*100),
		},
	}
	if pred.TargetPrice > 0 {
		d.Reasoning = append(d.Reasoning, fmt.Sprintf("target price %.2f", pred.TargetPrice))
	}
	return d, true
}

// riskScore blends signal distrust, position distress and a fixed baseline.
func (e *Engine) riskScore(acct broker.AccountSnapshot, sym string, confidence float64) float64 {
	distress := 0.0
	if p, ok := acct.Position(sym); ok && p.ProfitLossRate < lossyPositionRate {
		distress = 1.0
	}
	return 0.4*(1-confidence) + 0.3*distress + 0.2
}

// orderQuantity converts a weight target into a share count at the current
// price, rounding toward zero.
func orderQuantity(totalAssets, targetWeight, currentAmount, price float64) int64 {
	if price <= 0 {
		return 0
	}
	delta := totalAssets*targetWeight - currentAmount
	return int64(math.Floor(math.Abs(delta) / price))
}

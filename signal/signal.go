// Package signal defines the AI signal-service collaborator. The service is
// treated as an opaque, best-effort scorer: per-call failures are isolated by
// callers and never abort a whole cycle.
package signal

import "context"

type Service interface {
	Health(ctx context.Context) error
	GetMarketAnalysis(ctx context.Context) (MarketAnalysis, error)
	PredictPrice(ctx context.Context, symbol string, horizonDays int) (Prediction, error)
}

type Sentiment string

const (
	Bullish Sentiment = "bullish"
	Neutral Sentiment = "neutral"
	Bearish Sentiment = "bearish"
)

// Multiplier scales target position weights by market mood.
func (s Sentiment) Multiplier() float64 {
	switch s {
	case Bullish:
		return 1.2
	case Bearish:
		return 0.8
	default:
		return 1.0
	}
}

type MarketAnalysis struct {
	Sentiment Sentiment `json:"sentiment"`
	TopPicks  []string  `json:"top_picks"`
}

// Prediction is a per-symbol score. Prediction is the expected return over
// the horizon, Confidence is trust in the signal on [0,1].
type Prediction struct {
	Prediction  float64 `json:"prediction"`
	Confidence  float64 `json:"confidence"`
	TargetPrice float64 `json:"target_price"`
}

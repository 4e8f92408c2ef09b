package signal

import (
	"context"
	"fmt"
)

// Static serves fixed predictions from memory. It backs tests and demo runs
// where no scoring service is reachable.
type Static struct {
	Analysis    MarketAnalysis
	Predictions map[string]Prediction

	// Errs forces a per-symbol failure; used to exercise exclusion paths.
	Errs map[string]error

	// HealthErr and AnalysisErr force whole-service failures.
	HealthErr   error
	AnalysisErr error
}

func NewStatic() *Static {
	return &Static{
		Analysis:    MarketAnalysis{Sentiment: Neutral},
		Predictions: make(map[string]Prediction),
		Errs:        make(map[string]error),
	}
}

func (s *Static) Health(ctx context.Context) error { return s.HealthErr }

func (s *Static) GetMarketAnalysis(ctx context.Context) (MarketAnalysis, error) {
	if s.AnalysisErr != nil {
		return MarketAnalysis{}, s.AnalysisErr
	}
	return s.Analysis, nil
}

func (s *Static) PredictPrice(ctx context.Context, symbol string, horizonDays int) (Prediction, error) {
	if err := s.Errs[symbol]; err != nil {
		return Prediction{}, err
	}
	p, ok := s.Predictions[symbol]
	if !ok {
		return Prediction{}, fmt.Errorf("no prediction for %s", symbol)
	}
	return p, nil
}

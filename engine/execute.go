package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/id"
	"github.com/tradepilot/tradepilot/journal"
	"github.com/tradepilot/tradepilot/metrics"
	"github.com/tradepilot/tradepilot/signal"
)

// rebalance runs the signal → decision → filter → execute pipeline. Caller
// holds rebalanceMu.
func (e *Engine) rebalance(ctx context.Context) ([]Result, error) {
	acct, err := e.account(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	sentiment := signal.Neutral
	if analysis, err := e.signals.GetMarketAnalysis(ctx); err != nil {
		e.log.Warn().Err(err).Msg("market analysis unavailable, assuming neutral sentiment")
	} else if analysis.Sentiment != "" {
		sentiment = analysis.Sentiment
	}

	decisions := e.buildDecisions(ctx, acct, sentiment)
	return e.executeBatch(ctx, acct, decisions)
}

// executeBatch filters and executes decisions strictly sequentially,
// preserving input order in the returned results. A single rejection never
// aborts the batch; the inter-trade delay is the backpressure protecting the
// broker from rate limits.
func (e *Engine) executeBatch(ctx context.Context, acct broker.AccountSnapshot, decisions []Decision) ([]Result, error) {
	e.mu.Lock()
	e.rolloverDailyLocked()
	threshold := e.cfg.ConfidenceThreshold
	maxTrades := e.cfg.MaxTradesPerDay
	e.mu.Unlock()

	results := make([]Result, 0, len(decisions))
	submitted := false

	for _, d := range decisions {
		if reason, drop := e.filterDecision(d, threshold, maxTrades); drop {
			metrics.DecisionsFiltered.WithLabelValues(reason).Inc()
			results = append(results, e.record(Result{
				Decision:  d,
				Error:     "filtered: " + reason,
				Timestamp: e.now(),
			}))
			continue
		}

		if submitted {
			if err := e.pause(ctx); err != nil {
				return results, err
			}
		}
		res := e.submit(ctx, acct, d)
		if res.attempted {
			submitted = true
		}
		results = append(results, res.Result)
	}
	return results, nil
}

// filterDecision applies the pre-submission gates: daily quota, risk score
// and the confidence threshold.
func (e *Engine) filterDecision(d Decision, threshold float64, maxTrades int) (string, bool) {
	e.mu.Lock()
	count := e.state.DailyTradeCount
	e.mu.Unlock()

	if count >= maxTrades {
		return "daily trade limit", true
	}
	if d.RiskScore > maxRiskScore {
		return "risk score", true
	}
	if d.Confidence < threshold {
		return "confidence", true
	}
	return "", false
}

type submission struct {
	Result
	// attempted is set when an order actually went to the broker, successful
	// or not; only attempts count toward the inter-trade delay.
	attempted bool
}

// submit sizes and places one market order for the decision. Failures are
// captured in the result, never returned.
func (e *Engine) submit(ctx context.Context, acct broker.AccountSnapshot, d Decision) submission {
	res := submission{Result: Result{Decision: d, Timestamp: e.now()}}

	var currentAmount, price float64
	if p, ok := acct.Position(d.Symbol); ok {
		currentAmount = p.EvaluationAmount
		price = p.CurrentPrice
	} else {
		cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		q, err := e.brk.GetRealTimePrice(cctx, d.Symbol)
		cancel()
		if err != nil {
			res.Error = fmt.Sprintf("price unavailable: %v", err)
			e.record(res.Result)
			return res
		}
		price = q.Price
	}

	qty := orderQuantity(acct.TotalAssets, d.TargetWeight, currentAmount, price)
	if qty == 0 {
		res.Error = "quantity rounds to zero"
		e.record(res.Result)
		return res
	}

	res.attempted = true
	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	order, err := e.brk.PlaceOrder(cctx, broker.OrderRequest{
		Symbol:   d.Symbol,
		Side:     d.Action,
		Method:   broker.MethodMarket,
		Quantity: qty,
	})
	cancel()
	if err != nil {
		metrics.OrdersFailed.Inc()
		res.Error = err.Error()
		e.log.Warn().Err(err).Str("symbol", d.Symbol).Msg("order rejected, batch continues")
		e.record(res.Result)
		return res
	}

	res.Executed = true
	res.Order = &order
	e.bookTrade(acct, d, order, true)
	e.record(res.Result)

	e.log.Info().
		Str("symbol", d.Symbol).
		Str("side", string(d.Action)).
		Int64("quantity", order.ExecutedQty).
		Float64("price", order.ExecutedPrice).
		Msg("order executed")
	return res
}

// sweepStopLossTakeProfit forces exits for distressed and overextended
// positions. These submissions bypass the discretionary filters and quota.
// Caller holds rebalanceMu.
func (e *Engine) sweepStopLossTakeProfit(ctx context.Context) ([]Result, error) {
	acct, err := e.account(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	var results []Result
	submitted := false

	for _, p := range acct.Positions {
		var (
			qty  int64
			kind string
		)
		switch {
		case p.ProfitLossRate <= stopLossRate:
			qty = p.Quantity
			kind = "stop_loss"
		case p.ProfitLossRate >= takeProfitRate:
			qty = p.Quantity / 2
			kind = "take_profit"
		default:
			continue
		}
		if qty <= 0 {
			continue
		}

		d := Decision{
			Symbol:       p.Symbol,
			Action:       broker.SideSell,
			Confidence:   1.0,
			TargetWeight: 0,
			Reasoning: []string{
				fmt.Sprintf("%s: position P/L %.1f%%", kind, p.ProfitLossRate*100),
			},
		}

		if submitted {
			if err := e.pause(ctx); err != nil {
				return results, err
			}
		}
		submitted = true

		res := Result{Decision: d, Timestamp: e.now()}
		cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		order, err := e.brk.PlaceOrder(cctx, broker.OrderRequest{
			Symbol:   p.Symbol,
			Side:     broker.SideSell,
			Method:   broker.MethodMarket,
			Quantity: qty,
		})
		cancel()
		if err != nil {
			metrics.OrdersFailed.Inc()
			res.Error = err.Error()
			e.log.Warn().Err(err).Str("symbol", p.Symbol).Str("kind", kind).Msg("forced sell rejected")
		} else {
			res.Executed = true
			res.Order = &order
			metrics.ForcedExits.WithLabelValues(kind).Inc()
			e.bookTrade(acct, d, order, false)
			e.log.Info().
				Str("symbol", p.Symbol).
				Str("kind", kind).
				Int64("quantity", order.ExecutedQty).
				Msg("forced sell executed")
		}
		results = append(results, e.record(res))
	}
	return results, nil
}

const (
	stopLossRate   = -0.05
	takeProfitRate = 0.20
)

// bookTrade updates cumulative performance counters for a successfully
// executed order. countsTowardQuota separates discretionary trades from
// protective exits, which do not consume the daily budget.
func (e *Engine) bookTrade(acct broker.AccountSnapshot, d Decision, order broker.OrderResult, countsTowardQuota bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if countsTowardQuota {
		e.rolloverDailyLocked()
		e.state.DailyTradeCount++
	}
	e.state.TotalTrades++

	if d.Action == broker.SideSell {
		if p, ok := acct.Position(d.Symbol); ok {
			pnl := (order.ExecutedPrice - p.AvgPrice) * float64(order.ExecutedQty)
			e.state.TotalPnL += pnl
			if pnl > 0 {
				e.state.WinTrades++
			}
		}
	}

	metrics.OrdersSubmitted.WithLabelValues(string(d.Action)).Inc()
}

// record journals a result and hands it back.
func (e *Engine) record(r Result) Result {
	rec := journal.ResultRecord{
		ID:           id.New(),
		Symbol:       r.Decision.Symbol,
		Action:       string(r.Decision.Action),
		Confidence:   r.Decision.Confidence,
		TargetWeight: r.Decision.TargetWeight,
		RiskScore:    r.Decision.RiskScore,
		Executed:     r.Executed,
		Error:        r.Error,
		Reasoning:    strings.Join(r.Decision.Reasoning, "; "),
		Timestamp:    r.Timestamp,
	}
	if r.Order != nil {
		rec.OrderID = r.Order.OrderID
		rec.Status = r.Order.Status
		rec.ExecutedQty = r.Order.ExecutedQty
		rec.ExecutedPrice = r.Order.ExecutedPrice
		rec.Fee = r.Order.Fee
		rec.Quantity = r.Order.ExecutedQty
	}
	if err := e.jnl.RecordResult(rec); err != nil {
		e.log.Error().Err(err).Str("symbol", rec.Symbol).Msg("journal result failed")
	}
	return r
}

// pause waits the inter-trade delay, honoring cancellation.
func (e *Engine) pause(ctx context.Context) error {
	if e.tradeDelay <= 0 {
		return nil
	}
	t := time.NewTimer(e.tradeDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

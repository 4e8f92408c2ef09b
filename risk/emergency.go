package risk

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tradepilot/tradepilot/broker"
)

// Responder executes the mitigation action behind each tripped breaker
// against the live broker. Liquidations are best-effort: a failed submission
// is logged and the next position is still attempted, and one breaker's
// failures never block handling of the next breaker.
type Responder struct {
	broker broker.Broker
	log    zerolog.Logger
}

func NewResponder(b broker.Broker, log zerolog.Logger) *Responder {
	return &Responder{broker: b, log: log}
}

// HandleEmergency dispatches every tripped breaker by its action category
// and reports whether trading should halt. Halting itself is the caller's
// state to flip; in-flight orders are never cancelled here.
func (r *Responder) HandleEmergency(ctx context.Context, breakers []Breaker, acct broker.AccountSnapshot) (halt bool) {
	for _, b := range breakers {
		if !b.Triggered {
			continue
		}

		r.log.Warn().
			Str("breaker", b.Name).
			Str("action", b.Action.String()).
			Float64("value", b.CurrentValue).
			Float64("threshold", b.Threshold).
			Msg("circuit breaker tripped")

		switch b.Action {
		case ActionEmergencyExit:
			r.sellPositions(ctx, acct, b.Name, false)
		case ActionReducePosition:
			r.sellPositions(ctx, acct, b.Name, true)
		case ActionHaltTrading:
			halt = true
		default:
			r.log.Error().Str("breaker", b.Name).Msg("breaker has unknown action")
		}
	}
	return halt
}

// sellPositions submits a market sell per held position: the full quantity,
// or half (rounded down) when reduce is set.
func (r *Responder) sellPositions(ctx context.Context, acct broker.AccountSnapshot, breaker string, reduce bool) {
	for _, p := range acct.Positions {
		qty := p.Quantity
		if reduce {
			qty = p.Quantity / 2
		}
		if qty <= 0 {
			continue
		}

		_, err := r.broker.PlaceOrder(ctx, broker.OrderRequest{
			Symbol:   p.Symbol,
			Side:     broker.SideSell,
			Method:   broker.MethodMarket,
			Quantity: qty,
		})
		if err != nil {
			r.log.Error().Err(err).
				Str("breaker", breaker).
				Str("symbol", p.Symbol).
				Int64("quantity", qty).
				Msg("emergency sell failed, continuing")
			continue
		}

		r.log.Info().
			Str("breaker", breaker).
			Str("symbol", p.Symbol).
			Int64("quantity", qty).
			Msg("emergency sell submitted")
	}
}

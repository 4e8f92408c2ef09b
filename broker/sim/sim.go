// Package sim provides an in-memory Broker used by tests and demo runs.
// Fills are immediate at the latest quote; account state is revalued after
// every fill so cash + holdings always matches TotalAssets.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/id"
)

var (
	ErrNoQuote          = errors.New("no quote for symbol")
	ErrInsufficientCash = errors.New("insufficient cash")
	ErrInsufficientQty  = errors.New("insufficient quantity")
	ErrOrderRejected    = errors.New("order rejected")
)

type holding struct {
	Quantity int64
	AvgPrice float64
}

// Engine is a simulated brokerage account.
type Engine struct {
	mu       sync.Mutex
	cash     float64
	holdings map[string]*holding
	quotes   map[string]broker.PriceQuote
	feeRate  float64

	// rejectNext maps symbol -> error returned on the next PlaceOrder for
	// that symbol. Used by tests to exercise continue-on-error paths.
	rejectNext map[string]error
	orders     []broker.OrderRequest
}

func NewEngine(cash float64) *Engine {
	return &Engine{
		cash:       cash,
		holdings:   make(map[string]*holding),
		quotes:     make(map[string]broker.PriceQuote),
		rejectNext: make(map[string]error),
	}
}

// SetFeeRate sets a proportional commission applied to fills.
func (e *Engine) SetFeeRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feeRate = rate
}

// SetQuote installs or replaces the latest quote for a symbol.
func (e *Engine) SetQuote(q broker.PriceQuote) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q.Timestamp.IsZero() {
		q.Timestamp = time.Now()
	}
	e.quotes[q.Symbol] = q
}

// Seed installs an existing holding without going through an order.
func (e *Engine) Seed(symbol string, quantity int64, avgPrice float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdings[symbol] = &holding{Quantity: quantity, AvgPrice: avgPrice}
}

// RejectNext makes the next order for symbol fail with err.
func (e *Engine) RejectNext(symbol string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		err = ErrOrderRejected
	}
	e.rejectNext[symbol] = err
}

// Orders returns every order request accepted or rejected so far, in
// submission order.
func (e *Engine) Orders() []broker.OrderRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]broker.OrderRequest, len(e.orders))
	copy(out, e.orders)
	return out
}

func (e *Engine) GetAccountBalance(ctx context.Context) (broker.AccountSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() (broker.AccountSnapshot, error) {
	snap := broker.AccountSnapshot{CashBalance: e.cash}
	for sym, h := range e.holdings {
		if h.Quantity == 0 {
			continue
		}
		q, ok := e.quotes[sym]
		if !ok {
			return broker.AccountSnapshot{}, fmt.Errorf("value %s: %w", sym, ErrNoQuote)
		}
		eval := float64(h.Quantity) * q.Price
		cost := float64(h.Quantity) * h.AvgPrice
		pos := broker.Position{
			Symbol:           sym,
			Quantity:         h.Quantity,
			AvgPrice:         h.AvgPrice,
			CurrentPrice:     q.Price,
			EvaluationAmount: eval,
			ProfitLoss:       eval - cost,
		}
		if cost > 0 {
			pos.ProfitLossRate = (eval - cost) / cost
		}
		snap.Positions = append(snap.Positions, pos)
		snap.StockValue += eval
	}
	snap.TotalAssets = snap.CashBalance + snap.StockValue
	return snap, nil
}

func (e *Engine) GetRealTimePrice(ctx context.Context, symbol string) (broker.PriceQuote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.quotes[symbol]
	if !ok {
		return broker.PriceQuote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoQuote)
	}
	return q, nil
}

func (e *Engine) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.orders = append(e.orders, req)

	if err, ok := e.rejectNext[req.Symbol]; ok {
		delete(e.rejectNext, req.Symbol)
		return broker.OrderResult{}, err
	}
	if req.Quantity <= 0 {
		return broker.OrderResult{}, fmt.Errorf("quantity %d: %w", req.Quantity, ErrOrderRejected)
	}

	q, ok := e.quotes[req.Symbol]
	if !ok {
		return broker.OrderResult{}, fmt.Errorf("fill %s: %w", req.Symbol, ErrNoQuote)
	}
	fill := q.Price
	if req.Method == broker.MethodLimit && req.Price > 0 {
		fill = req.Price
	}

	gross := float64(req.Quantity) * fill
	fee := gross * e.feeRate

	switch req.Side {
	case broker.SideBuy:
		if gross+fee > e.cash {
			return broker.OrderResult{}, fmt.Errorf("buy %s: %w", req.Symbol, ErrInsufficientCash)
		}
		e.cash -= gross + fee
		h := e.holdings[req.Symbol]
		if h == nil {
			h = &holding{}
			e.holdings[req.Symbol] = h
		}
		total := float64(h.Quantity)*h.AvgPrice + gross
		h.Quantity += req.Quantity
		h.AvgPrice = total / float64(h.Quantity)

	case broker.SideSell:
		h := e.holdings[req.Symbol]
		if h == nil || h.Quantity < req.Quantity {
			return broker.OrderResult{}, fmt.Errorf("sell %s: %w", req.Symbol, ErrInsufficientQty)
		}
		h.Quantity -= req.Quantity
		e.cash += gross - fee
		if h.Quantity == 0 {
			delete(e.holdings, req.Symbol)
		}

	default:
		return broker.OrderResult{}, fmt.Errorf("side %q: %w", req.Side, ErrOrderRejected)
	}

	return broker.OrderResult{
		OrderID:       id.New(),
		Status:        "filled",
		ExecutedQty:   req.Quantity,
		ExecutedPrice: fill,
		Timestamp:     time.Now(),
		Fee:           fee,
	}, nil
}

package broker

import (
	"context"
	"time"
)

// Broker is the brokerage collaborator the trading engine drives. Concrete
// implementations own their wire protocol and authentication/token refresh;
// callers only see account, quote and order operations.
type Broker interface {
	GetAccountBalance(ctx context.Context) (AccountSnapshot, error)
	GetRealTimePrice(ctx context.Context, symbol string) (PriceQuote, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type Method string

const (
	MethodMarket Method = "market"
	MethodLimit  Method = "limit"
)

// AccountSnapshot is the broker's view of the account, fetched fresh each
// cycle and treated as immutable within that cycle.
// Invariant: CashBalance + sum of position evaluation amounts ≈ TotalAssets.
type AccountSnapshot struct {
	TotalAssets float64
	CashBalance float64
	StockValue  float64
	Positions   []Position
}

// Position mirrors broker-held state; the engine never mutates it.
type Position struct {
	Symbol           string
	Quantity         int64
	AvgPrice         float64
	CurrentPrice     float64
	EvaluationAmount float64
	ProfitLoss       float64
	ProfitLossRate   float64
}

type PriceQuote struct {
	Symbol    string
	Price     float64
	Change    float64
	Volume    int64
	Timestamp time.Time
}

// OrderRequest describes a single order submission. Price is only consulted
// for limit orders.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Method   Method
	Quantity int64
	Price    float64
}

type OrderResult struct {
	OrderID       string
	Status        string
	ExecutedQty   int64
	ExecutedPrice float64
	Timestamp     time.Time
	Fee           float64
}

// Position returns the held position for symbol, if any.
func (a AccountSnapshot) Position(symbol string) (Position, bool) {
	for _, p := range a.Positions {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return Position{}, false
}

// Weight returns the portfolio weight of the position holding symbol,
// zero when the symbol is not held or the account is empty.
func (a AccountSnapshot) Weight(symbol string) float64 {
	if a.TotalAssets <= 0 {
		return 0
	}
	p, ok := a.Position(symbol)
	if !ok {
		return 0
	}
	return p.EvaluationAmount / a.TotalAssets
}

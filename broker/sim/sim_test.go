package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepilot/tradepilot/broker"
)

func TestBuyUpdatesCashAndPosition(t *testing.T) {
	t.Parallel()

	e := NewEngine(100000)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})

	ctx := context.Background()
	order, err := e.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodMarket, Quantity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "filled", order.Status)
	assert.Equal(t, int64(100), order.ExecutedQty)
	assert.Equal(t, 100.0, order.ExecutedPrice)
	assert.NotEmpty(t, order.OrderID)

	acct, err := e.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, acct.CashBalance)
	assert.Equal(t, 10000.0, acct.StockValue)
	assert.Equal(t, 100000.0, acct.TotalAssets)

	p, ok := acct.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.Quantity)
	assert.Equal(t, 100.0, p.AvgPrice)
}

func TestSellRealizesProfit(t *testing.T) {
	t.Parallel()

	e := NewEngine(0)
	e.Seed("AAPL", 100, 100)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 120})

	ctx := context.Background()
	_, err := e.PlaceOrder(ctx, broker.OrderRequest{
		Symbol: "AAPL", Side: broker.SideSell, Method: broker.MethodMarket, Quantity: 40,
	})
	require.NoError(t, err)

	acct, err := e.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4800.0, acct.CashBalance)

	p, ok := acct.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(60), p.Quantity)
	assert.InDelta(t, 0.20, p.ProfitLossRate, 1e-9)
}

func TestSellEntirePositionRemovesIt(t *testing.T) {
	t.Parallel()

	e := NewEngine(0)
	e.Seed("AAPL", 50, 100)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})

	_, err := e.PlaceOrder(context.Background(), broker.OrderRequest{
		Symbol: "AAPL", Side: broker.SideSell, Method: broker.MethodMarket, Quantity: 50,
	})
	require.NoError(t, err)

	acct, err := e.GetAccountBalance(context.Background())
	require.NoError(t, err)
	assert.Empty(t, acct.Positions)
	assert.Equal(t, 5000.0, acct.CashBalance)
}

func TestAveragePriceOnRepeatBuys(t *testing.T) {
	t.Parallel()

	e := NewEngine(100000)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
	ctx := context.Background()

	_, err := e.PlaceOrder(ctx, broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodMarket, Quantity: 100})
	require.NoError(t, err)

	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 200})
	_, err = e.PlaceOrder(ctx, broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodMarket, Quantity: 100})
	require.NoError(t, err)

	acct, err := e.GetAccountBalance(ctx)
	require.NoError(t, err)
	p, ok := acct.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(200), p.Quantity)
	assert.Equal(t, 150.0, p.AvgPrice)
}

func TestOrderRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*Engine)
		req     broker.OrderRequest
		wantErr error
	}{
		{
			name:    "no quote",
			setup:   func(e *Engine) {},
			req:     broker.OrderRequest{Symbol: "GHOST", Side: broker.SideBuy, Quantity: 10},
			wantErr: ErrNoQuote,
		},
		{
			name: "insufficient cash",
			setup: func(e *Engine) {
				e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 1000})
			},
			req:     broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Quantity: 1000},
			wantErr: ErrInsufficientCash,
		},
		{
			name: "insufficient quantity",
			setup: func(e *Engine) {
				e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
				e.Seed("AAPL", 10, 100)
			},
			req:     broker.OrderRequest{Symbol: "AAPL", Side: broker.SideSell, Quantity: 11},
			wantErr: ErrInsufficientQty,
		},
		{
			name: "zero quantity",
			setup: func(e *Engine) {
				e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
			},
			req:     broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Quantity: 0},
			wantErr: ErrOrderRejected,
		},
		{
			name: "unknown side",
			setup: func(e *Engine) {
				e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
			},
			req:     broker.OrderRequest{Symbol: "AAPL", Side: "short", Quantity: 10},
			wantErr: ErrOrderRejected,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewEngine(10000)
			tt.setup(e)
			_, err := e.PlaceOrder(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRejectNextFailsOnce(t *testing.T) {
	t.Parallel()

	e := NewEngine(100000)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
	ctx := context.Background()
	req := broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodMarket, Quantity: 10}

	e.RejectNext("AAPL", nil)
	_, err := e.PlaceOrder(ctx, req)
	assert.ErrorIs(t, err, ErrOrderRejected)

	_, err = e.PlaceOrder(ctx, req)
	assert.NoError(t, err, "injected failure applies to one order only")

	assert.Len(t, e.Orders(), 2, "rejected orders still audit")
}

func TestFeesReduceCashBothWays(t *testing.T) {
	t.Parallel()

	e := NewEngine(10000)
	e.SetFeeRate(0.001)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})
	ctx := context.Background()

	order, err := e.PlaceOrder(ctx, broker.OrderRequest{Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodMarket, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 1.0, order.Fee)

	acct, err := e.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10000.0-1000.0-1.0, acct.CashBalance)

	_, err = e.PlaceOrder(ctx, broker.OrderRequest{Symbol: "AAPL", Side: broker.SideSell, Method: broker.MethodMarket, Quantity: 10})
	require.NoError(t, err)

	acct, err = e.GetAccountBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10000.0-2.0, acct.CashBalance)
}

func TestLimitOrderFillsAtLimitPrice(t *testing.T) {
	t.Parallel()

	e := NewEngine(10000)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})

	order, err := e.PlaceOrder(context.Background(), broker.OrderRequest{
		Symbol: "AAPL", Side: broker.SideBuy, Method: broker.MethodLimit, Quantity: 10, Price: 95,
	})
	require.NoError(t, err)
	assert.Equal(t, 95.0, order.ExecutedPrice)
}

func TestSnapshotFailsWithoutQuoteForHolding(t *testing.T) {
	t.Parallel()

	e := NewEngine(1000)
	e.Seed("GHOST", 10, 50)

	_, err := e.GetAccountBalance(context.Background())
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestAccountWeight(t *testing.T) {
	t.Parallel()

	e := NewEngine(50000)
	e.Seed("AAPL", 500, 90)
	e.SetQuote(broker.PriceQuote{Symbol: "AAPL", Price: 100})

	acct, err := e.GetAccountBalance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acct.Weight("AAPL"), 1e-9)
	assert.Zero(t, acct.Weight("MSFT"))
}

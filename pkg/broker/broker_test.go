package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

func testTrade(symbol string, side common.OrderSide, qty, price string) common.Trade {
	return common.Trade{
		Order: common.Order{
			Symbol:   symbol,
			Side:     side,
			Quantity: fixed.MustFromString(qty),
		},
		Quantity:  fixed.MustFromString(qty),
		Price:     fixed.MustFromString(price),
		TimeStamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testTradeLeveraged(symbol string, side common.OrderSide, qty, price, leverage string) common.Trade {
	trade := testTrade(symbol, side, qty, price)
	trade.Order.Leverage = fixed.MustFromString(leverage)
	return trade
}

func TestBroker_OpenLong(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "2", "100")))

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, common.PositionSideLong, pos.Side)
	assert.True(t, pos.Quantity.Eq(fixed.FromInt(2, 0)))
	assert.True(t, pos.AvgEntryPrice.Eq(fixed.FromInt(100, 0)))
	assert.Equal(t, "200.00", pos.Margin.String())

	// Opening never touches the balance.
	assert.True(t, b.Balance().Eq(fixed.FromInt(10_000, 0)))
	assert.Equal(t, 1, b.OpenPositionCount())
	assert.Len(t, b.Trades(), 1)
}

func TestBroker_OpenLeveraged(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTradeLeveraged("BTCUSD", common.OrderSideBuy, "2", "100", "4")))

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, "50.00", pos.Margin.String())
	assert.True(t, pos.Leverage.Eq(fixed.FromInt(4, 0)))
}

func TestBroker_RejectsNonPositiveQuantity(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	err := b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "0", "100"))
	assert.ErrorIs(t, err, ErrInvalidTradeQuantity)

	err = b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "-1", "100"))
	assert.ErrorIs(t, err, ErrInvalidTradeQuantity)

	assert.Equal(t, 0, b.OpenPositionCount())
	assert.Empty(t, b.Trades())
}

func TestBroker_ScaleInVwap(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "1", "100")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "1", "110")))

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.True(t, pos.Quantity.Eq(fixed.FromInt(2, 0)))
	assert.True(t, pos.AvgEntryPrice.Eq(fixed.FromInt(105, 0)), "got %s", pos.AvgEntryPrice)

	// Margin tracks quantity times average entry over leverage.
	expectedMargin := pos.Quantity.Mul(pos.AvgEntryPrice).Div(pos.Leverage).Rescale(2)
	assert.True(t, pos.Margin.Eq(expectedMargin), "got %s", pos.Margin)

	// Scaling in realizes nothing.
	assert.True(t, b.Balance().Eq(fixed.FromInt(10_000, 0)))
}

func TestBroker_PartialClose(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "2", "100")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideSell, "1", "110")))

	assert.True(t, b.Balance().Eq(fixed.FromInt(10_010, 0)), "got %s", b.Balance())

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.True(t, pos.Quantity.Eq(fixed.One))
	// Average entry is untouched by a partial close.
	assert.True(t, pos.AvgEntryPrice.Eq(fixed.FromInt(100, 0)))
	assert.Equal(t, "100.00", pos.Margin.String())
}

func TestBroker_FullClose(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "2", "100")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideSell, "2", "90")))

	assert.True(t, b.Balance().Eq(fixed.FromInt(9_980, 0)), "got %s", b.Balance())
	assert.Equal(t, 0, b.OpenPositionCount())
	assert.True(t, b.TotalMargin().IsZero())
}

func TestBroker_ShortRealizesInverse(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideSell, "2", "100")))

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, common.PositionSideShort, pos.Side)

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "2", "90")))

	assert.True(t, b.Balance().Eq(fixed.FromInt(10_020, 0)), "got %s", b.Balance())
	assert.Equal(t, 0, b.OpenPositionCount())
}

func TestBroker_FlipToShort(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "1", "100")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideSell, "3", "90")))

	// The long leg realizes its loss, the remainder opens a short.
	assert.True(t, b.Balance().Eq(fixed.FromInt(9_990, 0)), "got %s", b.Balance())

	pos, ok := b.Position("BTCUSD")
	require.True(t, ok)
	assert.Equal(t, common.PositionSideShort, pos.Side)
	assert.True(t, pos.Quantity.Eq(fixed.FromInt(2, 0)))
	assert.True(t, pos.AvgEntryPrice.Eq(fixed.FromInt(90, 0)))
	assert.Equal(t, "180.00", pos.Margin.String())
}

func TestBroker_OnePositionPerSymbol(t *testing.T) {
	b := NewBroker(nil, fixed.FromInt(10_000, 0))

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "1", "100")))
	require.NoError(t, b.RecordTrade(testTrade("ETHUSD", common.OrderSideBuy, "1", "50")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "1", "100")))

	assert.Equal(t, 2, b.OpenPositionCount())

	positions := b.Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "BTCUSD", positions[0].Symbol)
	assert.Equal(t, "ETHUSD", positions[1].Symbol)
}

func TestBroker_PublishesCloseAndBalanceEvents(t *testing.T) {
	router := bus.NewRouter(100)
	b := NewBroker(router, fixed.FromInt(10_000, 0))

	closes := make(chan common.PositionClosed, 1)
	balances := make(chan common.Balance, 1)
	router.OnPositionClose = func(ctx context.Context, closed common.PositionClosed) {
		closes <- closed
	}
	router.OnBalance = func(ctx context.Context, balance common.Balance) {
		balances <- balance
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router.Exec(ctx)

	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideBuy, "2", "100")))
	require.NoError(t, b.RecordTrade(testTrade("BTCUSD", common.OrderSideSell, "1", "110")))

	select {
	case closed := <-closes:
		assert.True(t, closed.ClosedQuantity.Eq(fixed.One))
		assert.True(t, closed.ClosePrice.Eq(fixed.FromInt(110, 0)))
		assert.True(t, closed.RealizedPnL.Eq(fixed.FromInt(10, 0)), "got %s", closed.RealizedPnL)
		assert.Equal(t, "100.00", closed.MarginReleased.String())
	case <-time.After(time.Second):
		t.Fatal("position close event not received")
	}

	select {
	case balance := <-balances:
		assert.True(t, balance.Value.Eq(fixed.FromInt(10_010, 0)))
	case <-time.After(time.Second):
		t.Fatal("balance event not received")
	}
}

package middleware

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
)

// Telemetry counts events flowing through the router without inspecting
// payloads. Counters are atomic, the decorated handlers stay safe to call
// from the dispatch goroutine.
type Telemetry struct {
	logger *zap.Logger

	barCount            atomic.Uint64
	snapshotCount       atomic.Uint64
	orderCount          atomic.Uint64
	orderRejectionCount atomic.Uint64
	tradeCount          atomic.Uint64
	positionOpenCount   atomic.Uint64
	positionUpdateCount atomic.Uint64
	positionCloseCount  atomic.Uint64
	balanceCount        atomic.Uint64
	equityCount         atomic.Uint64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{logger: logger}
}

func (t *Telemetry) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		t.barCount.Add(1)
		handler(ctx, bar)
	}
}

func (t *Telemetry) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		t.snapshotCount.Add(1)
		handler(ctx, snapshot)
	}
}

func (t *Telemetry) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) {
		t.orderCount.Add(1)
		handler(ctx, order)
	}
}

func (t *Telemetry) WithOrderRejection(handler bus.OrderRejectionEventHandler) bus.OrderRejectionEventHandler {
	return func(ctx context.Context, rejection common.OrderRejected) {
		t.orderRejectionCount.Add(1)
		handler(ctx, rejection)
	}
}

func (t *Telemetry) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		t.tradeCount.Add(1)
		handler(ctx, trade)
	}
}

func (t *Telemetry) WithPositionOpen(handler bus.PositionOpenEventHandler) bus.PositionOpenEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionOpenCount.Add(1)
		handler(ctx, position)
	}
}

func (t *Telemetry) WithPositionUpdate(handler bus.PositionUpdateEventHandler) bus.PositionUpdateEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionUpdateCount.Add(1)
		handler(ctx, position)
	}
}

func (t *Telemetry) WithPositionClose(handler bus.PositionCloseEventHandler) bus.PositionCloseEventHandler {
	return func(ctx context.Context, closed common.PositionClosed) {
		t.positionCloseCount.Add(1)
		handler(ctx, closed)
	}
}

func (t *Telemetry) WithBalance(handler bus.BalanceEventHandler) bus.BalanceEventHandler {
	return func(ctx context.Context, balance common.Balance) {
		t.balanceCount.Add(1)
		handler(ctx, balance)
	}
}

func (t *Telemetry) WithEquity(handler bus.EquityEventHandler) bus.EquityEventHandler {
	return func(ctx context.Context, equity common.Equity) {
		t.equityCount.Add(1)
		handler(ctx, equity)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("telemetry",
		zap.Uint64("bars", t.barCount.Load()),
		zap.Uint64("snapshots", t.snapshotCount.Load()),
		zap.Uint64("orders", t.orderCount.Load()),
		zap.Uint64("order_rejections", t.orderRejectionCount.Load()),
		zap.Uint64("trades", t.tradeCount.Load()),
		zap.Uint64("positions_opened", t.positionOpenCount.Load()),
		zap.Uint64("positions_updated", t.positionUpdateCount.Load()),
		zap.Uint64("positions_closed", t.positionCloseCount.Load()),
		zap.Uint64("balance_updates", t.balanceCount.Load()),
		zap.Uint64("equity_updates", t.equityCount.Load()))
}

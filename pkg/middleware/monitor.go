package middleware

import (
	"context"
	"log/slog"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
)

type MonitorFlags uint16

const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorBars
	MonitorSnapshots
	MonitorOrders
	MonitorOrderRejections
	MonitorTrades
	MonitorPositionsOpened
	MonitorPositionsUpdated
	MonitorPositionsClosed
	MonitorBalance
	MonitorEquity

	MonitorAll = MonitorBars | MonitorSnapshots | MonitorOrders |
		MonitorOrderRejections | MonitorTrades | MonitorPositionsOpened |
		MonitorPositionsUpdated | MonitorPositionsClosed | MonitorBalance |
		MonitorEquity
)

// Monitor logs selected events as they pass through the router. It is a
// pass-through decorator, the wrapped handler always runs.
type Monitor struct {
	flags MonitorFlags
}

func NewMonitor(flags MonitorFlags) *Monitor {
	return &Monitor{flags: flags}
}

func (m *Monitor) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		if m.flags&MonitorBars != 0 {
			slog.Info("bar", "data", bar)
		}
		handler(ctx, bar)
	}
}

func (m *Monitor) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		if m.flags&MonitorSnapshots != 0 {
			slog.Info("snapshot", "data", snapshot)
		}
		handler(ctx, snapshot)
	}
}

func (m *Monitor) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) {
		if m.flags&MonitorOrders != 0 {
			slog.Info("order", "data", order)
		}
		handler(ctx, order)
	}
}

func (m *Monitor) WithOrderRejection(handler bus.OrderRejectionEventHandler) bus.OrderRejectionEventHandler {
	return func(ctx context.Context, rejection common.OrderRejected) {
		if m.flags&MonitorOrderRejections != 0 {
			slog.Warn("order rejected", "data", rejection)
		}
		handler(ctx, rejection)
	}
}

func (m *Monitor) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		if m.flags&MonitorTrades != 0 {
			slog.Info("trade", "data", trade)
		}
		handler(ctx, trade)
	}
}

func (m *Monitor) WithPositionOpen(handler bus.PositionOpenEventHandler) bus.PositionOpenEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.flags&MonitorPositionsOpened != 0 {
			slog.Info("position opened", "data", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithPositionUpdate(handler bus.PositionUpdateEventHandler) bus.PositionUpdateEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.flags&MonitorPositionsUpdated != 0 {
			slog.Info("position updated", "data", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithPositionClose(handler bus.PositionCloseEventHandler) bus.PositionCloseEventHandler {
	return func(ctx context.Context, closed common.PositionClosed) {
		if m.flags&MonitorPositionsClosed != 0 {
			slog.Info("position closed", "data", closed)
		}
		handler(ctx, closed)
	}
}

func (m *Monitor) WithBalance(handler bus.BalanceEventHandler) bus.BalanceEventHandler {
	return func(ctx context.Context, balance common.Balance) {
		if m.flags&MonitorBalance != 0 {
			slog.Info("balance", "data", balance)
		}
		handler(ctx, balance)
	}
}

func (m *Monitor) WithEquity(handler bus.EquityEventHandler) bus.EquityEventHandler {
	return func(ctx context.Context, equity common.Equity) {
		if m.flags&MonitorEquity != 0 {
			slog.Info("equity", "data", equity)
		}
		handler(ctx, equity)
	}
}

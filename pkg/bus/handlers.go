package bus

import (
	"context"

	"github.com/peter-kozarec/zenith/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type BarEventHandler EventHandler[common.Bar]
type SnapshotEventHandler EventHandler[common.Snapshot]
type OrderEventHandler EventHandler[common.Order]
type OrderRejectionEventHandler EventHandler[common.OrderRejected]
type TradeEventHandler EventHandler[common.Trade]
type PositionOpenEventHandler EventHandler[common.Position]
type PositionUpdateEventHandler EventHandler[common.Position]
type PositionCloseEventHandler EventHandler[common.PositionClosed]
type BalanceEventHandler EventHandler[common.Balance]
type EquityEventHandler EventHandler[common.Equity]

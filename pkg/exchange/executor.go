package exchange

import (
	"context"

	"github.com/peter-kozarec/zenith/pkg/common"
)

// OrderExecutor is the venue contract. The sandbox simulator implements it
// for backtests; a live adapter would implement the same shape, which keeps
// the engine executor-agnostic. Submit returns the resulting trade for an
// immediate fill, nil when the order was accepted but rests (pending limit).
type OrderExecutor interface {
	Submit(ctx context.Context, order common.Order) (*common.Trade, error)
	Cancel(ctx context.Context, id common.OrderId) error
	FetchStatus(ctx context.Context, id common.OrderId) (common.OrderStatus, error)
}

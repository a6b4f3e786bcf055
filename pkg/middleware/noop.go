package middleware

import (
	"context"

	"github.com/peter-kozarec/zenith/pkg/common"
)

// Noop handlers for router slots that only exist to feed decorators.

func NoopBar(context.Context, common.Bar)                      {}
func NoopSnapshot(context.Context, common.Snapshot)            {}
func NoopOrder(context.Context, common.Order)                  {}
func NoopOrderRejection(context.Context, common.OrderRejected) {}
func NoopTrade(context.Context, common.Trade)                  {}
func NoopPositionOpen(context.Context, common.Position)        {}
func NoopPositionUpdate(context.Context, common.Position)      {}
func NoopPositionClose(context.Context, common.PositionClosed) {}
func NoopBalance(context.Context, common.Balance)              {}
func NoopEquity(context.Context, common.Equity)                {}

package backtest

import (
	"context"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// AccountReader is the read-only view of the ledger handed to strategies.
// Strategies size and decide from it; they never mutate account state.
type AccountReader interface {
	Balance() fixed.Point
	Position(symbol string) (common.Position, bool)
	TotalMargin() fixed.Point
}

// Strategy is invoked once per enriched observation and returns the orders
// to submit for that tick.
type Strategy interface {
	OnSnapshot(ctx context.Context, snapshot common.Snapshot) []common.Order
}

// Finalizer is the optional end-of-stream hook. Strategies that hold a
// position at stream end implement it to flatten themselves; the engine
// executes the returned orders at the last observation's closing price.
type Finalizer interface {
	Finalize(ctx context.Context, snapshot common.Snapshot) []common.Order
}

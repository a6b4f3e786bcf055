package common

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

type PositionSide int

const (
	PositionSideLong PositionSide = iota
	PositionSideShort
)

func (s PositionSide) String() string {
	if s == PositionSideLong {
		return "long"
	}
	return "short"
}

// Position is the per-symbol aggregate owned by the broker. Quantity is
// strictly positive while the position exists; a position that reaches zero
// quantity is removed, never kept around zeroed.
type Position struct {
	Side          PositionSide `json:"side"`
	Quantity      fixed.Point  `json:"quantity"`
	AvgEntryPrice fixed.Point  `json:"avg_entry_price"`
	Leverage      fixed.Point  `json:"leverage"`
	Margin        fixed.Point  `json:"margin"`
	StopLoss      fixed.Point  `json:"stop_loss,omitempty"`
	TakeProfit    fixed.Point  `json:"take_profit,omitempty"`
	OpenTime      time.Time    `json:"open_time"`

	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

// Notional is the market value of the position at its average entry.
func (p Position) Notional() fixed.Point {
	return p.Quantity.Mul(p.AvgEntryPrice)
}

// PositionClosed reports a full or partial close. Position holds the state of
// the closed portion, ClosedQuantity how much of it was unwound.
type PositionClosed struct {
	Position       Position    `json:"position"`
	ClosedQuantity fixed.Point `json:"closed_quantity"`
	ClosePrice     fixed.Point `json:"close_price"`
	RealizedPnL    fixed.Point `json:"realized_pnl"`
	MarginReleased fixed.Point `json:"margin_released"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

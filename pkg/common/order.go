package common

import (
	"time"

	"github.com/google/uuid"

	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

type OrderId = uuid.UUID
type OrderSide int
type OrderType int
type OrderStatus string

const (
	OrderSideBuy OrderSide = iota
	OrderSideSell
)

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeStop
	OrderTypeStopLimit
)

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

func (s OrderSide) String() string {
	if s == OrderSideBuy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the side that reduces a position held on s.
func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "market"
	case OrderTypeLimit:
		return "limit"
	case OrderTypeStop:
		return "stop"
	case OrderTypeStopLimit:
		return "stop-limit"
	default:
		return "unknown"
	}
}

// Order is a single instruction for the executor. LimitPrice is required for
// limit orders, StopLoss/TakeProfit are optional exit levels inherited by the
// position the fill builds. ExecPrice is the caller-supplied execution price
// for market orders; the simulator never picks one itself.
type Order struct {
	Id         OrderId     `json:"id"`
	Side       OrderSide   `json:"side"`
	Type       OrderType   `json:"type"`
	Quantity   fixed.Point `json:"quantity"`
	LimitPrice fixed.Point `json:"limit_price,omitempty"`
	ExecPrice  fixed.Point `json:"exec_price,omitempty"`
	Leverage   fixed.Point `json:"leverage,omitempty"`
	StopLoss   fixed.Point `json:"stop_loss,omitempty"`
	TakeProfit fixed.Point `json:"take_profit,omitempty"`
	Status     OrderStatus `json:"status"`
	Tag        string      `json:"tag,omitempty"`

	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

type OrderRejected struct {
	OriginalOrder Order  `json:"original_order"`
	Reason        string `json:"reason,omitempty"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

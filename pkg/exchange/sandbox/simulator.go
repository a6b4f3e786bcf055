package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/exchange"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

var _ exchange.OrderExecutor = (*Simulator)(nil)

const simulatorComponentName = "exchange.sandbox.simulator"

const (
	TagStopExit   = "sl_exit"
	TagTargetExit = "tp_exit"
)

var (
	ErrUnsupportedOrderType = errors.New("unsupported order type")
	ErrInvalidQuantity      = errors.New("order quantity must be positive")
	ErrMissingLimitPrice    = errors.New("limit order requires a limit price")
	ErrMissingExecPrice     = errors.New("market order requires an execution price")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotPending      = errors.New("order is not pending")
)

// Simulator decides fill outcomes for submitted orders against the simulated
// market and watches open positions for exit conditions. It never touches
// account state; the trades it produces are settled by the caller through the
// broker, exactly once each.
type Simulator struct {
	router *bus.Router

	orders  map[common.OrderId]*common.Order
	pending []*common.Order
	trades  []common.Trade
}

func NewSimulator(router *bus.Router) *Simulator {
	return &Simulator{
		router: router,
		orders: make(map[common.OrderId]*common.Order),
	}
}

// Submit validates the order and either fills it (market), parks it as
// pending (limit), or rejects it. Market orders fill at the caller-supplied
// execution price; the simulator never invents a price for them.
func (s *Simulator) Submit(_ context.Context, order common.Order) (*common.Trade, error) {
	if order.Id == uuid.Nil {
		order.Id = uuid.Must(uuid.NewV7())
	}

	stored := order
	s.orders[order.Id] = &stored

	if !order.Quantity.IsPos() {
		return nil, s.reject(&stored, ErrInvalidQuantity)
	}

	switch order.Type {
	case common.OrderTypeMarket:
		if order.ExecPrice.IsZero() {
			return nil, s.reject(&stored, ErrMissingExecPrice)
		}
		trade := s.fill(&stored, stored.ExecPrice)
		return &trade, nil

	case common.OrderTypeLimit:
		if order.LimitPrice.IsZero() {
			return nil, s.reject(&stored, ErrMissingLimitPrice)
		}
		stored.Status = common.OrderStatusPending
		s.pending = append(s.pending, &stored)
		return nil, nil

	default:
		return nil, s.reject(&stored, fmt.Errorf("%w: %v", ErrUnsupportedOrderType, order.Type))
	}
}

// Cancel cancels a resting order. Filled, rejected or unknown orders cannot
// be cancelled.
func (s *Simulator) Cancel(_ context.Context, id common.OrderId) error {
	order, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != common.OrderStatusPending {
		return fmt.Errorf("%w: %s", ErrOrderNotPending, order.Status)
	}

	order.Status = common.OrderStatusCancelled
	for idx, pending := range s.pending {
		if pending.Id == id {
			s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
			break
		}
	}
	return nil
}

func (s *Simulator) FetchStatus(_ context.Context, id common.OrderId) (common.OrderStatus, error) {
	order, ok := s.orders[id]
	if !ok {
		return "", ErrOrderNotFound
	}
	return order.Status, nil
}

// CheckPendingLimits fills every resting limit order the bar's range crossed:
// a buy when the low traded through the limit, a sell when the high did. The
// fill price is the limit price itself, no slippage is modeled. Each order
// fills at most once.
func (s *Simulator) CheckPendingLimits(_ context.Context, bar common.Bar) []common.Trade {
	var filled []common.Trade

	remaining := s.pending[:0]
	for _, order := range s.pending {
		if !strings.EqualFold(order.Symbol, bar.Symbol) {
			remaining = append(remaining, order)
			continue
		}

		crossed := false
		if order.Side == common.OrderSideBuy {
			crossed = bar.Low.Lte(order.LimitPrice)
		} else {
			crossed = bar.High.Gte(order.LimitPrice)
		}
		if !crossed {
			remaining = append(remaining, order)
			continue
		}

		order.TimeStamp = bar.TimeStamp
		filled = append(filled, s.fill(order, order.LimitPrice))
	}
	s.pending = remaining

	return filled
}

// CheckExitTriggers scans the given open positions for stop-loss and
// take-profit hits within the bar's range and produces a full-quantity market
// exit order for each triggered position, executed at the bar's close. When
// one bar crosses both levels the stop-loss wins; intrabar ordering is
// unknowable from OHLC data, so the conservative outcome is taken.
func (s *Simulator) CheckExitTriggers(_ context.Context, bar common.Bar, positions []common.Position) []common.Trade {
	var exits []common.Trade

	for _, pos := range positions {
		if !strings.EqualFold(pos.Symbol, bar.Symbol) {
			continue
		}

		var slHit, tpHit bool
		if pos.Side == common.PositionSideLong {
			slHit = !pos.StopLoss.IsZero() && bar.Low.Lte(pos.StopLoss)
			tpHit = !pos.TakeProfit.IsZero() && bar.High.Gte(pos.TakeProfit)
		} else {
			slHit = !pos.StopLoss.IsZero() && bar.High.Gte(pos.StopLoss)
			tpHit = !pos.TakeProfit.IsZero() && bar.Low.Lte(pos.TakeProfit)
		}
		if !slHit && !tpHit {
			continue
		}

		tag := TagTargetExit
		if slHit {
			tag = TagStopExit
		}

		order := common.Order{
			Id:          uuid.Must(uuid.NewV7()),
			Side:        exitSide(pos.Side),
			Type:        common.OrderTypeMarket,
			Quantity:    pos.Quantity,
			ExecPrice:   bar.Close,
			Leverage:    pos.Leverage,
			Tag:         tag,
			Source:      simulatorComponentName,
			Symbol:      pos.Symbol,
			ExecutionId: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			TimeStamp:   bar.TimeStamp,
		}

		stored := order
		s.orders[order.Id] = &stored
		exits = append(exits, s.fill(&stored, bar.Close))
	}

	return exits
}

// Trades returns the execution log, oldest fill first.
func (s *Simulator) Trades() []common.Trade {
	return s.trades
}

func (s *Simulator) PendingOrderCount() int {
	return len(s.pending)
}

// fill transitions the order to filled and appends exactly one trade to the
// execution log.
func (s *Simulator) fill(order *common.Order, price fixed.Point) common.Trade {
	order.Status = common.OrderStatusFilled
	order.ExecPrice = price

	trade := common.Trade{
		Order:       *order,
		Quantity:    order.Quantity,
		Price:       price,
		Source:      simulatorComponentName,
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   order.TimeStamp,
	}
	s.trades = append(s.trades, trade)

	s.post(bus.TradeEvent, trade)
	return trade
}

func (s *Simulator) reject(order *common.Order, reason error) error {
	order.Status = common.OrderStatusRejected

	s.post(bus.OrderRejectionEvent, common.OrderRejected{
		OriginalOrder: *order,
		Reason:        reason.Error(),
		Source:        simulatorComponentName,
		ExecutionId:   utility.GetExecutionID(),
		TraceID:       utility.CreateTraceID(),
		TimeStamp:     order.TimeStamp,
	})
	return reason
}

func (s *Simulator) post(id bus.EventId, data interface{}) {
	if s.router == nil {
		return
	}
	if err := s.router.Post(id, data); err != nil {
		slog.Warn("unable to post event", "event", id, "error", err)
	}
}

func exitSide(side common.PositionSide) common.OrderSide {
	if side == common.PositionSideLong {
		return common.OrderSideSell
	}
	return common.OrderSideBuy
}

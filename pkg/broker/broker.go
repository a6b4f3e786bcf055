package broker

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const brokerComponentName = "broker"

// DefaultMoneyScale is the scale margin and reported money amounts are
// rounded to when no explicit scale is configured.
const DefaultMoneyScale = 2

var ErrInvalidTradeQuantity = errors.New("trade quantity must be positive")

// Broker is the single authority over cash balance, open positions and
// realized profit. Every mutation goes through RecordTrade; everything else
// is a read-only query. One position per symbol: an opposite-side trade
// reduces, closes or flips it, never opens a second book.
type Broker struct {
	router     *bus.Router
	moneyScale int

	balance   fixed.Point
	positions map[string]*common.Position
	trades    []common.Trade
}

type Option func(*Broker)

// WithMoneyScale sets the scale margin and released-margin amounts are
// rounded to. Balance arithmetic itself is exact.
func WithMoneyScale(scale int) Option {
	return func(b *Broker) {
		b.moneyScale = scale
	}
}

func NewBroker(router *bus.Router, startBalance fixed.Point, options ...Option) *Broker {
	b := &Broker{
		router:     router,
		moneyScale: DefaultMoneyScale,
		balance:    startBalance,
		positions:  make(map[string]*common.Position),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// RecordTrade settles one fill into the account. Depending on the current
// book this opens a position, scales into it (volume-weighted average entry),
// partially or fully closes it, or flips it to the other side. Realized PnL
// is applied to the balance here and nowhere else; unrealized PnL never
// touches the balance.
func (b *Broker) RecordTrade(trade common.Trade) error {
	if !trade.Quantity.IsPos() {
		return fmt.Errorf("%w: %s", ErrInvalidTradeQuantity, trade.Quantity)
	}

	b.trades = append(b.trades, trade)

	symbol := trade.Order.Symbol
	side := positionSide(trade.Order.Side)
	qty := trade.Quantity
	price := trade.Price

	pos, ok := b.positions[symbol]
	if !ok {
		b.openPosition(symbol, side, qty, price, trade)
		return nil
	}

	if pos.Side == side {
		b.scaleIn(pos, qty, price, trade)
		return nil
	}

	b.reduceOrFlip(pos, side, qty, price, trade)
	return nil
}

// Position returns a copy of the open position for the symbol, if any.
func (b *Broker) Position(symbol string) (common.Position, bool) {
	pos, ok := b.positions[symbol]
	if !ok {
		return common.Position{}, false
	}
	return *pos, true
}

func (b *Broker) Balance() fixed.Point {
	return b.balance
}

// TotalMargin sums the margin held across all open positions.
func (b *Broker) TotalMargin() fixed.Point {
	total := fixed.Zero
	for _, pos := range b.positions {
		total = total.Add(pos.Margin)
	}
	return total
}

func (b *Broker) OpenPositionCount() int {
	return len(b.positions)
}

// Positions returns copies of all open positions ordered by symbol, so
// callers iterating them stay deterministic across runs.
func (b *Broker) Positions() []common.Position {
	symbols := make([]string, 0, len(b.positions))
	for symbol := range b.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	positions := make([]common.Position, 0, len(symbols))
	for _, symbol := range symbols {
		positions = append(positions, *b.positions[symbol])
	}
	return positions
}

// Trades returns the settled trade history, oldest first.
func (b *Broker) Trades() []common.Trade {
	return b.trades
}

func (b *Broker) openPosition(symbol string, side common.PositionSide, qty, price fixed.Point, trade common.Trade) {
	leverage := orderLeverage(trade.Order)
	margin := qty.Mul(price).Div(leverage).Rescale(b.moneyScale)

	pos := &common.Position{
		Side:          side,
		Quantity:      qty,
		AvgEntryPrice: price,
		Leverage:      leverage,
		Margin:        margin,
		StopLoss:      trade.Order.StopLoss,
		TakeProfit:    trade.Order.TakeProfit,
		OpenTime:      trade.TimeStamp,
		Source:        brokerComponentName,
		Symbol:        symbol,
		ExecutionId:   utility.GetExecutionID(),
		TraceID:       utility.CreateTraceID(),
		TimeStamp:     trade.TimeStamp,
	}
	b.positions[symbol] = pos

	b.post(bus.PositionOpenEvent, *pos)
}

func (b *Broker) scaleIn(pos *common.Position, qty, price fixed.Point, trade common.Trade) {
	totalQty := pos.Quantity.Add(qty)
	oldNotional := pos.Quantity.Mul(pos.AvgEntryPrice)
	addNotional := qty.Mul(price)

	pos.AvgEntryPrice = oldNotional.Add(addNotional).Div(totalQty)
	pos.Quantity = totalQty
	pos.Margin = totalQty.Mul(pos.AvgEntryPrice).Div(pos.Leverage).Rescale(b.moneyScale)
	pos.TimeStamp = trade.TimeStamp

	b.post(bus.PositionUpdateEvent, *pos)
}

func (b *Broker) reduceOrFlip(pos *common.Position, side common.PositionSide, qty, price fixed.Point, trade common.Trade) {
	closingQty := qty
	if pos.Quantity.Lt(qty) {
		closingQty = pos.Quantity
	}

	pnl := price.Sub(pos.AvgEntryPrice).Mul(closingQty)
	if pos.Side == common.PositionSideShort {
		pnl = pos.AvgEntryPrice.Sub(price).Mul(closingQty)
	}
	b.balance = b.balance.Add(pnl)

	marginReleased := closingQty.Div(pos.Quantity).Mul(pos.Margin).Rescale(b.moneyScale)

	b.post(bus.PositionCloseEvent, common.PositionClosed{
		Position:       *pos,
		ClosedQuantity: closingQty,
		ClosePrice:     price,
		RealizedPnL:    pnl,
		MarginReleased: marginReleased,
		Source:         brokerComponentName,
		ExecutionId:    utility.GetExecutionID(),
		TraceID:        utility.CreateTraceID(),
		TimeStamp:      trade.TimeStamp,
	})
	b.post(bus.BalanceEvent, common.Balance{
		Value:       b.balance,
		Source:      brokerComponentName,
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   trade.TimeStamp,
	})

	switch {
	case qty.Gt(pos.Quantity):
		// Flip: the remainder opens a fresh position on the other side at
		// the trade's execution price and the incoming order's leverage.
		remaining := qty.Sub(pos.Quantity)
		delete(b.positions, pos.Symbol)
		b.openPosition(pos.Symbol, side, remaining, price, trade)

	case qty.Lt(pos.Quantity):
		// Partial close: average entry price and leverage are untouched,
		// margin shrinks pro rata.
		remaining := pos.Quantity.Sub(qty)
		pos.Margin = pos.Margin.Mul(remaining.Div(pos.Quantity)).Rescale(b.moneyScale)
		pos.Quantity = remaining
		pos.TimeStamp = trade.TimeStamp
		b.post(bus.PositionUpdateEvent, *pos)

	default:
		delete(b.positions, pos.Symbol)
	}
}

// post is fire-and-forget: a full queue or missing subscriber never rolls
// back settled state.
func (b *Broker) post(id bus.EventId, data interface{}) {
	if b.router == nil {
		return
	}
	if err := b.router.Post(id, data); err != nil {
		slog.Warn("unable to post event", "event", id, "error", err)
	}
}

func positionSide(side common.OrderSide) common.PositionSide {
	if side == common.OrderSideBuy {
		return common.PositionSideLong
	}
	return common.PositionSideShort
}

func orderLeverage(order common.Order) fixed.Point {
	if order.Leverage.IsZero() {
		return fixed.One
	}
	return order.Leverage
}

package bus

type EventId uint8

const (
	BarEvent EventId = iota
	SnapshotEvent
	OrderEvent
	OrderRejectionEvent
	TradeEvent
	PositionOpenEvent
	PositionUpdateEvent
	PositionCloseEvent
	BalanceEvent
	EquityEvent
)

func (id EventId) String() string {
	switch id {
	case BarEvent:
		return "bar"
	case SnapshotEvent:
		return "snapshot"
	case OrderEvent:
		return "order"
	case OrderRejectionEvent:
		return "order-rejection"
	case TradeEvent:
		return "trade"
	case PositionOpenEvent:
		return "position-open"
	case PositionUpdateEvent:
		return "position-update"
	case PositionCloseEvent:
		return "position-close"
	case BalanceEvent:
		return "balance"
	case EquityEvent:
		return "equity"
	default:
		return "unknown"
	}
}

package risk

import (
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// DefaultQuantityScale is the number of decimal places order quantities are
// truncated to when no symbol-specific scale is configured.
const DefaultQuantityScale = 4

// Sizer holds the explicit precision configuration for the pure sizing
// calculations. There is no hidden process-wide precision state.
type Sizer struct {
	QuantityScale int
}

func NewSizer(quantityScale int) Sizer {
	return Sizer{QuantityScale: quantityScale}
}

// Quantity converts account balance into an order quantity. The notional is
// balance * riskFraction * leverage; the result is truncated toward zero so
// the order can never allocate more capital than the fraction allows.
func (s Sizer) Quantity(balance, price, riskFraction, leverage fixed.Point) fixed.Point {
	notional := balance.Mul(riskFraction).Mul(leverage)
	return notional.Div(price).Trunc(s.QuantityScale)
}

// StopLoss derives the stop price for an entry. The fraction is equity risk,
// so it is divided by leverage first; higher leverage places the stop closer
// to the entry. An unset fraction yields an unset price.
func StopLoss(entry, slFraction fixed.Point, side common.OrderSide, leverage fixed.Point) fixed.Point {
	if slFraction.IsZero() {
		return fixed.Point{}
	}
	adjusted := slFraction.Div(leverage)
	if side == common.OrderSideBuy {
		return entry.Mul(fixed.One.Sub(adjusted))
	}
	return entry.Mul(fixed.One.Add(adjusted))
}

// TakeProfit mirrors StopLoss with the profit direction per side.
func TakeProfit(entry, tpFraction fixed.Point, side common.OrderSide, leverage fixed.Point) fixed.Point {
	if tpFraction.IsZero() {
		return fixed.Point{}
	}
	adjusted := tpFraction.Div(leverage)
	if side == common.OrderSideBuy {
		return entry.Mul(fixed.One.Add(adjusted))
	}
	return entry.Mul(fixed.One.Sub(adjusted))
}

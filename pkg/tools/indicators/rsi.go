package indicators

import (
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Rsi is the relative strength index over closing prices, using simple means
// of the last period gains and losses.
type Rsi struct {
	period int
	closes []fixed.Point
	value  fixed.Point
	ready  bool
}

func NewRsi(period int) *Rsi {
	return &Rsi{
		period: period,
	}
}

func (r *Rsi) OnBar(bar common.Bar) {
	r.closes = append(r.closes, bar.Close)
	if len(r.closes) > r.period+1 {
		r.closes = r.closes[1:]
	}
	if len(r.closes) < r.period+1 {
		return
	}

	gains := fixed.Zero
	losses := fixed.Zero
	for i := 1; i < len(r.closes); i++ {
		delta := r.closes[i].Sub(r.closes[i-1])
		if delta.IsPos() {
			gains = gains.Add(delta)
		} else {
			losses = losses.Add(delta.Neg())
		}
	}

	avgGain := gains.DivInt(r.period)
	avgLoss := losses.DivInt(r.period)

	if avgLoss.IsZero() {
		r.value = fixed.Hundred
	} else {
		rs := avgGain.Div(avgLoss)
		r.value = fixed.Hundred.Sub(fixed.Hundred.Div(fixed.One.Add(rs)))
	}
	r.ready = true
}

func (r *Rsi) Value() fixed.Point {
	return r.value
}

func (r *Rsi) Ready() bool {
	return r.ready
}

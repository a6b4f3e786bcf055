package indicators

import (
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Sma is a simple moving average of closing prices.
type Sma struct {
	window int
	closes []fixed.Point
	sum    fixed.Point
}

func NewSma(window int) *Sma {
	return &Sma{
		window: window,
		sum:    fixed.Zero,
	}
}

func (s *Sma) OnBar(bar common.Bar) {
	s.closes = append(s.closes, bar.Close)
	s.sum = s.sum.Add(bar.Close)
	if len(s.closes) > s.window {
		s.sum = s.sum.Sub(s.closes[0])
		s.closes = s.closes[1:]
	}
}

func (s *Sma) Value() fixed.Point {
	if len(s.closes) == 0 {
		return fixed.Zero
	}
	return s.sum.DivInt(len(s.closes))
}

func (s *Sma) Ready() bool {
	return len(s.closes) == s.window
}

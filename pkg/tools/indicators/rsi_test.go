package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

func feedCloses(indicator Indicator, closes ...string) {
	for _, c := range closes {
		indicator.OnBar(common.Bar{Close: fixed.MustFromString(c)})
	}
}

func TestIndicatorsRsi_WarmUp(t *testing.T) {
	rsi := NewRsi(3)

	feedCloses(rsi, "10", "11", "12")
	assert.False(t, rsi.Ready(), "needs period+1 closes")

	feedCloses(rsi, "13")
	assert.True(t, rsi.Ready())
}

func TestIndicatorsRsi_AllGains(t *testing.T) {
	rsi := NewRsi(3)

	feedCloses(rsi, "10", "11", "12", "13")
	assert.True(t, rsi.Value().Eq(fixed.Hundred), "got %s", rsi.Value())
}

func TestIndicatorsRsi_MixedMoves(t *testing.T) {
	rsi := NewRsi(3)

	// Deltas +1, -1, +2: avg gain 1, avg loss 1/3, rs 3, rsi 75.
	feedCloses(rsi, "10", "11", "10", "12")
	assert.True(t, rsi.Value().Eq(fixed.FromInt(75, 0)), "got %s", rsi.Value())
}

func TestIndicatorsRsi_SlidingWindow(t *testing.T) {
	rsi := NewRsi(3)

	feedCloses(rsi, "10", "11", "10", "12")
	first := rsi.Value()

	// The oldest close drops out; deltas are now -1, +2, -1.
	feedCloses(rsi, "11")
	assert.False(t, rsi.Value().Eq(first))
	assert.True(t, rsi.Value().Eq(fixed.FromInt(50, 0)), "got %s", rsi.Value())
}

func TestIndicatorsSma_Value(t *testing.T) {
	sma := NewSma(3)

	feedCloses(sma, "10", "20")
	assert.False(t, sma.Ready())

	feedCloses(sma, "30")
	assert.True(t, sma.Ready())
	assert.True(t, sma.Value().Eq(fixed.FromInt(20, 0)), "got %s", sma.Value())

	// Window slides: (20+30+40)/3.
	feedCloses(sma, "40")
	assert.True(t, sma.Value().Eq(fixed.FromInt(30, 0)), "got %s", sma.Value())
}

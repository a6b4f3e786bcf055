package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

func TestRiskSizer_Quantity(t *testing.T) {
	tests := []struct {
		name         string
		balance      string
		price        string
		riskFraction string
		leverage     string
		expected     string
	}{
		{
			name:         "unleveraged whole quantity",
			balance:      "10000",
			price:        "100",
			riskFraction: "0.1",
			leverage:     "1",
			expected:     "10",
		},
		{
			name:         "leverage multiplies notional",
			balance:      "10000",
			price:        "100",
			riskFraction: "0.1",
			leverage:     "5",
			expected:     "50",
		},
		{
			name:         "fractional quantity truncated toward zero",
			balance:      "1000",
			price:        "3",
			riskFraction: "0.1",
			leverage:     "1",
			expected:     "33.3333",
		},
	}

	sizer := NewSizer(DefaultQuantityScale)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sizer.Quantity(
				fixed.MustFromString(tt.balance),
				fixed.MustFromString(tt.price),
				fixed.MustFromString(tt.riskFraction),
				fixed.MustFromString(tt.leverage))
			assert.True(t, got.Eq(fixed.MustFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestRiskStopLoss(t *testing.T) {
	entry := fixed.FromInt(100, 0)
	fraction := fixed.MustFromString("0.02")
	leverage := fixed.FromInt(2, 0)

	// The fraction is equity risk, so leverage tightens the price distance.
	long := StopLoss(entry, fraction, common.OrderSideBuy, leverage)
	assert.True(t, long.Eq(fixed.MustFromString("99")), "got %s", long)

	short := StopLoss(entry, fraction, common.OrderSideSell, leverage)
	assert.True(t, short.Eq(fixed.MustFromString("101")), "got %s", short)
}

func TestRiskTakeProfit(t *testing.T) {
	entry := fixed.FromInt(100, 0)
	fraction := fixed.MustFromString("0.04")
	leverage := fixed.FromInt(2, 0)

	long := TakeProfit(entry, fraction, common.OrderSideBuy, leverage)
	assert.True(t, long.Eq(fixed.MustFromString("102")), "got %s", long)

	short := TakeProfit(entry, fraction, common.OrderSideSell, leverage)
	assert.True(t, short.Eq(fixed.MustFromString("98")), "got %s", short)
}

func TestRiskExitLevels_UnsetFraction(t *testing.T) {
	entry := fixed.FromInt(100, 0)

	assert.True(t, StopLoss(entry, fixed.Point{}, common.OrderSideBuy, fixed.One).IsZero())
	assert.True(t, TakeProfit(entry, fixed.Point{}, common.OrderSideSell, fixed.One).IsZero())
}

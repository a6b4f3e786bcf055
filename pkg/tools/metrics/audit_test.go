package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

func auditClose(pnl string, ts time.Time) common.PositionClosed {
	return common.PositionClosed{
		RealizedPnL: fixed.MustFromString(pnl),
		TimeStamp:   ts,
	}
}

func auditBalance(value string, ts time.Time) common.Balance {
	return common.Balance{
		Value:     fixed.MustFromString(value),
		TimeStamp: ts,
	}
}

func TestMetricsAudit_EmptyRun(t *testing.T) {
	audit := NewAudit(fixed.FromInt(10_000, 0))

	report := audit.Report()
	assert.True(t, report.TotalProfit.IsZero())
	assert.Equal(t, 0, report.TradeCount)
	assert.True(t, report.MaxDrawdown.IsZero())
}

func TestMetricsAudit_WinLossCounts(t *testing.T) {
	audit := NewAudit(fixed.FromInt(10_000, 0))
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	audit.OnPositionClose(ctx, auditClose("100", start))
	audit.OnBalance(ctx, auditBalance("10100", start))
	audit.OnPositionClose(ctx, auditClose("-50", start.Add(time.Hour)))
	audit.OnBalance(ctx, auditBalance("10050", start.Add(time.Hour)))
	audit.OnPositionClose(ctx, auditClose("50", start.Add(2*time.Hour)))
	audit.OnBalance(ctx, auditBalance("10100", start.Add(2*time.Hour)))

	report := audit.Report()
	assert.Equal(t, 3, report.TradeCount)
	assert.Equal(t, 2, report.WinCount)
	assert.Equal(t, 1, report.LossCount)
	assert.True(t, report.TotalProfit.Eq(fixed.FromInt(100, 0)), "got %s", report.TotalProfit)

	// 150 of gross profit against 50 of gross loss.
	assert.True(t, report.ProfitFactor.Eq(fixed.FromInt(3, 0)), "got %s", report.ProfitFactor)
	assert.Equal(t, start, report.From)
	assert.Equal(t, start.Add(2*time.Hour), report.To)
}

func TestMetricsAudit_MaxDrawdown(t *testing.T) {
	audit := NewAudit(fixed.FromInt(10_000, 0))
	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Peak 12000, trough 9000: 25% drawdown.
	audit.OnBalance(ctx, auditBalance("12000", ts))
	audit.OnBalance(ctx, auditBalance("9000", ts.Add(time.Hour)))
	audit.OnBalance(ctx, auditBalance("11000", ts.Add(2*time.Hour)))

	report := audit.Report()
	assert.True(t, report.MaxDrawdown.Eq(fixed.FromInt(25, 0)), "got %s", report.MaxDrawdown)
}

func TestMetricsAudit_BreakEvenTradeCountsNeither(t *testing.T) {
	audit := NewAudit(fixed.FromInt(10_000, 0))

	audit.OnPositionClose(context.Background(), auditClose("0", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	report := audit.Report()
	assert.Equal(t, 1, report.TradeCount)
	assert.Equal(t, 0, report.WinCount)
	assert.Equal(t, 0, report.LossCount)
}

package metrics

import (
	"context"
	"math"
	"time"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Audit accumulates balance updates and realized closes over a run and
// produces a Report at the end. Register OnBalance and OnPositionClose on
// the router; the audit is single-writer like everything downstream of it.
type Audit struct {
	startBalance fixed.Point

	balances []fixed.Point
	closes   []common.PositionClosed

	firstStamp time.Time
	lastStamp  time.Time
}

func NewAudit(startBalance fixed.Point) *Audit {
	return &Audit{
		startBalance: startBalance,
		balances:     []fixed.Point{startBalance},
	}
}

func (a *Audit) OnBalance(_ context.Context, balance common.Balance) {
	a.balances = append(a.balances, balance.Value)
	a.stamp(balance.TimeStamp)
}

func (a *Audit) OnPositionClose(_ context.Context, closed common.PositionClosed) {
	a.closes = append(a.closes, closed)
	a.stamp(closed.TimeStamp)
}

func (a *Audit) stamp(t time.Time) {
	if a.firstStamp.IsZero() || t.Before(a.firstStamp) {
		a.firstStamp = t
	}
	if t.After(a.lastStamp) {
		a.lastStamp = t
	}
}

func (a *Audit) Report() Report {
	report := Report{
		StartBalance: a.startBalance,
		EndBalance:   a.balances[len(a.balances)-1],
		TradeCount:   len(a.closes),
		From:         a.firstStamp,
		To:           a.lastStamp,
	}

	report.TotalProfit = report.EndBalance.Sub(report.StartBalance)
	report.MaxDrawdown = maxDrawdown(a.balances)

	grossProfit := fixed.Zero
	grossLoss := fixed.Zero
	for _, closed := range a.closes {
		if closed.RealizedPnL.IsPos() {
			report.WinCount++
			grossProfit = grossProfit.Add(closed.RealizedPnL)
		} else if closed.RealizedPnL.IsNeg() {
			report.LossCount++
			grossLoss = grossLoss.Add(closed.RealizedPnL.Abs())
		}
	}

	if report.TradeCount > 0 {
		report.WinRate = fixed.FromInt(report.WinCount, 0).
			DivInt(report.TradeCount).
			Mul(fixed.Hundred)
		report.Expectancy = report.TotalProfit.DivInt(report.TradeCount)
	}
	if !grossLoss.IsZero() {
		report.ProfitFactor = grossProfit.Div(grossLoss)
	}

	returns := periodReturns(a.balances)
	report.SharpeRatio = fixed.SharpeRatio(returns, fixed.Zero)
	report.SortinoRatio = fixed.SortinoRatio(returns, fixed.Zero)

	if !report.StartBalance.IsZero() && !a.firstStamp.IsZero() {
		years := a.lastStamp.Sub(a.firstStamp).Hours() / (24 * 365)
		if years > 0 {
			totalReturn, _ := report.EndBalance.Div(report.StartBalance).Float64()
			if totalReturn > 0 {
				// Runs much shorter than a year extrapolate to absurd
				// percentages; leave the field unset rather than report them.
				annualized := annualize(totalReturn, years)
				if math.Abs(annualized) < 1e6 {
					report.AnnualizedReturn = fixed.FromFloat64(annualized).Rescale(4)
				}
			}
		}
	}

	return report
}

func maxDrawdown(balances []fixed.Point) fixed.Point {
	peak := balances[0]
	worst := fixed.Zero

	for _, balance := range balances {
		if balance.Gt(peak) {
			peak = balance
		}
		if peak.IsZero() {
			continue
		}
		drawdown := peak.Sub(balance).Div(peak)
		if drawdown.Gt(worst) {
			worst = drawdown
		}
	}
	return worst.Mul(fixed.Hundred)
}

func periodReturns(balances []fixed.Point) []fixed.Point {
	returns := make([]fixed.Point, 0, len(balances))
	for i := 1; i < len(balances); i++ {
		if balances[i-1].IsZero() {
			continue
		}
		returns = append(returns, balances[i].Sub(balances[i-1]).Div(balances[i-1]))
	}
	return returns
}

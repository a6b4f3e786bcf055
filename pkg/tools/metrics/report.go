package metrics

import (
	"log/slog"
	"math"
	"time"

	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

type Report struct {
	StartBalance fixed.Point
	EndBalance   fixed.Point
	TotalProfit  fixed.Point

	// Percentages.
	AnnualizedReturn fixed.Point
	MaxDrawdown      fixed.Point
	WinRate          fixed.Point

	ProfitFactor fixed.Point
	Expectancy   fixed.Point
	SharpeRatio  fixed.Point
	SortinoRatio fixed.Point

	TradeCount int
	WinCount   int
	LossCount  int

	From time.Time
	To   time.Time
}

func (r Report) Print() {
	slog.Info("report",
		"start_balance", r.StartBalance,
		"end_balance", r.EndBalance,
		"total_profit", r.TotalProfit,
		"annualized_return_pct", r.AnnualizedReturn,
		"max_drawdown_pct", r.MaxDrawdown,
		"win_rate_pct", r.WinRate,
		"profit_factor", r.ProfitFactor,
		"expectancy", r.Expectancy,
		"sharpe_ratio", r.SharpeRatio,
		"sortino_ratio", r.SortinoRatio,
		"trades", r.TradeCount,
		"wins", r.WinCount,
		"losses", r.LossCount,
		"from", r.From,
		"to", r.To)
}

// annualize converts a total return multiple into a yearly percentage.
func annualize(totalReturn, years float64) float64 {
	return (math.Pow(totalReturn, 1/years) - 1) * 100
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peter-kozarec/zenith/examples/strategy"
	"github.com/peter-kozarec/zenith/internal/dbg"
	"github.com/peter-kozarec/zenith/pkg/backtest"
	"github.com/peter-kozarec/zenith/pkg/broker"
	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/datasource/live"
	"github.com/peter-kozarec/zenith/pkg/exchange/sandbox"
	"github.com/peter-kozarec/zenith/pkg/middleware"
	"github.com/peter-kozarec/zenith/pkg/tools/indicators"
	"github.com/peter-kozarec/zenith/pkg/tools/metrics"
	"github.com/peter-kozarec/zenith/pkg/tools/risk"
)

// Paper trading: a live candle feed drives the same engine and sandbox
// executor the backtest uses, settling against a simulated account.
func main() {
	logger := dbg.NewDevLogger()
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("paper trading started", zap.String("symbol", Symbol))
	defer logger.Info("paper trading finished")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router := bus.NewRouter(RouterEventCapacity)
	ledger := broker.NewBroker(router, StartBalance)
	simulator := sandbox.NewSimulator(router)
	sizer := risk.NewSizer(risk.DefaultQuantityScale)

	advisor := strategy.NewRsi(ledger, sizer,
		RsiOversold, RsiOverbought, RiskFraction, Leverage, SlFraction, TpFraction)

	engine := backtest.NewEngine(router, ledger, simulator, advisor,
		backtest.WithIndicator(strategy.IndicatorRsi, indicators.NewRsi(RsiPeriod)))

	monitor := middleware.NewMonitor(MonitorFlags)
	telemetry := middleware.NewTelemetry(logger)
	audit := metrics.NewAudit(StartBalance)

	router.OnBar = telemetry.WithBar(monitor.WithBar(engine.OnBar))
	router.OnSnapshot = telemetry.WithSnapshot(monitor.WithSnapshot(middleware.NoopSnapshot))
	router.OnOrder = telemetry.WithOrder(monitor.WithOrder(middleware.NoopOrder))
	router.OnOrderRejection = telemetry.WithOrderRejection(monitor.WithOrderRejection(middleware.NoopOrderRejection))
	router.OnTrade = telemetry.WithTrade(monitor.WithTrade(middleware.NoopTrade))
	router.OnPositionOpen = telemetry.WithPositionOpen(monitor.WithPositionOpen(middleware.NoopPositionOpen))
	router.OnPositionUpdate = telemetry.WithPositionUpdate(monitor.WithPositionUpdate(middleware.NoopPositionUpdate))
	router.OnPositionClose = telemetry.WithPositionClose(monitor.WithPositionClose(audit.OnPositionClose))
	router.OnBalance = telemetry.WithBalance(monitor.WithBalance(audit.OnBalance))
	router.OnEquity = telemetry.WithEquity(monitor.WithEquity(middleware.NoopEquity))

	feed := live.NewFeed(router, FeedEndpoint, Symbol, FeedInterval, BarPeriod)

	feedDone := make(chan error, 1)
	go func() {
		feedDone <- feed.Run(ctx)
	}()

	done := router.Exec(ctx)

	select {
	case err := <-feedDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("feed terminated", zap.Error(err))
		}
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("router terminated", zap.Error(err))
		}
		cancel()
	}

	audit.Report().Print()
	telemetry.PrintStatistics()
	router.Statistics().Print()
}

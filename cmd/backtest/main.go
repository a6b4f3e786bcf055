package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/peter-kozarec/zenith/examples/strategy"
	"github.com/peter-kozarec/zenith/internal/dbg"
	"github.com/peter-kozarec/zenith/pkg/backtest"
	"github.com/peter-kozarec/zenith/pkg/broker"
	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/data/db/psql"
	"github.com/peter-kozarec/zenith/pkg/datasource"
	"github.com/peter-kozarec/zenith/pkg/datasource/duckdb"
	"github.com/peter-kozarec/zenith/pkg/datasource/historical"
	"github.com/peter-kozarec/zenith/pkg/datasource/synthetic"
	"github.com/peter-kozarec/zenith/pkg/exchange/sandbox"
	"github.com/peter-kozarec/zenith/pkg/middleware"
	"github.com/peter-kozarec/zenith/pkg/tools/indicators"
	"github.com/peter-kozarec/zenith/pkg/tools/metrics"
	"github.com/peter-kozarec/zenith/pkg/tools/risk"
)

func main() {
	logger := dbg.NewDevLogger()
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("backtest started")
	defer logger.Info("backtest finished")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := loadConfig()

	source, cleanup, err := openBarSource(ctx, cfg)
	if err != nil {
		logger.Fatal("unable to open bar source", zap.Error(err))
	}
	defer cleanup()

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

	tradeHandler := middleware.NoopTrade
	closeHandler := audit.OnPositionClose

	if cfg.PostgresHost != "" {
		db, err := psql.Connect(ctx, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPass, cfg.PostgresDb)
		if err != nil {
			logger.Fatal("unable to connect to postgres", zap.Error(err))
		}
		defer func() {
			_ = db.Close()
		}()

		sink := middleware.NewLedgerSink(db, AppId, AccountId)
		tradeHandler = sink.WithTrade(tradeHandler)
		closeHandler = sink.WithPositionClose(closeHandler)
	}

	router.OnBar = telemetry.WithBar(monitor.WithBar(engine.OnBar))
	router.OnSnapshot = telemetry.WithSnapshot(monitor.WithSnapshot(middleware.NoopSnapshot))
	router.OnOrder = telemetry.WithOrder(monitor.WithOrder(middleware.NoopOrder))
	router.OnOrderRejection = telemetry.WithOrderRejection(monitor.WithOrderRejection(middleware.NoopOrderRejection))
	router.OnTrade = telemetry.WithTrade(monitor.WithTrade(tradeHandler))
	router.OnPositionOpen = telemetry.WithPositionOpen(monitor.WithPositionOpen(middleware.NoopPositionOpen))
	router.OnPositionUpdate = telemetry.WithPositionUpdate(monitor.WithPositionUpdate(middleware.NoopPositionUpdate))
	router.OnPositionClose = telemetry.WithPositionClose(monitor.WithPositionClose(closeHandler))
	router.OnBalance = telemetry.WithBalance(monitor.WithBalance(audit.OnBalance))
	router.OnEquity = telemetry.WithEquity(monitor.WithEquity(middleware.NoopEquity))

	done := router.ExecLoop(ctx, datasource.CreateBarDispatcher(router, source, func() error {
		return engine.Finalize(ctx)
	}))

	if err := <-done; err != nil {
		if !errors.Is(err, datasource.ErrEof) && !errors.Is(err, context.Canceled) {
			logger.Error("error during simulation", zap.Error(err))
		}
	}

	audit.Report().Print()
	telemetry.PrintStatistics()
	router.Statistics().Print()
}

// openBarSource picks the reader by the configured file: a duckdb database
// streams through the sql reader, anything else is treated as a binary bar
// file. No file at all falls back to a seeded synthetic series so the binary
// runs without local data.
func openBarSource(ctx context.Context, cfg config) (datasource.BarSource, func(), error) {
	if cfg.BarDataSource == "" {
		generator := synthetic.NewGenerator(Symbol, BarPeriod, SimulationStart, SyntheticBars, 30_000, 0.01, SyntheticSeed)
		return generator, func() {}, nil
	}

	if strings.HasSuffix(cfg.BarDataSource, ".duckdb") || strings.HasSuffix(cfg.BarDataSource, ".db") {
		reader := duckdb.NewBarReader(cfg.BarDataSource, Symbol, BarPeriod, SimulationStart, SimulationEnd)
		if err := reader.Open(ctx); err != nil {
			return nil, nil, err
		}
		return reader, reader.Close, nil
	}

	source := historical.NewSource[historical.BinaryBar](cfg.BarDataSource)
	if err := source.Open(); err != nil {
		return nil, nil, err
	}

	reader := historical.NewBarReader(source, Symbol, BarPeriod, SimulationStart, SimulationEnd)
	return reader, source.Close, nil
}

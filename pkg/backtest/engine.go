package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/peter-kozarec/zenith/pkg/broker"
	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/exchange/sandbox"
	"github.com/peter-kozarec/zenith/pkg/tools/indicators"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const engineComponentName = "backtest.engine"

// Engine drives one observation through the fixed per-tick pipeline:
// indicators, exit-trigger scan, pending-limit scan, strategy decision,
// submission and settlement. Exit scans run before the strategy so a
// position can never be exited and re-entered from stale state within
// one tick.
type Engine struct {
	router    *bus.Router
	ledger    *broker.Broker
	simulator *sandbox.Simulator
	strategy  Strategy

	indicatorNames []string
	indicatorSet   map[string]indicators.Indicator

	lastSnapshot common.Snapshot
	seenBar      bool
	finalized    bool
}

type Option func(*Engine)

// WithIndicator registers a named indicator the engine updates on every bar
// and publishes in the snapshot once it has warmed up.
func WithIndicator(name string, indicator indicators.Indicator) Option {
	return func(e *Engine) {
		if _, ok := e.indicatorSet[name]; ok {
			panic(fmt.Sprintf("indicator %q already registered", name))
		}
		e.indicatorNames = append(e.indicatorNames, name)
		e.indicatorSet[name] = indicator
	}
}

func NewEngine(router *bus.Router, ledger *broker.Broker, simulator *sandbox.Simulator, strategy Strategy, options ...Option) *Engine {
	e := &Engine{
		router:       router,
		ledger:       ledger,
		simulator:    simulator,
		strategy:     strategy,
		indicatorSet: make(map[string]indicators.Indicator),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// OnBar processes one observation to completion. All timestamps used in
// settlement come from the observation, never from the wall clock.
func (e *Engine) OnBar(ctx context.Context, bar common.Bar) {
	snapshot := e.enrich(bar)
	e.lastSnapshot = snapshot
	e.seenBar = true
	e.post(bus.SnapshotEvent, snapshot)

	for _, trade := range e.simulator.CheckExitTriggers(ctx, bar, e.ledger.Positions()) {
		e.settle(trade)
	}
	for _, trade := range e.simulator.CheckPendingLimits(ctx, bar) {
		e.settle(trade)
	}

	orders := e.strategy.OnSnapshot(ctx, snapshot)
	e.submitAll(ctx, orders, bar.Close, bar)

	e.postEquity(bar)
}

// postEquity marks the account to market at the observation's close. Equity
// is informational; it never feeds back into settlement.
func (e *Engine) postEquity(bar common.Bar) {
	equity := e.ledger.Balance()
	for _, pos := range e.ledger.Positions() {
		if !strings.EqualFold(pos.Symbol, bar.Symbol) {
			continue
		}
		unrealized := bar.Close.Sub(pos.AvgEntryPrice).Mul(pos.Quantity)
		if pos.Side == common.PositionSideShort {
			unrealized = pos.AvgEntryPrice.Sub(bar.Close).Mul(pos.Quantity)
		}
		equity = equity.Add(unrealized)
	}

	e.post(bus.EquityEvent, common.Equity{
		Value:       equity,
		Source:      engineComponentName,
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   bar.TimeStamp,
	})
}

// Finalize runs the strategy's optional end-of-stream hook once, executing
// its orders against the last observation's close. Safe to call when the
// stream was empty or the strategy has no hook.
func (e *Engine) Finalize(ctx context.Context) error {
	if e.finalized || !e.seenBar {
		return nil
	}
	e.finalized = true

	finalizer, ok := e.strategy.(Finalizer)
	if !ok {
		return nil
	}

	bar := e.lastSnapshot.Bar
	orders := finalizer.Finalize(ctx, e.lastSnapshot)
	e.submitAll(ctx, orders, bar.Close, bar)
	return nil
}

func (e *Engine) enrich(bar common.Bar) common.Snapshot {
	values := make(map[string]fixed.Point, len(e.indicatorNames))
	for _, name := range e.indicatorNames {
		indicator := e.indicatorSet[name]
		indicator.OnBar(bar)
		if indicator.Ready() {
			values[name] = indicator.Value()
		}
	}
	return common.Snapshot{Bar: bar, Indicators: values}
}

func (e *Engine) submitAll(ctx context.Context, orders []common.Order, closePrice fixed.Point, bar common.Bar) {
	for _, order := range orders {
		if order.ExecPrice.IsZero() {
			order.ExecPrice = closePrice
		}
		if order.TimeStamp.IsZero() {
			order.TimeStamp = bar.TimeStamp
		}
		if order.Symbol == "" {
			order.Symbol = bar.Symbol
		}
		if order.Source == "" {
			order.Source = engineComponentName
		}

		e.post(bus.OrderEvent, order)

		trade, err := e.simulator.Submit(ctx, order)
		if err != nil {
			slog.Warn("order rejected", "order", order, "error", err)
			continue
		}
		if trade != nil {
			e.settle(*trade)
		}
	}
}

// settle hands a fill to the ledger. A ledger error here means the simulator
// produced an impossible fill, which is a programming-contract violation and
// must not be papered over.
func (e *Engine) settle(trade common.Trade) {
	if err := e.ledger.RecordTrade(trade); err != nil {
		panic(fmt.Errorf("ledger rejected simulated trade: %w", err))
	}
}

func (e *Engine) post(id bus.EventId, data interface{}) {
	if e.router == nil {
		return
	}
	if err := e.router.Post(id, data); err != nil {
		slog.Warn("unable to post event", "event", id, "error", err)
	}
}

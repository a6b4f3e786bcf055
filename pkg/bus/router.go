package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/peter-kozarec/zenith/pkg/common"
)

var ErrEventCapacityReached = errors.New("event capacity reached")

type event struct {
	id   EventId
	data interface{}
}

// Router is a single-goroutine event dispatcher. ExecLoop drains every queued
// event before asking the feed callback for more input, which is what keeps
// the per-observation pipeline strictly sequential and deterministic.
type Router struct {
	events chan event

	OnBar            BarEventHandler
	OnSnapshot       SnapshotEventHandler
	OnOrder          OrderEventHandler
	OnOrderRejection OrderRejectionEventHandler
	OnTrade          TradeEventHandler
	OnPositionOpen   PositionOpenEventHandler
	OnPositionUpdate PositionUpdateEventHandler
	OnPositionClose  PositionCloseEventHandler
	OnBalance        BalanceEventHandler
	OnEquity         EquityEventHandler

	runTime       time.Duration
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(eventCapacity int) *Router {
	return &Router{
		events: make(chan event, eventCapacity),
	}
}

// Post enqueues an event without blocking. A full queue is reported to the
// caller and counted, nothing else happens; posting is fire-and-forget.
func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return ErrEventCapacityReached
	}
}

// Exec dispatches queued events until the context is done.
func (r *Router) Exec(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		defer func() {
			r.runTime += time.Since(start)
		}()

		for {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return
			case ev := <-r.events:
				r.dispatchCount.Add(1)
				if err := r.dispatch(ctx, ev); err != nil {
					r.dispatchFails.Add(1)
					slog.Warn("dispatch failed", "error", err, "event", ev.id)
				}
			}
		}
	}()

	return done
}

// ExecLoop dispatches queued events and, only when the queue is empty, invokes
// doOnceCb to pull the next input. A non-nil error from the callback ends the
// loop and is delivered on the returned channel.
func (r *Router) ExecLoop(ctx context.Context, doOnceCb func() error) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		defer func() {
			r.runTime += time.Since(start)
		}()

		for {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return
			case ev := <-r.events:
				r.dispatchCount.Add(1)
				if err := r.dispatch(ctx, ev); err != nil {
					r.dispatchFails.Add(1)
					slog.Warn("dispatch failed", "error", err, "event", ev.id)
				}
			default:
				if err := doOnceCb(); err != nil {
					done <- err
					return
				}
			}
		}
	}()

	return done
}

func (r *Router) Statistics() Statistics {
	s := Statistics{
		RunTime:       r.runTime,
		PostCount:     r.postCount.Load(),
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
	}
	if r.runTime > 0 {
		s.Throughput = float64(s.PostCount) / r.runTime.Seconds()
	}
	return s
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case BarEvent:
		return dispatchTo[common.Bar](ctx, ev, r.OnBar)
	case SnapshotEvent:
		return dispatchTo[common.Snapshot](ctx, ev, r.OnSnapshot)
	case OrderEvent:
		return dispatchTo[common.Order](ctx, ev, r.OnOrder)
	case OrderRejectionEvent:
		return dispatchTo[common.OrderRejected](ctx, ev, r.OnOrderRejection)
	case TradeEvent:
		return dispatchTo[common.Trade](ctx, ev, r.OnTrade)
	case PositionOpenEvent:
		return dispatchTo[common.Position](ctx, ev, r.OnPositionOpen)
	case PositionUpdateEvent:
		return dispatchTo[common.Position](ctx, ev, r.OnPositionUpdate)
	case PositionCloseEvent:
		return dispatchTo[common.PositionClosed](ctx, ev, r.OnPositionClose)
	case BalanceEvent:
		return dispatchTo[common.Balance](ctx, ev, r.OnBalance)
	case EquityEvent:
		return dispatchTo[common.Equity](ctx, ev, r.OnEquity)
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
}

func dispatchTo[T any](ctx context.Context, ev event, handler EventHandler[T]) error {
	data, ok := ev.data.(T)
	if !ok {
		return fmt.Errorf("invalid type assertion for %v event", ev.id)
	}
	if handler == nil {
		slog.Debug("handler is nil", "event", ev.id)
		return nil
	}
	handler(ctx, data)
	return nil
}

package datasource

import (
	"errors"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
)

// ErrEof marks the ordinary end of a finite observation stream.
var ErrEof = errors.New("EOF")

// BarSource produces a finite, time-ordered sequence of observations,
// iterable once. It returns ErrEof when exhausted.
type BarSource interface {
	GetNext() (common.Bar, error)
}

// CreateBarDispatcher builds the ExecLoop feed callback: it pulls one bar per
// invocation and posts it to the router. When the source is exhausted the
// onExhausted hook (typically the engine's finalize) runs once; any events it
// posts are still dispatched because the loop drains the queue before calling
// back, and only then does the dispatcher report ErrEof.
func CreateBarDispatcher(r *bus.Router, ds BarSource, onExhausted func() error) func() error {
	exhausted := false

	return func() error {
		if exhausted {
			return ErrEof
		}

		bar, err := ds.GetNext()
		if err != nil {
			if errors.Is(err, ErrEof) {
				exhausted = true
				if onExhausted != nil {
					return onExhausted()
				}
				return ErrEof
			}
			return err
		}

		return r.Post(bus.BarEvent, bar)
	}
}

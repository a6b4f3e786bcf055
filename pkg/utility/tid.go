package utility

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TraceID is a 64-bit snowflake: milliseconds since the package epoch in the
// high bits, then a machine discriminator, then a per-process sequence. Ids
// minted by one process are strictly increasing, which lets archived events
// be replayed in creation order.
type TraceID = uint64

const (
	machineBits  = 10
	sequenceBits = 13

	maxSequence = 1<<sequenceBits - 1
	maxMachine  = 1<<machineBits - 1

	timestampShift = machineBits + sequenceBits
	machineShift   = sequenceBits
)

var (
	traceSequence atomic.Uint64
	traceMachine  = uint64(uuid.New().ID()) & maxMachine
	traceEpoch    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
)

// CreateTraceID mints the next trace id. A sequence wrap parks for one
// millisecond so the timestamp component advances instead of repeating.
func CreateTraceID() TraceID {
	millis := uint64(time.Now().UnixMilli() - traceEpoch)

	seq := traceSequence.Add(1) & maxSequence
	if seq == 0 {
		time.Sleep(time.Millisecond)
		millis = uint64(time.Now().UnixMilli() - traceEpoch)
	}

	return millis<<timestampShift | traceMachine<<machineShift | seq
}

// ParseTraceID splits an id back into its creation time, machine and
// sequence components.
func ParseTraceID(id TraceID) (time.Time, uint64, uint64) {
	createdAt := time.UnixMilli(traceEpoch + int64(id>>timestampShift))
	machine := id >> machineShift & maxMachine
	seq := id & maxSequence
	return createdAt, machine, seq
}

package utility

import (
	"sync"

	"github.com/google/uuid"
)

// ExecutionID identifies one run of the process. Every event produced during
// a run carries the same id, which is what ties a simulation's archived
// artifacts together.
type ExecutionID = uuid.UUID

var (
	executionMu sync.RWMutex
	executionID ExecutionID
)

// GetExecutionID returns the run id, minting it on first use.
func GetExecutionID() ExecutionID {
	executionMu.RLock()
	id := executionID
	executionMu.RUnlock()

	if id != uuid.Nil {
		return id
	}
	return initExecutionID()
}

// ResetExecutionID starts a fresh run identity, for processes that host
// several simulations back to back.
func ResetExecutionID() ExecutionID {
	executionMu.Lock()
	defer executionMu.Unlock()

	executionID = uuid.Must(uuid.NewV7())
	return executionID
}

func initExecutionID() ExecutionID {
	executionMu.Lock()
	defer executionMu.Unlock()

	if executionID == uuid.Nil {
		executionID = uuid.Must(uuid.NewV7())
	}
	return executionID
}

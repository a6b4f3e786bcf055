package common

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Trade is the immutable record of one fill. Created exactly once per fill
// event and never mutated afterwards.
type Trade struct {
	Order    Order       `json:"order"`
	Quantity fixed.Point `json:"quantity"`
	Price    fixed.Point `json:"price"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

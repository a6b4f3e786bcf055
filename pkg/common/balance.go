package common

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

type Balance struct {
	Value fixed.Point `json:"value"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

type Equity struct {
	Value fixed.Point `json:"value"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

package common

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Bar is one market observation: an OHLCV candle for a single symbol and
// timeframe. All price fields are exact decimals.
type Bar struct {
	Open   fixed.Point `json:"open"`
	High   fixed.Point `json:"high"`
	Low    fixed.Point `json:"low"`
	Close  fixed.Point `json:"close"`
	Volume fixed.Point `json:"volume"`

	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	Period      time.Duration       `json:"period,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

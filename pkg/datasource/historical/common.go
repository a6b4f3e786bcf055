package historical

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// BinaryBar is the on-disk candle layout: nanosecond timestamp followed by
// OHLCV as float64. Field order matters, the file is read by casting.
type BinaryBar struct {
	TimeStamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

func (binaryBar BinaryBar) ToModelBar(bar *common.Bar) {
	bar.TimeStamp = time.Unix(0, binaryBar.TimeStamp)
	bar.Open = fixed.FromFloat64(binaryBar.Open)
	bar.High = fixed.FromFloat64(binaryBar.High)
	bar.Low = fixed.FromFloat64(binaryBar.Low)
	bar.Close = fixed.FromFloat64(binaryBar.Close)
	bar.Volume = fixed.FromFloat64(binaryBar.Volume)
}

package indicators

import (
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Indicator is a stateful function of the bar stream. The engine feeds every
// bar to OnBar before the strategy runs; Value is undefined until Ready.
type Indicator interface {
	OnBar(bar common.Bar)
	Value() fixed.Point
	Ready() bool
}

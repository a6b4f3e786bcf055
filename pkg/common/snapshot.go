package common

import (
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

// Snapshot is the enriched observation handed to strategies: the raw bar
// plus the indicator values computed for it, addressable by name.
type Snapshot struct {
	Bar        Bar                    `json:"bar"`
	Indicators map[string]fixed.Point `json:"indicators,omitempty"`
}

// Indicator looks up a named indicator value. The second return is false
// when the indicator is absent or has not warmed up yet.
func (s Snapshot) Indicator(name string) (fixed.Point, bool) {
	v, ok := s.Indicators[name]
	return v, ok
}

package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the closed interval type used for observation windows.
type TimeSpan = timespan.TimeSpan

// NewTimeSpan builds the span from one instant through another.
func NewTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// TimeBounded is anything that covers a span of time, e.g. a metric sample's
// observation window.
type TimeBounded interface {
	TimeSpan() TimeSpan
}

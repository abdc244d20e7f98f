package chrono

import (
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now()
}

// Stopwatch measures the time elapsed since it was started according to a TimeAPI.
type Stopwatch struct {
	time  TimeAPI
	start time.Time
}

func StartStopwatch(t TimeAPI) Stopwatch {
	return Stopwatch{time: t, start: t.Now()}
}

func (s Stopwatch) Elapsed() time.Duration {
	return s.time.Now().Sub(s.start)
}

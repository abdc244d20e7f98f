package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type steppedTime struct {
	current time.Time
	step    time.Duration
}

func (s *steppedTime) Now() time.Time {
	now := s.current
	s.current = s.current.Add(s.step)
	return now
}

func TestStopwatch(t *testing.T) {
	clock := &steppedTime{
		current: time.Date(2024, time.August, 26, 0, 0, 0, 0, time.UTC),
		step:    1500 * time.Millisecond,
	}
	watch := StartStopwatch(clock)
	require.Equal(t, 1500*time.Millisecond, watch.Elapsed())
	require.Equal(t, 3*time.Second, watch.Elapsed())
}

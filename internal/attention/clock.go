package attention

import (
	"fmt"
	"time"
)

// Clock is the session countdown. Remaining time only ever decreases and
// the exhausted signal fires once.
type Clock struct {
	planned   int
	remaining int
	startedAt time.Time
	exhausted bool
}

func NewClock(plannedSeconds int, startedAt time.Time) *Clock {
	if plannedSeconds < 0 {
		plannedSeconds = 0
	}
	return &Clock{
		planned:   plannedSeconds,
		remaining: plannedSeconds,
		startedAt: startedAt,
	}
}

// Sync brings the countdown up to now, one second per whole second of
// wall-clock time since start. It returns true on the call that first
// observes the countdown at zero.
func (c *Clock) Sync(now time.Time) bool {
	elapsed := int(now.Sub(c.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := c.planned - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining < c.remaining {
		c.remaining = remaining
	}

	if c.remaining == 0 && !c.exhausted {
		c.exhausted = true
		return true
	}
	return false
}

func (c *Clock) Planned() int {
	return c.planned
}

func (c *Clock) Remaining() int {
	return c.remaining
}

func (c *Clock) Exhausted() bool {
	return c.exhausted
}

// Progress is the completed fraction of the session in [0,1].
func (c *Clock) Progress() float64 {
	if c.planned == 0 {
		return 0
	}
	return float64(c.planned-c.remaining) / float64(c.planned)
}

func FormatSeconds(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

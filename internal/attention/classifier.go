package attention

import (
	"time"

	"github.com/adibhanna/focusmeter/internal/models"
)

type Presence int

const (
	Present Presence = iota
	Away
)

func (p Presence) String() string {
	if p == Away {
		return "away"
	}
	return "present"
}

// Classifier tracks at most one open away interval and buckets each closed
// interval by its length.
type Classifier struct {
	ignoreBelow      time.Duration
	longAbsenceAbove time.Duration
	awayStartedAt    time.Time
	counts           map[models.DistractionType]int
}

func NewClassifier(ignoreBelow, longAbsenceAbove time.Duration) *Classifier {
	return &Classifier{
		ignoreBelow:      ignoreBelow,
		longAbsenceAbove: longAbsenceAbove,
		counts:           make(map[models.DistractionType]int, len(models.DistractionTypes)),
	}
}

func (c *Classifier) State() Presence {
	if c.awayStartedAt.IsZero() {
		return Present
	}
	return Away
}

// AwayStartedAt returns the start of the open interval, or the zero time.
func (c *Classifier) AwayStartedAt() time.Time {
	return c.awayStartedAt
}

// Leave opens an away interval. An interval that is already open keeps its
// earlier start.
func (c *Classifier) Leave(now time.Time) bool {
	if c.State() == Away {
		return false
	}
	c.awayStartedAt = now
	return true
}

// Return closes the open interval and reports the category it was counted
// under. ok is false for noise or when no interval was open.
func (c *Classifier) Return(now time.Time) (kind models.DistractionType, away time.Duration, ok bool) {
	if c.State() == Present {
		return "", 0, false
	}

	away = now.Sub(c.awayStartedAt)
	c.awayStartedAt = time.Time{}

	kind, ok = c.Classify(away)
	if ok {
		c.counts[kind]++
	}
	return kind, away, ok
}

// Classify maps an away duration to its category without recording it.
func (c *Classifier) Classify(away time.Duration) (models.DistractionType, bool) {
	switch {
	case away < c.ignoreBelow:
		return "", false
	case away <= c.longAbsenceAbove:
		return models.TabSwitch, true
	default:
		return models.LongAbsence, true
	}
}

func (c *Classifier) Count(kind models.DistractionType) int {
	return c.counts[kind]
}

// Distractions lists the non-zero counts in reporting order.
func (c *Classifier) Distractions() []models.Distraction {
	out := []models.Distraction{}
	for _, kind := range models.DistractionTypes {
		if n := c.counts[kind]; n > 0 {
			out = append(out, models.Distraction{Type: kind, Count: n})
		}
	}
	return out
}

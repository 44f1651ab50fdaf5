package attention

import (
	"math"
	"sync"
	"time"

	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/models"
)

// Transition describes what a visibility or focus change did to the away
// interval.
type Transition struct {
	Opened  bool
	Closed  bool
	Away    time.Duration
	Kind    models.DistractionType
	Counted bool
}

// Status is a point-in-time view of the tracker for display.
type Status struct {
	Remaining           int
	Progress            float64
	Exhausted           bool
	Presence            Presence
	Visible             bool
	Focused             bool
	Score               float64
	AvgFocusScore       int
	ProductiveSeconds   float64
	UnproductiveSeconds float64
	Distractions        []models.Distraction
}

// Tracker owns all attention state for one session. The UI loop mutates it
// while the reporter goroutine reads snapshots, so every method takes mu.
type Tracker struct {
	mu         sync.Mutex
	sessionID  string
	clock      *Clock
	sampler    *Sampler
	classifier *Classifier
	visible    bool
	focused    bool
}

// NewTracker starts tracking at mountedAt with the page visible and focused.
func NewTracker(sessionID string, plannedSeconds int, cfg config.TrackerConfig, mountedAt time.Time) *Tracker {
	return &Tracker{
		sessionID:  sessionID,
		clock:      NewClock(plannedSeconds, mountedAt),
		sampler:    NewSampler(cfg.FocusThreshold, mountedAt),
		classifier: NewClassifier(cfg.IgnoreBelow, cfg.LongAbsenceAbove),
		visible:    true,
		focused:    true,
	}
}

// Tick advances the countdown and reports whether it just ran out.
func (t *Tracker) Tick(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Sync(now)
}

// Sample credits the time since the last sample to the current state.
func (t *Tracker) Sample(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sampler.Sample(now, t.visible, t.focused)
}

// SetVisible records a visibility change, e.g. the program being suspended
// or resumed.
func (t *Tracker) SetVisible(visible bool, now time.Time) Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sampler.Sample(now, t.visible, t.focused)
	t.visible = visible
	return t.transition(visible, now)
}

// SetFocused records the terminal gaining or losing focus.
func (t *Tracker) SetFocused(focused bool, now time.Time) Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sampler.Sample(now, t.visible, t.focused)
	t.focused = focused
	return t.transition(focused, now)
}

// transition applies one signal edge. Losing either signal opens an away
// interval; regaining either closes it.
func (t *Tracker) transition(present bool, now time.Time) Transition {
	if !present {
		return Transition{Opened: t.classifier.Leave(now)}
	}

	wasAway := t.classifier.State() == Away
	kind, away, counted := t.classifier.Return(now)
	return Transition{
		Closed:  wasAway,
		Away:    away,
		Kind:    kind,
		Counted: counted,
	}
}

// Snapshot builds the metrics payload from the current totals.
func (t *Tracker) Snapshot() models.MetricsPayload {
	t.mu.Lock()
	defer t.mu.Unlock()

	acc := t.sampler.Accumulator()
	return models.MetricsPayload{
		SessionID:           t.sessionID,
		AvgFocusScore:       acc.AverageScore(Score(t.visible, t.focused)),
		ProductiveSeconds:   int(math.Floor(acc.ProductiveSeconds)),
		UnproductiveSeconds: int(math.Floor(acc.UnproductiveSeconds)),
		Distractions:        t.classifier.Distractions(),
	}
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	acc := t.sampler.Accumulator()
	score := Score(t.visible, t.focused)
	return Status{
		Remaining:           t.clock.Remaining(),
		Progress:            t.clock.Progress(),
		Exhausted:           t.clock.Exhausted(),
		Presence:            t.classifier.State(),
		Visible:             t.visible,
		Focused:             t.focused,
		Score:               score,
		AvgFocusScore:       acc.AverageScore(score),
		ProductiveSeconds:   acc.ProductiveSeconds,
		UnproductiveSeconds: acc.UnproductiveSeconds,
		Distractions:        t.classifier.Distractions(),
	}
}

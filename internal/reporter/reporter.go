package reporter

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/adibhanna/focusmeter/internal/models"
)

// Sender delivers metrics and the end-of-session notice to the collector.
type Sender interface {
	SendMetrics(ctx context.Context, payload models.MetricsPayload) error
	EndSession(ctx context.Context, sessionID string) error
}

// Source provides the cumulative snapshot to send.
type Source interface {
	Snapshot() models.MetricsPayload
}

// Reporter posts the session snapshot on a fixed period and once more when
// the session ends. Send failures are logged and never retried: the next
// snapshot already includes whatever a failed one carried.
type Reporter struct {
	sender   Sender
	source   Source
	interval time.Duration

	mu      sync.Mutex
	started bool
	ending  bool
	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once

	sent   int
	failed int
}

func New(sender Sender, source Source, interval time.Duration) *Reporter {
	return &Reporter{
		sender:   sender,
		source:   source,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic loop. Only the first call has an effect, and
// none after Finish or Stop.
func (r *Reporter) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.ending {
		return
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	go r.loop(ctx)
}

func (r *Reporter) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.send(ctx, "periodic")
		}
	}
}

// Finish cancels the periodic loop, waits for it to exit, then sends the
// final snapshot followed by the end notice. It returns false, sending
// nothing, if the session was already finishing.
func (r *Reporter) Finish(ctx context.Context) bool {
	r.mu.Lock()
	if r.ending {
		r.mu.Unlock()
		return false
	}
	r.ending = true
	r.mu.Unlock()

	r.Stop()

	r.send(ctx, "final")
	sessionID := r.source.Snapshot().SessionID
	if err := r.sender.EndSession(ctx, sessionID); err != nil {
		log.Printf("reporter: end session %s failed: %v", sessionID, err)
	} else {
		log.Printf("reporter: session %s ended", sessionID)
	}
	log.Printf("reporter: session %s metrics delivered %d, failed %d", sessionID, r.Sent(), r.Failed())
	return true
}

// Stop releases the periodic loop without a final send. Safe to call more
// than once and from any exit path.
func (r *Reporter) Stop() {
	r.stop.Do(func() {
		r.mu.Lock()
		cancel, started := r.cancel, r.started
		r.ending = true
		r.mu.Unlock()

		if started {
			cancel()
			<-r.done
		}
	})
}

func (r *Reporter) send(ctx context.Context, kind string) {
	payload := r.source.Snapshot()
	err := r.sender.SendMetrics(ctx, payload)

	r.mu.Lock()
	if err != nil {
		r.failed++
	} else {
		r.sent++
	}
	r.mu.Unlock()

	if err != nil {
		log.Printf("reporter: %s metrics for %s failed: %v", kind, payload.SessionID, err)
		return
	}
	log.Printf("reporter: %s metrics for %s sent (score %d, productive %ds, unproductive %ds)",
		kind, payload.SessionID, payload.AvgFocusScore, payload.ProductiveSeconds, payload.UnproductiveSeconds)
}

// Sent returns how many metrics payloads were delivered.
func (r *Reporter) Sent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

// Failed returns how many metrics payloads could not be delivered.
func (r *Reporter) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

func (r *Reporter) Ending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ending
}

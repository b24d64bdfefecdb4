package timer

import (
	"context"
	"time"
)

// TickInterval is the cadence of the update loop. 100ms keeps the
// display smooth without noticeable drift, since remaining time is always
// recomputed from the wall clock rather than decremented per tick.
const TickInterval = 100 * time.Millisecond

// Scheduler drives the engine at a fixed cadence. Each tick recomputes
// the engine state, lets the notifier observe the result, and publishes
// the snapshot to the presentation layer. The publish and finish hooks
// must not block.
type Scheduler struct {
	engine   *Engine
	notifier *Notifier
	interval time.Duration

	publish  func(Snapshot)
	onFinish func(Snapshot)
}

// NewScheduler returns a scheduler ticking at TickInterval.
func NewScheduler(engine *Engine, notifier *Notifier) *Scheduler {
	return &Scheduler{
		engine:   engine,
		notifier: notifier,
		interval: TickInterval,
	}
}

// OnPublish registers the callback that hands each snapshot to the
// presentation layer.
func (s *Scheduler) OnPublish(fn func(Snapshot)) {
	s.publish = fn
}

// OnFinish registers a callback invoked once per natural completion,
// outside the engine lock, on its own goroutine. It is the place for
// slow work such as persisting statistics or running a finish command.
func (s *Scheduler) OnFinish(fn func(Snapshot)) {
	s.onFinish = fn
}

// Run loops until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.step(now)
		}
	}
}

func (s *Scheduler) step(now time.Time) {
	snap := s.engine.Tick(now)

	// the finish edge may have surfaced on an out-of-band tick, such as
	// a remote status poll landing on the expiry instant
	if s.engine.takeFinish() {
		snap.Finished = true
	}

	s.notifier.Observe(snap)

	if snap.Finished && s.onFinish != nil {
		go s.onFinish(snap)
	}

	if s.publish != nil {
		s.publish(snap)
	}
}

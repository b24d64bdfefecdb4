package timer

import (
	"log/slog"
	"time"
)

// SoundKind identifies one of the built-in alert sounds.
type SoundKind string

const (
	SoundWarning  SoundKind = "warning"
	SoundCritical SoundKind = "critical"
	SoundFinish   SoundKind = "finish"
	SoundTick     SoundKind = "tick"
)

// Effects is the set of side effects the notifier can trigger. All
// implementations are best-effort and must not block: playback and
// notification delivery happen asynchronously, and a failure is logged
// without ever propagating back into the engine.
type Effects interface {
	PlaySound(kind SoundKind) error
	Notify(message string) error
}

// Notifier watches consecutive tick snapshots and fires each threshold
// side effect exactly once per run. Thresholds are detected by downward
// crossing, not equality, since a 100ms sampler can skip the exact
// boundary value under scheduling jitter.
type Notifier struct {
	effects Effects

	run    uint64
	prev   time.Duration
	primed bool

	warned        bool
	criticalFired bool
	finished      bool
}

// NewNotifier returns a notifier dispatching to the given effects.
func NewNotifier(effects Effects) *Notifier {
	return &Notifier{effects: effects}
}

// Observe inspects a tick snapshot and fires any threshold effects the
// remaining time crossed since the previous observation, in the order
// warning, critical, finished.
func (n *Notifier) Observe(snap Snapshot) {
	if !snap.Mode.countsDown() {
		return
	}

	// a changed run number means the engine was reset since the last
	// sample, even if the reset and restart both happened between ticks
	if snap.Run != n.run {
		n.Reset()
		n.run = snap.Run
	}

	if snap.State == StateStopped {
		return
	}

	if !n.primed {
		n.prev = snap.Duration
		n.primed = true
	}

	remaining := snap.Remaining

	if !n.warned && n.crossed(remaining, snap.Warning) {
		n.warned = true

		n.dispatchSound(SoundWarning)
	}

	if !n.criticalFired && n.crossed(remaining, snap.Critical) {
		n.criticalFired = true

		n.dispatchSound(SoundCritical)
	}

	if !n.finished && snap.Finished {
		n.finished = true

		n.dispatchSound(SoundFinish)
		n.dispatchNotification("Timer finished!")
	}

	n.prev = remaining
}

// crossed reports whether remaining moved from above the threshold to at
// or below it since the last observation.
func (n *Notifier) crossed(remaining, threshold time.Duration) bool {
	if threshold <= 0 {
		return false
	}

	return n.prev > threshold && remaining <= threshold
}

// Reset clears the crossing state so that thresholds fire again on the
// next run.
func (n *Notifier) Reset() {
	n.prev = 0
	n.primed = false
	n.warned = false
	n.criticalFired = false
	n.finished = false
}

func (n *Notifier) dispatchSound(kind SoundKind) {
	if err := n.effects.PlaySound(kind); err != nil {
		slog.Warn(
			"unable to play sound",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
	}
}

func (n *Notifier) dispatchNotification(msg string) {
	if err := n.effects.Notify(msg); err != nil {
		slog.Warn("unable to display notification", slog.Any("error", err))
	}
}

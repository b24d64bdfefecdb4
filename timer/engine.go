// Package timer operates the UltraTimer state machine and the periodic
// update loop that drives it.
package timer

import (
	"sync"
	"time"

	"ultratimer/config"
	"ultratimer/internal/models"
	"ultratimer/internal/timeutil"
)

// Mode determines how the engine interprets elapsed time.
type Mode string

const (
	ModeClock     Mode = "clock"
	ModeTimer     Mode = "timer"
	ModeCountdown Mode = "countdown"
	ModeStopwatch Mode = "stopwatch"
	ModePomodoro  Mode = "pomodoro"
)

// countsDown reports whether the mode counts toward zero.
func (m Mode) countsDown() bool {
	switch m {
	case ModeTimer, ModeCountdown, ModePomodoro:
		return true
	}

	return false
}

// State is the lifecycle state of the engine.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "stopped"
	}
}

// Snapshot is the displayable result of a single tick.
type Snapshot struct {
	Mode      Mode
	State     State
	Duration  time.Duration
	Remaining time.Duration
	Elapsed   time.Duration
	Warning   time.Duration
	Critical  time.Duration
	Display   string
	Date      string
	// Run increments on every reset, so an observer can tell the engine
	// was restarted even when no stopped snapshot was sampled in between.
	Run uint64
	// Finished marks the tick on which remaining reached zero while the
	// timer was running.
	Finished bool
}

// Engine is the timer state machine. All of its fields are guarded by a
// single mutex because the update loop and the remote control server
// operate on it from independent goroutines. No I/O happens while the
// lock is held.
type Engine struct {
	mu sync.Mutex

	mode            Mode
	state           State
	duration        time.Duration
	defaultDuration time.Duration
	anchor          time.Time
	accumulated     time.Duration
	warning         time.Duration
	critical        time.Duration
	lastRemaining   time.Duration
	run             uint64
	finishPending   bool
	stats           models.Statistics

	now func() time.Time
}

// NewEngine creates a timer engine from the supplied configuration.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		mode:            ModeTimer,
		state:           StateStopped,
		duration:        cfg.Duration,
		defaultDuration: cfg.Duration,
		warning:         cfg.WarningTime,
		critical:        cfg.CriticalTime,
		now:             time.Now,
	}

	e.lastRemaining = e.duration

	e.SwitchMode(Mode(cfg.Mode))

	return e
}

// SwitchMode changes the timer mode, stopping any active run. An
// unrecognised mode falls back to the plain timer. Pomodoro mode pins the
// duration to 25 minutes; the other counting modes restore the configured
// default duration.
func (e *Engine) SwitchMode(mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch mode {
	case ModeClock, ModeTimer, ModeCountdown, ModeStopwatch:
		e.duration = e.defaultDuration
	case ModePomodoro:
		e.duration = config.PomodoroDuration
	default:
		mode = ModeTimer
		e.duration = e.defaultDuration
	}

	e.mode = mode

	e.resetLocked()
}

// Start begins or resumes a run. It is a no-op while running, and a
// finished timer stays finished until it is reset.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning || e.state == StateFinished {
		return
	}

	if e.mode == ModeClock {
		return
	}

	// a fresh run counts as a new session for the statistics
	if e.state == StateStopped {
		e.stats.TotalSessions++
	}

	e.anchor = e.now()
	e.state = StateRunning
}

// Pause folds the current run segment into the accumulated time and halts
// the timer. It is a no-op unless the timer is running.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}

	e.accumulated += e.now().Sub(e.anchor)
	e.state = StatePaused
}

// Toggle starts the timer if it is stopped or paused, and pauses it
// otherwise. It reports whether the timer is running afterwards.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	running := e.state == StateRunning
	e.mu.Unlock()

	if running {
		e.Pause()
		return false
	}

	e.Start()

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state == StateRunning
}

// Reset returns the engine to the stopped state from any state, clearing
// accumulated time so that thresholds can fire again on the next run.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.accumulated = 0
	e.anchor = time.Time{}
	e.state = StateStopped
	e.lastRemaining = e.duration
	e.finishPending = false
	e.run++
}

// SetDuration updates the target duration. Negative durations are
// rejected and leave the engine untouched.
func (e *Engine) SetDuration(d time.Duration) error {
	if d < 0 {
		return ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.duration = d
	e.defaultDuration = d

	if e.state != StateRunning {
		e.lastRemaining = d
	}

	// keep critical <= warning <= duration
	if e.warning > d {
		e.warning = d
	}

	if e.critical > e.warning {
		e.critical = e.warning
	}

	return nil
}

// SetThresholds updates the warning and critical boundaries, clamping
// them to critical <= warning <= duration.
func (e *Engine) SetThresholds(warning, critical time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if warning > e.duration {
		warning = e.duration
	}

	if critical > warning {
		critical = warning
	}

	e.warning = warning
	e.critical = critical
}

// ApplyPreset loads a preset's duration and thresholds into the engine,
// stopping any active run.
func (e *Engine) ApplyPreset(p models.Preset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.duration = time.Duration(p.Duration) * time.Second
	e.defaultDuration = e.duration
	e.warning = time.Duration(p.WarningTime) * time.Second
	e.critical = time.Duration(p.CriticalTime) * time.Second

	if e.warning > e.duration {
		e.warning = e.duration
	}

	if e.critical > e.warning {
		e.critical = e.warning
	}

	e.resetLocked()
}

// Tick recomputes the display state for the given instant. For counting
// modes it also detects the finish edge: the tick on which remaining hit
// zero after previously being above it. The engine stops itself and
// updates the session statistics on that edge; all other side effects
// belong to the Notifier.
func (e *Engine) Tick(now time.Time) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := e.accumulated
	if e.state == StateRunning {
		elapsed += now.Sub(e.anchor)
	}

	snap := Snapshot{
		Mode:     e.mode,
		Duration: e.duration,
		Warning:  e.warning,
		Critical: e.critical,
		Run:      e.run,
	}

	switch e.mode {
	case ModeClock:
		snap.Display = timeutil.FormatClock(now)
		snap.Date = timeutil.FormatDate(now)
	case ModeStopwatch:
		snap.Elapsed = elapsed
		snap.Display = timeutil.FormatDuration(elapsed)
	default:
		remaining := e.duration - elapsed
		if remaining < 0 {
			remaining = 0
		}

		if e.state == StateRunning && remaining == 0 && e.lastRemaining > 0 {
			snap.Finished = true

			e.state = StateFinished
			e.accumulated = e.duration
			e.finishPending = true

			e.stats.CompletedTimers++
			e.stats.TotalTime += int64(e.duration.Seconds())
			e.stats.AverageDuration = e.stats.TotalTime / e.stats.CompletedTimers
		}

		e.lastRemaining = remaining

		snap.Remaining = remaining
		snap.Elapsed = elapsed
		snap.Display = timeutil.FormatDuration(remaining)
	}

	snap.State = e.state

	return snap
}

// takeFinish consumes the pending finish edge. Any caller of Tick may
// land on the expiry instant, including a remote status poll, so the
// scheduler collects the edge here to guarantee the finish side effects
// run exactly once no matter which tick produced it.
func (e *Engine) takeFinish() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending := e.finishPending
	e.finishPending = false

	return pending
}

// Snapshot computes the current display state without waiting for the
// next scheduled tick. The remote control server uses it to answer
// status queries.
func (e *Engine) Snapshot() Snapshot {
	return e.Tick(e.now())
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Mode reports the current timer mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mode
}

// Duration reports the current target duration.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.duration
}

// Stats returns a copy of the accumulated statistics.
func (e *Engine) Stats() models.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stats
}

// SetStats seeds the engine with previously persisted statistics.
func (e *Engine) SetStats(s models.Statistics) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = s
}

package timer

import (
	"sync"
	"testing"
	"time"

	"ultratimer/config"
	"ultratimer/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Duration:     300 * time.Second,
		WarningTime:  120 * time.Second,
		CriticalTime: 60 * time.Second,
		Mode:         "timer",
		SoundEnabled: false,
		Notify:       false,
	}
}

// fakeClock provides a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)

	return c.now
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()

	clock := newFakeClock()

	e := NewEngine(testConfig())
	e.now = clock.Now

	return e, clock
}

func TestEngineStartYieldsFullDuration(t *testing.T) {
	e, clock := newTestEngine(t)

	e.Start()

	snap := e.Tick(clock.Now())

	if got, want := snap.Remaining, 300*time.Second; got != want {
		t.Fatalf("remaining after start = %v, want %v", got, want)
	}

	if snap.State != StateRunning {
		t.Fatalf("state = %v, want %v", snap.State, StateRunning)
	}
}

func TestEngineRemainingIsMonotone(t *testing.T) {
	e, clock := newTestEngine(t)

	e.Start()

	prev := e.Tick(clock.Now()).Remaining

	for i := 0; i < 100; i++ {
		now := clock.Advance(731 * time.Millisecond)

		remaining := e.Tick(now).Remaining
		if remaining > prev {
			t.Fatalf(
				"remaining increased while running: %v -> %v", prev, remaining,
			)
		}

		prev = remaining
	}
}

func TestEnginePauseFreezesRemaining(t *testing.T) {
	e, clock := newTestEngine(t)

	e.Start()
	clock.Advance(30 * time.Second)
	e.Pause()

	want := e.Tick(clock.Now()).Remaining

	for i := 0; i < 10; i++ {
		now := clock.Advance(5 * time.Second)

		got := e.Tick(now).Remaining
		if got != want {
			t.Fatalf("remaining changed while paused: got %v, want %v", got, want)
		}
	}

	// resuming continues from where it left off
	e.Start()

	now := clock.Advance(10 * time.Second)

	got := e.Tick(now).Remaining
	if want := 260 * time.Second; got != want {
		t.Fatalf("remaining after resume = %v, want %v", got, want)
	}
}

func TestEngineFinishEdge(t *testing.T) {
	e, clock := newTestEngine(t)

	e.Start()

	snap := e.Tick(clock.Advance(180 * time.Second))
	if got, want := snap.Remaining, 120*time.Second; got != want {
		t.Fatalf("remaining at t=180s = %v, want %v", got, want)
	}

	snap = e.Tick(clock.Advance(60 * time.Second))
	if got, want := snap.Remaining, 60*time.Second; got != want {
		t.Fatalf("remaining at t=240s = %v, want %v", got, want)
	}

	// the tick that crosses zero reports the finish edge exactly once
	snap = e.Tick(clock.Advance(61 * time.Second))
	if !snap.Finished {
		t.Fatal("expected finish edge when remaining reached zero")
	}

	if snap.State != StateFinished {
		t.Fatalf("state = %v, want %v", snap.State, StateFinished)
	}

	stats := e.Stats()
	if stats.CompletedTimers != 1 {
		t.Fatalf("completed timers = %d, want 1", stats.CompletedTimers)
	}

	if stats.TotalSessions != 1 {
		t.Fatalf("total sessions = %d, want 1", stats.TotalSessions)
	}

	if stats.TotalTime != 300 {
		t.Fatalf("total time = %d, want 300", stats.TotalTime)
	}

	snap = e.Tick(clock.Advance(time.Second))
	if snap.Finished {
		t.Fatal("finish edge reported twice")
	}

	// finished is terminal until reset
	e.Start()

	if e.State() != StateFinished {
		t.Fatalf("start in finished state should be a no-op, got %v", e.State())
	}

	e.Reset()

	if e.State() != StateStopped {
		t.Fatalf("state after reset = %v, want %v", e.State(), StateStopped)
	}
}

func TestEngineSetDurationRejectsNegative(t *testing.T) {
	e, clock := newTestEngine(t)

	err := e.SetDuration(-5 * time.Second)
	if err != ErrInvalidDuration {
		t.Fatalf("error = %v, want %v", err, ErrInvalidDuration)
	}

	snap := e.Tick(clock.Now())
	if got, want := snap.Duration, 300*time.Second; got != want {
		t.Fatalf("duration changed after rejected input: %v", got)
	}

	if snap.State != StateStopped {
		t.Fatalf("state changed after rejected input: %v", snap.State)
	}
}

func TestEngineSetDurationClampsThresholds(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.SetDuration(90 * time.Second); err != nil {
		t.Fatal(err)
	}

	snap := e.Snapshot()

	if snap.Warning > snap.Duration {
		t.Fatalf("warning %v exceeds duration %v", snap.Warning, snap.Duration)
	}

	if snap.Critical > snap.Warning {
		t.Fatalf("critical %v exceeds warning %v", snap.Critical, snap.Warning)
	}
}

func TestEngineStopwatch(t *testing.T) {
	e, clock := newTestEngine(t)

	e.SwitchMode(ModeStopwatch)
	e.Start()

	snap := e.Tick(clock.Advance(90 * time.Second))
	if got, want := snap.Elapsed, 90*time.Second; got != want {
		t.Fatalf("elapsed = %v, want %v", got, want)
	}

	if snap.Display != "01:30" {
		t.Fatalf("display = %q, want 01:30", snap.Display)
	}

	e.Pause()
	clock.Advance(30 * time.Second)
	e.Start()

	snap = e.Tick(clock.Advance(10 * time.Second))
	if got, want := snap.Elapsed, 100*time.Second; got != want {
		t.Fatalf("elapsed after pause/resume = %v, want %v", got, want)
	}
}

func TestEngineSwitchMode(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SwitchMode(ModePomodoro)

	if got, want := e.Duration(), config.PomodoroDuration; got != want {
		t.Fatalf("pomodoro duration = %v, want %v", got, want)
	}

	e.SwitchMode(ModeTimer)

	if got, want := e.Duration(), 300*time.Second; got != want {
		t.Fatalf("duration after switching back = %v, want %v", got, want)
	}

	// an unrecognised mode falls back to the plain timer
	e.SwitchMode(Mode("bogus"))

	if got := e.Mode(); got != ModeTimer {
		t.Fatalf("mode after bogus switch = %v, want %v", got, ModeTimer)
	}

	if got := e.State(); got != StateStopped {
		t.Fatalf("switching modes must stop the timer, state = %v", got)
	}
}

func TestEngineSessionCounting(t *testing.T) {
	e, clock := newTestEngine(t)

	e.Start()
	clock.Advance(5 * time.Second)
	e.Pause()
	e.Start() // resume, not a new session
	e.Reset()
	e.Start() // new session

	if got := e.Stats().TotalSessions; got != 2 {
		t.Fatalf("total sessions = %d, want 2", got)
	}
}

func TestEngineSeedsStats(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetStats(models.Statistics{
		TotalSessions:   7,
		TotalTime:       900,
		CompletedTimers: 3,
		AverageDuration: 300,
	})

	e.Start()

	if got := e.Stats().TotalSessions; got != 8 {
		t.Fatalf("total sessions = %d, want 8", got)
	}
}

func TestEngineApplyPreset(t *testing.T) {
	e, _ := newTestEngine(t)

	e.ApplyPreset(models.Preset{
		Name:         "deep-work",
		Duration:     3600,
		WarningTime:  300,
		CriticalTime: 60,
	})

	snap := e.Snapshot()

	if got, want := snap.Duration, time.Hour; got != want {
		t.Fatalf("duration = %v, want %v", got, want)
	}

	if snap.Display != "01:00:00" {
		t.Fatalf("display = %q, want 01:00:00", snap.Display)
	}
}

// TestEngineConcurrentAccess interleaves remote-control style commands
// with periodic ticks from another goroutine and verifies the state
// invariants hold throughout.
func TestEngineConcurrentAccess(t *testing.T) {
	e := NewEngine(testConfig())

	var wg sync.WaitGroup

	stop := make(chan struct{})

	// update loop
	wg.Add(1)

	go func() {
		defer wg.Done()

		for {
			select {
			case <-stop:
				return
			default:
				snap := e.Tick(time.Now())

				if snap.Remaining < 0 || snap.Remaining > snap.Duration {
					t.Errorf("remaining %v out of range [0, %v]",
						snap.Remaining, snap.Duration)
					return
				}
			}
		}
	}()

	// remote control commands
	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 500; j++ {
				switch (n + j) % 4 {
				case 0:
					e.Toggle()
				case 1:
					e.Reset()
				case 2:
					_ = e.SetDuration(time.Duration(j%600+1) * time.Second)
				case 3:
					e.Snapshot()
				}
			}
		}(i)
	}

	waitCh := make(chan struct{})

	go func() {
		wg.Wait()
		close(waitCh)
	}()

	time.Sleep(50 * time.Millisecond)
	close(stop)

	<-waitCh

	switch e.State() {
	case StateStopped, StateRunning, StatePaused, StateFinished:
	default:
		t.Fatalf("engine left in invalid state: %v", e.State())
	}
}

package timer

import (
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const sampleRate beep.SampleRate = 44100

// tone describes a single synthesized beep.
type tone struct {
	freq     float64
	duration time.Duration
}

// alertTones maps each sound kind to the sequence of tones played for it.
// The sounds are synthesized so no audio assets need to be shipped.
var alertTones = map[SoundKind][]tone{
	SoundWarning:  {{660, 250 * time.Millisecond}},
	SoundCritical: {{880, 200 * time.Millisecond}, {880, 200 * time.Millisecond}},
	SoundFinish: {
		{523.25, 180 * time.Millisecond},
		{659.25, 180 * time.Millisecond},
		{783.99, 300 * time.Millisecond},
	},
	SoundTick: {{1000, 40 * time.Millisecond}},
}

// SystemEffects plays alert sounds through the system speaker and posts
// desktop notifications. Playback is handed to the speaker mixer and
// notifications are delivered on their own goroutine, so neither call
// blocks the update loop.
type SystemEffects struct {
	soundEnabled  bool
	notifyEnabled bool
	speakerErr    error
}

// NewSystemEffects initialises the speaker and returns the effects
// dispatcher. A speaker initialisation failure is recorded and reported
// per playback attempt instead of being fatal.
func NewSystemEffects(soundEnabled, notifyEnabled bool) *SystemEffects {
	e := &SystemEffects{
		soundEnabled:  soundEnabled,
		notifyEnabled: notifyEnabled,
	}

	if soundEnabled {
		e.speakerErr = speaker.Init(
			sampleRate,
			sampleRate.N(100*time.Millisecond),
		)
	}

	return e
}

// PlaySound queues the tone sequence for the given kind on the speaker
// mixer and returns immediately.
func (e *SystemEffects) PlaySound(kind SoundKind) error {
	if !e.soundEnabled {
		return nil
	}

	if e.speakerErr != nil {
		return e.speakerErr
	}

	tones, ok := alertTones[kind]
	if !ok {
		return errUnknownSound
	}

	streamers := make([]beep.Streamer, 0, len(tones))

	for _, t := range tones {
		s, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return err
		}

		streamers = append(streamers, beep.Take(sampleRate.N(t.duration), s))
	}

	speaker.Play(beep.Seq(streamers...))

	return nil
}

// Notify posts a desktop notification without blocking the caller.
func (e *SystemEffects) Notify(message string) error {
	if !e.notifyEnabled {
		return nil
	}

	go func() {
		err := beeep.Notify("UltraTimer", message, "")
		if err != nil {
			slog.Warn(
				"unable to display notification",
				slog.Any("error", err),
			)
		}
	}()

	return nil
}

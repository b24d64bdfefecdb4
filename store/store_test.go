package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	bolt "go.etcd.io/bbolt"

	"ultratimer/internal/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ultratimer_test.db")

	c, err := NewClient(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func TestPresetRoundTrip(t *testing.T) {
	c := newTestClient(t)

	want := map[string]models.Preset{
		"deep-work": {
			Name:         "deep-work",
			Duration:     3600,
			WarningTime:  300,
			CriticalTime: 60,
			SoundEnabled: true,
			ColorTheme:   "forest",
		},
		"standup": {
			Name:         "standup",
			Duration:     900,
			WarningTime:  120,
			CriticalTime: 30,
			SoundEnabled: false,
			ColorTheme:   "default",
		},
	}

	for _, p := range want {
		if err := c.SavePreset(p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.Presets()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPreset(t *testing.T) {
	c := newTestClient(t)

	p := models.Preset{
		Name:     "break",
		Duration: 300,
	}

	if err := c.SavePreset(p); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetPreset("break")
	if err != nil {
		t.Fatal(err)
	}

	if got.Duration != 300 {
		t.Fatalf("duration = %d, want 300", got.Duration)
	}

	_, err = c.GetPreset("missing")
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want preset not found", err)
	}
}

// Documents written by an older version may lack newer fields; loading
// must fill those in from the defaults.
func TestPresetLoadMergesDefaults(t *testing.T) {
	c := newTestClient(t)

	partial := []byte(`{"name":"legacy","duration":600}`)

	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(presetBucket).Put([]byte("legacy"), partial)
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.GetPreset("legacy")
	if err != nil {
		t.Fatal(err)
	}

	def := DefaultPreset()

	if got.WarningTime != def.WarningTime {
		t.Fatalf("warning time = %d, want default %d",
			got.WarningTime, def.WarningTime)
	}

	if got.CriticalTime != def.CriticalTime {
		t.Fatalf("critical time = %d, want default %d",
			got.CriticalTime, def.CriticalTime)
	}

	if !got.SoundEnabled {
		t.Fatal("sound_enabled should default to true")
	}

	if got.ColorTheme != def.ColorTheme {
		t.Fatalf("color theme = %q, want default %q",
			got.ColorTheme, def.ColorTheme)
	}

	if got.Duration != 600 {
		t.Fatalf("stored duration overwritten: got %d, want 600", got.Duration)
	}
}

func TestDeletePreset(t *testing.T) {
	c := newTestClient(t)

	if err := c.SavePreset(models.Preset{Name: "gone"}); err != nil {
		t.Fatal(err)
	}

	if err := c.DeletePreset("gone"); err != nil {
		t.Fatal(err)
	}

	_, err := c.GetPreset("gone")
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want preset not found", err)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	c := newTestClient(t)

	// a fresh database yields a zeroed record
	got, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(models.Statistics{}, got); diff != "" {
		t.Fatalf("fresh stats mismatch (-want +got):\n%s", diff)
	}

	want := models.Statistics{
		TotalSessions:   12,
		TotalTime:       5400,
		CompletedTimers: 9,
		AverageDuration: 600,
	}

	if err := c.SaveStats(want); err != nil {
		t.Fatal(err)
	}

	got, err = c.Stats()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

// The database file is locked by the first instance; a second open
// attempt times out and is reported as such.
func TestSecondInstanceRejected(t *testing.T) {
	c := newTestClient(t)

	_, err := NewClient(c.Path())
	if !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("error = %v, want %v", err, errAlreadyRunning)
	}
}

func TestStatsDiscardsMalformedRecord(t *testing.T) {
	c := newTestClient(t)

	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(statsBucket).Put(statsKey, []byte("{not json"))
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(models.Statistics{}, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsWireFormat(t *testing.T) {
	want := models.Statistics{
		TotalSessions:   3,
		TotalTime:       1200,
		CompletedTimers: 2,
		AverageDuration: 600,
	}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	wire := `{"total_sessions":3,"total_time":1200,"completed_timers":2,"average_duration":600}`

	if string(b) != wire {
		t.Fatalf("wire format = %s, want %s", b, wire)
	}
}

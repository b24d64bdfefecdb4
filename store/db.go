package store

import "ultratimer/internal/models"

// DB is the persistence interface for presets and statistics.
type DB interface {
	// Presets returns every saved preset keyed by name, with missing
	// fields filled in from defaults.
	Presets() (map[string]models.Preset, error)
	// GetPreset returns a single preset by name.
	GetPreset(name string) (models.Preset, error)
	// SavePreset creates or overwrites a preset.
	SavePreset(p models.Preset) error
	// DeletePreset removes a preset by name.
	DeletePreset(name string) error
	// Stats returns the accumulated statistics record.
	Stats() (models.Statistics, error)
	// SaveStats overwrites the statistics record.
	SaveStats(s models.Statistics) error
	// Close ends the database connection.
	Close() error
}

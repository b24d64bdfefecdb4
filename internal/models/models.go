// Package models defines the records persisted by the data store.
package models

// Preset is a saved timer configuration keyed by its name.
type Preset struct {
	Name         string `json:"name"`
	Duration     int    `json:"duration"` // seconds
	WarningTime  int    `json:"warning_time"`
	CriticalTime int    `json:"critical_time"`
	SoundEnabled bool   `json:"sound_enabled"`
	ColorTheme   string `json:"color_theme"`
}

// Statistics holds the counters accumulated across timer sessions. They
// only ever grow, except through an explicit reset.
type Statistics struct {
	TotalSessions   int64 `json:"total_sessions"`
	TotalTime       int64 `json:"total_time"` // seconds
	CompletedTimers int64 `json:"completed_timers"`
	AverageDuration int64 `json:"average_duration"` // seconds
}

// Package timeutil provides utility functions for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const (
	secondsInAMinute = 60
	secondsInAnHour  = 3600
)

// Round rounds a time value in seconds to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// FormatDuration expresses a duration as a clock string: MM:SS for values
// under an hour, HH:MM:SS otherwise.
func FormatDuration(d time.Duration) string {
	total := Round(d.Seconds())
	if total < 0 {
		total = 0
	}

	hours := total / secondsInAnHour
	minutes := (total % secondsInAnHour) / secondsInAMinute
	seconds := total % secondsInAMinute

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatClock expresses a wall-clock instant as HH:MM:SS.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDate expresses the date portion of a wall-clock instant.
func FormatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

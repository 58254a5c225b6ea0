package scheduler

import (
	"time"
)

// quietLayout is the clock format for quiet-hours boundaries.
const quietLayout = "15:04"

// InQuietHours reports whether t falls inside the configured quiet window.
// Boundaries are local times in "HH:MM" form. A window whose start is later
// than its end wraps midnight (22:00–08:00 covers 23:30 and 07:00).
//
// Missing or invalid configuration disables quiet hours entirely: delivery
// fails open rather than silently withholding results forever.
func InQuietHours(t time.Time, start, end string) bool {
	if start == "" || end == "" {
		return false
	}

	startClock, err := time.Parse(quietLayout, start)
	if err != nil {
		return false
	}
	endClock, err := time.Parse(quietLayout, end)
	if err != nil {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	from := startClock.Hour()*60 + startClock.Minute()
	until := endClock.Hour()*60 + endClock.Minute()

	if from > until {
		return now >= from || now <= until
	}
	return from <= now && now <= until
}

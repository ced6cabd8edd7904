package render

import (
	"fmt"
	"time"
)

const Started = "Started"

const day = 24 * time.Hour

// Countdown formats the time left until target using the coarsest unit pair
// that applies. Anything at or past target reads Started.
func Countdown(target, now time.Time) string {
	remaining := target.Sub(now)
	if remaining <= 0 {
		return Started
	}

	days := int64(remaining / day)
	remaining -= time.Duration(days) * day
	hours := int64(remaining / time.Hour)
	remaining -= time.Duration(hours) * time.Hour
	mins := int64(remaining / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

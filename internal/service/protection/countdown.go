package protection

import (
	"fmt"
	"time"
)

// FormatCountdown renders a remaining duration for display: whole hours
// and minutes when at least an hour remains, whole seconds below that,
// and "0s" at or past the deadline.
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d >= time.Hour {
		hours := int(d / time.Hour)
		minutes := int(d%time.Hour) / int(time.Minute)
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

package util

import "time"

// Now returns the current time in UTC. Timestamps are always stored in UTC
// so records exported on one device compare cleanly on another.
func Now() time.Time {
	return time.Now().UTC()
}

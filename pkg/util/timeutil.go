package util

import "time"

// NowUTC is the injectable clock used by the services; tests swap it for a
// fixed instant.
func NowUTC() time.Time {
	return time.Now().UTC()
}

package tracking

import "time"

// pollDelay is interval << failures, capped at max.
func pollDelay(interval, max time.Duration, failures int) time.Duration {
	if failures <= 0 {
		return interval
	}
	if failures > 30 {
		return max
	}
	d := interval << failures
	if d > max || d <= 0 {
		return max
	}
	return d
}

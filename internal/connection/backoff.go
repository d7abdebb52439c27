package connection

import "time"

// Default reconnection tuning.
const (
	DefaultBaseDelay = 1 * time.Second
	DefaultMaxDelay  = 30 * time.Second
)

// Backoff returns min(base * 2^attempt, maxDelay) for attempt >= 0.
//
//	attempt: 0   1   2   3   4    5    6 ...
//	delay:   1s  2s  4s  8s  16s  30s  30s
func Backoff(attempt int, base, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := base
	for i := 0; i < attempt; i++ {
		if delay >= maxDelay {
			return maxDelay
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

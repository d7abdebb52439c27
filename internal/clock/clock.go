// Package clock abstracts the time operations the dashboard depends on so
// reconnection timers and activity windows can be driven by tests.
package clock

import "time"

// Clock is implemented by Real and Fake.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed (Real) or
	// synchronously from Advance (Fake).
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the call. It reports false if the call already ran
	// or was stopped before.
	Stop() bool
}

// Package clock abstracts wall-clock time so session expiry can be tested.
package clock

import "time"

// Clock reports the current time and how long remains until a deadline
type Clock interface {
	Now() time.Time
	Until(t time.Time) time.Duration
}

// SystemClock reads the operating system clock
type SystemClock struct{}

// New returns the system clock
func New() SystemClock {
	return SystemClock{}
}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Until returns time.Until(t)
func (SystemClock) Until(t time.Time) time.Duration {
	return time.Until(t)
}

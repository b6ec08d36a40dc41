package mocks

import (
	"sync"
	"time"

	"github.com/moonpull/moonpull-web/internal/dependencies/clock"
)

var _ clock.Clock = (*ManualClock)(nil)

// ManualClock only moves when told to. Safe for concurrent use, so
// session sweeps running in goroutines can share it with the test.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock stopped at t
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the frozen time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Until returns the duration from the frozen time to t
func (c *ManualClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set jumps the clock to t
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

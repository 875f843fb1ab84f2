package reconcile

import (
	"sync"
	"time"
)

// Clock tells the time, in seconds, on the authoritative timeline that snapshot send times are
// measured on.
type Clock interface {
	Now() float64
}

// SystemClock measures monotonic wall time elapsed since a start instant shared with the
// authoritative side.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock reading zero at start.
func NewSystemClock(start time.Time) SystemClock {
	return SystemClock{start: start}
}

func (c SystemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

// NewManualClock returns a clock reading now.
func NewManualClock(now float64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *ManualClock) Set(now float64) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) {
	c.mu.Lock()
	c.now += dt
	c.mu.Unlock()
}

package testutil

import "sync"

// DeterministicClock is a thread-safe stand-in for wall-clock unix seconds.
//
// Each call to Now returns the start time plus the number of earlier calls,
// so saved runs get distinct, reproducible CreatedAt values.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	calls int64
}

// NewDeterministicClock creates a clock whose first Now returns start.
func NewDeterministicClock(start int64) *DeterministicClock {
	return &DeterministicClock{start: start}
}

// Now returns the next timestamp.
func (c *DeterministicClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start + c.calls
	c.calls++
	return t
}

// Reset rewinds the clock to its start time.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}

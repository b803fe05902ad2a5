package server

import (
	"sync"
	"time"
)

// clock is the simulation time source. It stands still while the server is paused, so that deadlines in
// the match don't run out during a pause.
type clock struct {
	wall func() time.Time

	mu       sync.Mutex
	offset   time.Duration // total time spent paused
	paused   bool
	pausedAt time.Time
}

func newClock(wall func() time.Time) *clock {
	if wall == nil {
		wall = time.Now
	}
	return &clock{wall: wall}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return c.pausedAt.Add(-c.offset)
	}
	return c.wall().Add(-c.offset)
}

func (c *clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.wall()
}

func (c *clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.offset += c.wall().Sub(c.pausedAt)
}

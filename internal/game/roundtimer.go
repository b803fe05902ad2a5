package game

import "time"

// RoundTimer counts down against a Clock. It never fires on its own; the rules poll Expired every tick.
type RoundTimer struct {
	clock    Clock
	length   time.Duration
	deadline time.Time     // valid while running
	left     time.Duration // valid while paused
	paused   bool
}

// NewRoundTimer returns a paused timer with d on it.
func NewRoundTimer(clock Clock, d time.Duration) *RoundTimer {
	return &RoundTimer{
		clock:  clock,
		length: d,
		left:   d,
		paused: true,
	}
}

func (t *RoundTimer) Length() time.Duration { return t.length }

func (t *RoundTimer) Paused() bool { return t.paused }

func (t *RoundTimer) Pause() {
	if t.paused {
		return
	}
	t.left = t.TimeLeft()
	t.paused = true
}

func (t *RoundTimer) Resume() {
	if !t.paused {
		return
	}
	t.deadline = t.clock.Now().Add(t.left)
	t.paused = false
}

// Add puts d more on the clock. Negative values take time off.
func (t *RoundTimer) Add(d time.Duration) {
	if t.paused {
		t.left += d
		if t.left < 0 {
			t.left = 0
		}
		return
	}
	t.deadline = t.deadline.Add(d)
}

func (t *RoundTimer) TimeLeft() time.Duration {
	if t.paused {
		return t.left
	}
	left := t.deadline.Sub(t.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

func (t *RoundTimer) Expired() bool { return t.TimeLeft() <= 0 }

// Package pausableticker provides a ticker whose ticks can be held back while the game is paused.
package pausableticker

import (
	"sync"
	"time"
)

type Ticker struct {
	C <-chan time.Time // The channel on which the ticks are delivered.

	mu     sync.Mutex
	paused bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	ticker   *time.Ticker
}

func New(d time.Duration) *Ticker {
	c := make(chan time.Time)

	t := &Ticker{
		C:      c,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ticker: time.NewTicker(d),
	}

	go t.run(c)

	return t
}

func (t *Ticker) run(c chan<- time.Time) {
	defer close(t.done)
	for {
		select {
		case now := <-t.ticker.C:
			if t.Paused() {
				// ticks that fall into a pause are dropped
				continue
			}
			select {
			case c <- now:
			case <-t.stop:
				return
			}
		case <-t.stop:
			return
		}
	}
}

func (t *Ticker) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

func (t *Ticker) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *Ticker) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
}

// Stop turns off the ticker. No more ticks are sent once it returns. It's safe to call Stop more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
	<-t.done
}

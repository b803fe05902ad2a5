package game

import (
	"testing"
	"time"
)

func TestRoundTimer(t *testing.T) {
	h := newFakeHost()
	rt := NewRoundTimer(h, 10*time.Second)

	if !rt.Paused() || rt.TimeLeft() != 10*time.Second {
		t.Fatalf("new timer: paused %t, %v left", rt.Paused(), rt.TimeLeft())
	}

	h.now = h.now.Add(time.Hour)
	if rt.TimeLeft() != 10*time.Second {
		t.Fatal("paused timer counted down")
	}

	rt.Resume()
	h.now = h.now.Add(3 * time.Second)
	if rt.TimeLeft() != 7*time.Second {
		t.Fatalf("TimeLeft() = %v, want 7s", rt.TimeLeft())
	}

	rt.Pause()
	h.now = h.now.Add(5 * time.Second)
	rt.Add(5 * time.Second)
	if rt.TimeLeft() != 12*time.Second {
		t.Fatalf("TimeLeft() = %v, want 12s", rt.TimeLeft())
	}

	rt.Resume()
	rt.Add(-20 * time.Second)
	if rt.TimeLeft() != 0 || !rt.Expired() {
		t.Errorf("TimeLeft() = %v, expired %t after taking off more than was left", rt.TimeLeft(), rt.Expired())
	}
	if rt.Length() != 10*time.Second {
		t.Errorf("Length() = %v, want 10s", rt.Length())
	}
}

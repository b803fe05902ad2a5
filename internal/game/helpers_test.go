package game

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
)

const step = 100 * time.Millisecond

type firedEvent struct {
	typ  event.Type
	args []interface{}
}

type damageCall struct {
	origin   geom.Vector
	radius   float64
	damage   float64
	attacker *Player
}

// fakeHost is a manually advanced clock that records everything the match asks of the engine.
type fakeHost struct {
	now      time.Time
	events   []firedEvent
	inArea   map[*AreaCapture][]*Player
	damage   []damageCall
	stuns    int
	respawns int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		now:    time.Date(2024, 6, 6, 6, 30, 0, 0, time.UTC),
		inArea: map[*AreaCapture][]*Player{},
	}
}

func (h *fakeHost) Now() time.Time { return h.now }

func (h *fakeHost) Fire(typ event.Type, args ...interface{}) {
	h.events = append(h.events, firedEvent{typ: typ, args: args})
}

func (h *fakeHost) RadiusDamage(origin geom.Vector, radius, damage float64, attacker *Player) {
	h.damage = append(h.damage, damageCall{origin, radius, damage, attacker})
}

func (h *fakeHost) RadiusStun(geom.Vector, float64, float64) { h.stuns++ }

func (h *fakeHost) Respawn(*Player) { h.respawns++ }

func (h *fakeHost) PlayersInArea(a *AreaCapture) []*Player { return h.inArea[a] }

func (h *fakeHost) count(typ event.Type) int {
	n := 0
	for _, e := range h.events {
		if e.typ == typ {
			n++
		}
	}
	return n
}

func (h *fakeHost) enter(a *AreaCapture, players ...*Player) {
	h.inArea[a] = append(h.inArea[a], players...)
}

func (h *fakeHost) leave(a *AreaCapture, p *Player) {
	kept := h.inArea[a][:0]
	for _, o := range h.inArea[a] {
		if o != p {
			kept = append(kept, o)
		}
	}
	h.inArea[a] = kept
}

// newTestMatch returns a match without delays between round states.
func newTestMatch(t *testing.T, configure ...func(*Settings)) (*Match, *fakeHost) {
	t.Helper()
	h := newFakeHost()
	s := DefaultSettings()
	s.RoundWaitTime = false
	for _, c := range configure {
		c(&s)
	}
	return NewMatch(h, s, slog.New(slog.NewTextHandler(io.Discard, nil))), h
}

func join(t *testing.T, m *Match, id int32, tm team.ID) *Player {
	t.Helper()
	p, err := m.Join(id, "player", tm)
	if err != nil {
		t.Fatalf("could not join player %d: %v", id, err)
	}
	if err := m.SetClass(id, "rifleman"); err != nil {
		t.Fatalf("could not set class of player %d: %v", id, err)
	}
	return p
}

// tick advances the clock by one step and runs one frame.
func tick(m *Match, h *fakeHost) {
	h.now = h.now.Add(step)
	m.Tick()
}

func tickFor(m *Match, h *fakeHost, d time.Duration) {
	for end := h.now.Add(d); h.now.Before(end); {
		tick(m, h)
	}
}

// tickUntil ticks until cond holds and reports whether it did within limit.
func tickUntil(m *Match, h *fakeHost, limit time.Duration, cond func() bool) bool {
	for end := h.now.Add(limit); h.now.Before(end); {
		tick(m, h)
		if cond() {
			return true
		}
	}
	return false
}

// startRound starts the match and runs it into a live round.
func startRound(t *testing.T, m *Match, h *fakeHost) {
	t.Helper()
	m.Start()
	if !tickUntil(m, h, 2*time.Second, func() bool { return m.Rules().State() == roundstate.Running }) {
		t.Fatalf("round did not start, state is %s", m.Rules().State())
	}
}

// nextRound runs a match that's already started into its next live round.
func nextRound(t *testing.T, m *Match, h *fakeHost) {
	t.Helper()
	if !tickUntil(m, h, 30*time.Second, func() bool { return m.Rules().State() == roundstate.Running }) {
		t.Fatalf("next round did not start, state is %s", m.Rules().State())
	}
}

package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

// AreaCapture is a zone that flips its control point to a team holding it for CapTime with enough players.
type AreaCapture struct {
	Name    string
	Point   *ControlPoint
	CapTime Seconds

	required map[team.ID]int
	canCap   map[team.ID]bool
	enabled  bool

	capturing     bool
	capturingTeam team.ID
	timeRemaining time.Duration
	attempt       int // incremented on every new attempt, so blocks are credited once per attempt
	counts        map[team.ID]int
	nextThink     time.Time

	m *Match
}

// NewAreaCapture returns an enabled area that either team can capture alone.
func NewAreaCapture(name string, point *ControlPoint, capTime Seconds) *AreaCapture {
	return &AreaCapture{
		Name:     name,
		Point:    point,
		CapTime:  capTime,
		required: map[team.ID]int{team.Allies: 1, team.Axis: 1},
		canCap:   map[team.ID]bool{team.Allies: true, team.Axis: true},
		enabled:  true,
		counts:   map[team.ID]int{},
	}
}

func (a *AreaCapture) SetRequiredCappers(t team.ID, n int) {
	if !t.IsPlaying() {
		return
	}
	if n < 1 {
		n = 1
	}
	a.required[t] = n
}

func (a *AreaCapture) RequiredCappers(t team.ID) int { return a.required[t] }

func (a *AreaCapture) SetCanCap(t team.ID, can bool) {
	if t.IsPlaying() {
		a.canCap[t] = can
	}
}

func (a *AreaCapture) CanCap(t team.ID) bool { return a.canCap[t] }

func (a *AreaCapture) Enabled() bool { return a.enabled }

// SetEnabled gates the area. Disabling it clears the occupant counts and breaks a running capture.
func (a *AreaCapture) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		a.setCounts(0, 0)
		a.breakCapture(false)
	}
}

func (a *AreaCapture) Capturing() (t team.ID, ok bool) { return a.capturingTeam, a.capturing }

func (a *AreaCapture) TimeRemaining() time.Duration { return a.timeRemaining }

func (a *AreaCapture) Attempt() int { return a.attempt }

// Count is the weighted number of live occupants of t seen by the last think.
func (a *AreaCapture) Count(t team.ID) int { return a.counts[t] }

// RoundInit drops any progress from the previous round.
func (a *AreaCapture) RoundInit() {
	a.capturing = false
	a.capturingTeam = team.None
	a.timeRemaining = 0
	a.counts = map[team.ID]int{}
	a.nextThink = time.Time{}
	if a.Point == nil {
		a.m.log.Warn("capture area has no control point, disabling it", "area", a.Name)
		a.enabled = false
	}
}

func (a *AreaCapture) think() {
	now := a.m.now()
	if now.Before(a.nextThink) {
		return
	}
	interval := a.m.Settings.AreaThinkInterval.Duration()
	a.nextThink = now.Add(interval)

	if a.Point == nil || !a.enabled || a.m.rules.State() != roundstate.Running {
		a.setCounts(0, 0)
		a.breakCapture(false)
		return
	}

	occupants := map[team.ID][]*Player{}
	for _, p := range a.m.host.PlayersInArea(a) {
		if !p.IsAlive() || !p.Team.IsPlaying() {
			continue
		}
		occupants[p.Team] = append(occupants[p.Team], p)
	}

	mult := a.m.Settings.cappersMultiplier()
	numAllies := len(occupants[team.Allies]) * mult
	numAxis := len(occupants[team.Axis]) * mult
	a.setCounts(numAllies, numAxis)

	if a.capturing {
		a.timeRemaining -= interval

		if numAllies > 0 && numAxis > 0 {
			// contested: past the half-way mark, the first defender present gets credit for the block
			if float64(a.timeRemaining) <= 0.5*float64(a.CapTime.Duration()) {
				defenders := occupants[a.capturingTeam.Enemy()]
				if len(defenders) > 0 {
					a.creditBlock(defenders[0])
				}
			}
			a.breakCapture(false)
			return
		}

		if numAllies == 0 && numAxis == 0 {
			a.breakCapture(true)
			return
		}

		if a.counts[a.capturingTeam] < a.required[a.capturingTeam]*mult {
			a.breakCapture(false)
			return
		}

		if a.timeRemaining <= 0 {
			a.endCapture(occupants[a.capturingTeam])
		}
		return
	}

	for _, t := range team.Playing {
		if a.counts[t] > 0 && a.counts[t.Enemy()] == 0 &&
			a.canCap[t] &&
			a.counts[t] >= a.required[t]*mult &&
			a.Point.Owner != t {
			a.startCapture(t)
			return
		}
	}
}

// creditBlock rewards p for blocking the current attempt, at most once per attempt.
func (a *AreaCapture) creditBlock(p *Player) {
	if p.lastBlockArea == a && p.lastBlockAttempt == a.attempt {
		return
	}
	p.lastBlockArea, p.lastBlockAttempt = a, a.attempt
	a.Point.CaptureBlocked(p)
}

func (a *AreaCapture) setCounts(numAllies, numAxis int) {
	if a.counts[team.Allies] == numAllies && a.counts[team.Axis] == numAxis {
		return
	}
	a.counts[team.Allies] = numAllies
	a.counts[team.Axis] = numAxis
	a.m.fire(event.CapperCount, "area", a.Name, "allies", numAllies, "axis", numAxis)
}

func (a *AreaCapture) startCapture(t team.ID) {
	a.capturing = true
	a.capturingTeam = t
	a.timeRemaining = a.CapTime.Duration()
	a.attempt++

	a.m.fire(event.CapStatus, "area", a.Name, "team", t)
	a.m.fire(event.StartCapture, "area", a.Name, "point", a.Point.Name, "team", t)
	a.m.fire(event.TeamStartCapture, "area", a.Name, "team", t, "cappers", a.counts[t])
}

// breakCapture stops a running capture. notEnoughPlayers means the area emptied out, which also ends the
// attempt.
func (a *AreaCapture) breakCapture(notEnoughPlayers bool) {
	if !a.capturing {
		return
	}
	t := a.capturingTeam
	a.capturing = false
	a.capturingTeam = team.None
	a.timeRemaining = 0
	if notEnoughPlayers {
		a.attempt++
	}

	a.m.fire(event.CapStatus, "area", a.Name, "team", team.None)
	a.m.fire(event.BreakCapture, "area", a.Name, "point", a.Point.Name)
	a.m.fire(event.TeamBreakCapture, "area", a.Name, "team", t)
}

func (a *AreaCapture) endCapture(cappers []*Player) {
	t := a.capturingTeam
	a.capturing = false
	a.capturingTeam = team.None
	a.timeRemaining = 0

	a.m.fire(event.CapStatus, "area", a.Name, "team", team.None)
	a.m.fire(event.EndCapture, "area", a.Name, "point", a.Point.Name, "team", t)
	a.m.fire(event.TeamEndCapture, "area", a.Name, "team", t, "cappers", len(cappers))

	a.Point.SetOwner(t, cappers)
}

// CheckIfDeathCausesBlock reports whether victim was in this area. If their death leaves the capturing team
// short of cappers, killer is credited with the block and the capture breaks.
func (a *AreaCapture) CheckIfDeathCausesBlock(victim, killer *Player) bool {
	if victim == nil || killer == nil || !a.isTouching(victim) {
		return false
	}
	if victim.Team == killer.Team {
		return true
	}
	if !a.capturing || victim.Team != a.capturingTeam {
		return true
	}

	mult := a.m.Settings.cappersMultiplier()
	if a.counts[a.capturingTeam]-1 < a.required[a.capturingTeam]*mult {
		a.creditBlock(killer)
		a.breakCapture(false)
	}
	return true
}

func (a *AreaCapture) isTouching(p *Player) bool {
	for _, o := range a.m.host.PlayersInArea(a) {
		if o == p {
			return true
		}
	}
	return false
}

package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/bombstate"
	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
)

// useAttempt is a plant or defuse in progress. It only survives as long as the player keeps renewing it.
type useAttempt struct {
	p          *Player
	completeAt time.Time
	timeoutAt  time.Time
}

type bombTargetState struct {
	name  string
	enter func(*BombTarget)
	leave func(*BombTarget)
	think func(*BombTarget)
}

var bombTargetStates map[bombstate.ID]bombTargetState

func init() {
	bombTargetStates = map[bombstate.ID]bombTargetState{
		bombstate.Inactive: {
			name:  "inactive",
			enter: (*BombTarget).enterInactive,
		},
		bombstate.Active: {
			name:  "active",
			enter: (*BombTarget).enterActive,
			think: (*BombTarget).thinkActive,
		},
		bombstate.Armed: {
			name:  "armed",
			enter: (*BombTarget).enterArmed,
			leave: (*BombTarget).leaveArmed,
			think: (*BombTarget).thinkArmed,
		},
	}
}

// BombTarget is a site where a bomb can be planted against its control point.
type BombTarget struct {
	Name        string
	Point       *ControlPoint
	BombingTeam team.ID // team.None lets either team plant
	AddSeconds  Seconds // put on the round timer when the bomb goes off
	Origin      geom.Vector

	enabled      bool
	state        bombstate.ID
	planters     []*useAttempt
	planter      *Player
	plantingTeam team.ID
	explodeAt    time.Time
	defusers     []*useAttempt // in the order they started

	m *Match
}

func NewBombTarget(name string, point *ControlPoint, bombingTeam team.ID, origin geom.Vector) *BombTarget {
	return &BombTarget{
		Name:        name,
		Point:       point,
		BombingTeam: bombingTeam,
		Origin:      origin,
		enabled:     true,
		state:       bombstate.Inactive,
	}
}

func (b *BombTarget) State() bombstate.ID { return b.state }

func (b *BombTarget) Enabled() bool { return b.enabled }

func (b *BombTarget) ExplodeAt() time.Time { return b.explodeAt }

func (b *BombTarget) Planter() *Player { return b.planter }

// Defusers returns the players currently defusing, in the order they started.
func (b *BombTarget) Defusers() []*Player {
	players := make([]*Player, 0, len(b.defusers))
	for _, d := range b.defusers {
		players = append(players, d.p)
	}
	return players
}

func (b *BombTarget) transition(s bombstate.ID) {
	if cur, ok := bombTargetStates[b.state]; ok && cur.leave != nil {
		cur.leave(b)
	}
	b.state = s
	next := bombTargetStates[s]
	b.m.log.Debug("bomb target state", "target", b.Name, "entering", next.name)
	if next.enter != nil {
		next.enter(b)
	}
	b.m.fire(event.BombTargetState, "target", b.Name, "state", s)
}

func (b *BombTarget) think() {
	if s := bombTargetStates[b.state]; s.think != nil {
		s.think(b)
	}
}

// plantable reports whether the target should be offered to the bombing team.
func (b *BombTarget) plantable() bool {
	if !b.enabled || b.Point == nil || b.Point.BombsRemaining <= 0 {
		return false
	}
	if b.BombingTeam.IsPlaying() {
		return b.Point.Owner != b.BombingTeam
	}
	return true
}

func (b *BombTarget) RoundInit() {
	b.planters = nil
	b.defusers = nil
	if b.Point == nil {
		b.m.log.Warn("bomb target has no control point, disabling it", "target", b.Name)
		b.enabled = false
	}
	if b.plantable() {
		b.transition(bombstate.Active)
	} else {
		b.transition(bombstate.Inactive)
	}
}

func (b *BombTarget) SetEnabled(enabled bool) {
	b.enabled = enabled
	switch {
	case !enabled && b.state != bombstate.Inactive:
		if b.state == bombstate.Armed {
			b.Point.CancelBombPlanted()
		}
		b.transition(bombstate.Inactive)
	case enabled && b.state == bombstate.Inactive && b.plantable():
		b.transition(bombstate.Active)
	}
}

func (b *BombTarget) enterInactive() {
	b.planters = nil
	b.planter = nil
	b.plantingTeam = team.None
}

func (b *BombTarget) enterActive() {
	b.planters = nil
	b.planter = nil
	b.plantingTeam = team.None
	b.explodeAt = time.Time{}
}

func (b *BombTarget) canPlant(p *Player) bool {
	if !p.Team.IsPlaying() || p.Team == b.Point.Owner {
		return false
	}
	if b.BombingTeam.IsPlaying() && p.Team != b.BombingTeam {
		return false
	}
	return b.inReach(p)
}

// inReach is shared by planters and defusers: alive, connected, standing, close enough.
func (b *BombTarget) inReach(p *Player) bool {
	return p.Connected && p.IsAlive() && p.OnGround &&
		geom.Distance(p.Position, b.Origin) <= b.m.Settings.DefuseMaxDistance
}

func findAttempt(attempts []*useAttempt, p *Player) *useAttempt {
	for _, a := range attempts {
		if a.p == p {
			return a
		}
	}
	return nil
}

func removeAttempt(attempts []*useAttempt, p *Player) ([]*useAttempt, bool) {
	for i, a := range attempts {
		if a.p == p {
			return append(attempts[:i], attempts[i+1:]...), true
		}
	}
	return attempts, false
}

// StartPlanting begins planting for p, or renews p's plant in progress.
func (b *BombTarget) StartPlanting(p *Player) bool {
	if b.state != bombstate.Active || b.m.rules.State() != roundstate.Running || !b.canPlant(p) {
		return false
	}
	now := b.m.now()
	if a := findAttempt(b.planters, p); a != nil {
		a.timeoutAt = now.Add(b.m.Settings.UseTimeout.Duration())
		return true
	}
	b.planters = append(b.planters, &useAttempt{
		p:          p,
		completeAt: now.Add(b.m.Settings.BombPlantTime.Duration()),
		timeoutAt:  now.Add(b.m.Settings.UseTimeout.Duration()),
	})
	b.m.fire(event.PlantStarted, "target", b.Name, "player", p.ID, "team", p.Team)
	return true
}

// ContinuePlanting renews a plant p already started.
func (b *BombTarget) ContinuePlanting(p *Player) bool {
	if findAttempt(b.planters, p) == nil {
		return false
	}
	return b.StartPlanting(p)
}

func (b *BombTarget) thinkActive() {
	if len(b.planters) == 0 {
		return
	}
	if b.m.rules.State() != roundstate.Running {
		b.planters = nil
		return
	}
	now := b.m.now()
	kept := b.planters[:0]
	for _, a := range b.planters {
		if b.canPlant(a.p) && !now.After(a.timeoutAt) {
			kept = append(kept, a)
		}
	}
	b.planters = kept
	for _, a := range b.planters {
		if !now.Before(a.completeAt) {
			b.CompletePlanting(a.p)
			return
		}
	}
}

// CompletePlanting arms the bomb. It only succeeds on an active target and for a player of the bombing team.
func (b *BombTarget) CompletePlanting(p *Player) bool {
	if b.state != bombstate.Active || !p.Team.IsPlaying() {
		return false
	}
	if b.BombingTeam.IsPlaying() && p.Team != b.BombingTeam {
		return false
	}
	b.planter = p
	b.plantingTeam = p.Team
	b.transition(bombstate.Armed)

	p.addScore(func(s *Stats) { s.BombsPlanted++ }, 1)
	b.m.fire(event.BombPlanted, "target", b.Name, "point", b.Point.Name, "player", p.ID, "team", p.Team, "explode_at", b.explodeAt)
	return true
}

func (b *BombTarget) enterArmed() {
	b.planters = nil
	b.defusers = nil
	b.explodeAt = b.m.now().Add(b.m.Settings.BombTimerLength.Duration())
	b.Point.bombPlanted(b.explodeAt)
}

func (b *BombTarget) leaveArmed() {
	b.defusers = nil
	b.Point.BombBeingDefused = false
}

func (b *BombTarget) canDefuse(p *Player) bool {
	return p.Team.IsPlaying() && p.Team != b.plantingTeam && b.inReach(p)
}

// StartDefuse begins defusing for p, or renews p's defuse in progress. Every defuser has their own deadline.
func (b *BombTarget) StartDefuse(p *Player) bool {
	if b.state != bombstate.Armed || !b.canDefuse(p) {
		return false
	}
	now := b.m.now()
	if d := findAttempt(b.defusers, p); d != nil {
		d.timeoutAt = now.Add(b.m.Settings.UseTimeout.Duration())
		return true
	}
	b.defusers = append(b.defusers, &useAttempt{
		p:          p,
		completeAt: now.Add(b.m.Settings.BombDefuseTime.Duration()),
		timeoutAt:  now.Add(b.m.Settings.UseTimeout.Duration()),
	})
	b.Point.BombBeingDefused = true
	b.m.fire(event.DefuseStarted, "target", b.Name, "player", p.ID, "team", p.Team)
	return true
}

// ContinueDefuse renews a defuse p already started.
func (b *BombTarget) ContinueDefuse(p *Player) bool {
	if findAttempt(b.defusers, p) == nil {
		return false
	}
	return b.StartDefuse(p)
}

func (b *BombTarget) RemoveDefuser(p *Player) bool {
	var removed bool
	b.defusers, removed = removeAttempt(b.defusers, p)
	if b.Point != nil {
		b.Point.BombBeingDefused = len(b.defusers) > 0
	}
	return removed
}

func (b *BombTarget) removePlanter(p *Player) bool {
	var removed bool
	b.planters, removed = removeAttempt(b.planters, p)
	return removed
}

// DefuseBlocked credits killer for stopping victim's defuse. It reports whether victim was defusing here.
func (b *BombTarget) DefuseBlocked(victim, killer *Player) bool {
	if b.state != bombstate.Armed || !b.RemoveDefuser(victim) {
		return false
	}
	if killer != nil && killer.Team != victim.Team {
		killer.addScore(func(s *Stats) { s.Blocks++ }, 1)
		b.m.fire(event.KillDefuser, "target", b.Name, "player", killer.ID, "victim", victim.ID)
	}
	return true
}

// PlantBlocked credits killer for stopping victim's plant. It reports whether victim was planting here.
func (b *BombTarget) PlantBlocked(victim, killer *Player) bool {
	if b.state != bombstate.Active || !b.removePlanter(victim) {
		return false
	}
	if killer != nil && killer.Team != victim.Team {
		killer.addScore(func(s *Stats) { s.Blocks++ }, 1)
		b.m.fire(event.KillPlanter, "target", b.Name, "player", killer.ID, "victim", victim.ID)
	}
	return true
}

func (b *BombTarget) thinkArmed() {
	if b.m.rules.State() != roundstate.Running {
		b.Point.CancelBombPlanted()
		b.transition(bombstate.Active)
		return
	}

	now := b.m.now()
	kept := b.defusers[:0]
	for _, d := range b.defusers {
		if b.canDefuse(d.p) && !now.After(d.timeoutAt) {
			kept = append(kept, d)
		}
	}
	b.defusers = kept
	b.Point.BombBeingDefused = len(b.defusers) > 0

	for _, d := range b.defusers {
		if !now.Before(d.completeAt) {
			b.defused(d.p)
			return
		}
	}

	if len(b.defusers) == 0 && !now.Before(b.explodeAt) {
		b.explode()
	}
}

func (b *BombTarget) defused(p *Player) {
	b.Point.bombDisarmed()
	b.transition(bombstate.Active)

	p.addScore(func(s *Stats) { s.BombsDefused++ }, 1)
	b.m.fire(event.BombDefused, "target", b.Name, "point", b.Point.Name, "player", p.ID, "team", p.Team)
}

func (b *BombTarget) explode() {
	planter, bombingTeam := b.planter, b.plantingTeam
	s := &b.m.Settings

	b.m.host.RadiusDamage(b.Origin, s.BombDamageRadius, s.BombDamage, planter)
	b.m.host.RadiusStun(b.Origin, s.BombStunRadius, s.BombStun)

	var planterID int32 = -1
	if planter != nil {
		planterID = planter.ID
	}
	b.m.fire(event.BombExploded, "target", b.Name, "point", b.Point.Name, "player", planterID, "team", bombingTeam)

	if b.Point.BombsRemaining-1 <= 0 {
		b.transition(bombstate.Inactive)
	} else {
		b.transition(bombstate.Active)
	}

	b.Point.bombExploded(planter, bombingTeam)

	// the point changed hands: its other targets have nothing left to destroy
	if b.Point.Owner == bombingTeam {
		for _, other := range b.m.bombs {
			if other != b && other.Point == b.Point && other.state == bombstate.Active {
				other.transition(bombstate.Inactive)
			}
		}
	}

	if b.AddSeconds > 0 {
		b.m.rules.AddTimerSeconds(b.AddSeconds)
	}
}

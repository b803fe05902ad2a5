package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

// ControlPoint is a capturable objective with team ownership. Areas and bomb targets drive its owner.
type ControlPoint struct {
	Index         int     `json:"index"`
	Name          string  `json:"name"`
	DefaultOwner  team.ID `json:"default_owner"`
	Owner         team.ID `json:"owner"`
	Visible       bool    `json:"visible"`
	PointValue    int     `json:"point_value"` // team score for capturing it
	BombsRequired int     `json:"bombs_required"`

	BombsRemaining   int       `json:"bombs_remaining"`
	BombPlanted      bool      `json:"bomb_planted"`
	BombBeingDefused bool      `json:"bomb_being_defused"`
	BombExplodeTime  time.Time `json:"bomb_explode_time,omitempty"`

	m *Match
}

// RoundInit puts the point back into its level start condition.
func (cp *ControlPoint) RoundInit() {
	cp.Owner = cp.DefaultOwner
	cp.BombsRemaining = cp.BombsRequired
	cp.BombPlanted = false
	cp.BombBeingDefused = false
	cp.BombExplodeTime = time.Time{}
}

// SetOwner hands the point to newOwner. The first of cappers is reported by name, all of them are credited.
func (cp *ControlPoint) SetOwner(newOwner team.ID, cappers []*Player) {
	if cp.Owner == newOwner {
		return
	}
	cp.Owner = newOwner

	if t, ok := cp.m.teams[newOwner]; ok && newOwner.IsPlaying() {
		t.Score += cp.PointValue
	}

	capper := ""
	for i, p := range cappers {
		if i == 0 {
			capper = p.Name
		}
		p.addScore(func(s *Stats) { s.Captures++ }, 1)
	}

	cp.m.fire(event.PointCaptured, "point", cp.Name, "team", newOwner, "capper", capper, "cappers", len(cappers))
	cp.m.checkWinConditions()
}

// CaptureBlocked credits p with preventing a capture of this point.
func (cp *ControlPoint) CaptureBlocked(p *Player) {
	p.addScore(func(s *Stats) { s.Blocks++ }, 1)
	cp.m.fire(event.CaptureBlocked, "point", cp.Name, "player", p.ID, "team", p.Team)
}

func (cp *ControlPoint) bombPlanted(explodeAt time.Time) {
	cp.BombPlanted = true
	cp.BombExplodeTime = explodeAt
}

func (cp *ControlPoint) bombDisarmed() {
	cp.BombPlanted = false
	cp.BombBeingDefused = false
	cp.BombExplodeTime = time.Time{}
}

// CancelBombPlanted clears the planted state without crediting anyone.
func (cp *ControlPoint) CancelBombPlanted() { cp.bombDisarmed() }

// bombExploded counts the detonation and flips the point to the bombing team once enough bombs went off.
func (cp *ControlPoint) bombExploded(planter *Player, bombingTeam team.ID) {
	cp.bombDisarmed()
	if cp.BombsRemaining > 0 {
		cp.BombsRemaining--
	}
	if cp.BombsRemaining > 0 {
		return
	}
	var cappers []*Player
	if planter != nil {
		cappers = append(cappers, planter)
	}
	cp.SetOwner(bombingTeam, cappers)
}

package game

import "github.com/sauerbraten/frontline/internal/definitions/team"

// GamePlay is a level variant. Its respawn factors stretch or shorten the waves of each team.
type GamePlay struct {
	Name                string  `json:"name"`
	Master              *Master `json:"-"` // variant applies while this master is active; nil means always
	AlliesRespawnFactor float64 `json:"allies_respawn_factor"`
	AxisRespawnFactor   float64 `json:"axis_respawn_factor"`
}

var defaultGamePlay = GamePlay{
	Name:                "default",
	AlliesRespawnFactor: 1,
	AxisRespawnFactor:   1,
}

func (g *GamePlay) RespawnFactor(t team.ID) float64 {
	var f float64
	switch t {
	case team.Allies:
		f = g.AlliesRespawnFactor
	case team.Axis:
		f = g.AxisRespawnFactor
	}
	if f <= 0 {
		return 1
	}
	return f
}

// detectGamePlay picks the first variant whose master is active.
func detectGamePlay(variants []*GamePlay) *GamePlay {
	for _, g := range variants {
		if g.Master == nil || g.Master.Active {
			return g
		}
	}
	gp := defaultGamePlay
	return &gp
}

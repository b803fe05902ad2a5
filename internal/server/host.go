package server

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/geom"
)

// The methods in this file make Server a game.Host. The match calls them from the loop goroutine only.

var _ game.Host = (*Server)(nil)

func (s *Server) Now() time.Time { return s.clock.Now() }

func (s *Server) Fire(typ event.Type, args ...interface{}) {
	s.sink.Fire(typ, args...)
	if typ == event.GameOver {
		s.startIntermission()
	}
}

// Area effects are applied by the engine, which learns about them through the event log.

func (s *Server) RadiusDamage(origin geom.Vector, radius, damage float64, attacker *game.Player) {
	var attackerID int32 = -1
	if attacker != nil {
		attackerID = attacker.ID
	}
	s.sink.Fire(event.RadiusDamage, "origin", origin, "radius", radius, "damage", damage, "attacker", attackerID)
}

func (s *Server) RadiusStun(origin geom.Vector, radius, magnitude float64) {
	s.sink.Fire(event.RadiusStun, "origin", origin, "radius", radius, "magnitude", magnitude)
}

func (s *Server) Respawn(p *game.Player) {
	s.log.Debug("respawning player", "player", p.ID, "team", p.Team, "class", p.Class)
}

// PlayersInArea returns the players the engine last reported inside a's trigger volume.
func (s *Server) PlayersInArea(a *game.AreaCapture) []*game.Player {
	ids := s.occupants[a.Name]
	players := make([]*game.Player, 0, len(ids))
	for _, id := range ids {
		p, err := s.match.Player(id)
		if err != nil {
			continue
		}
		players = append(players, p)
	}
	return players
}

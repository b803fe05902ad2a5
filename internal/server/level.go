package server

import (
	"context"

	"github.com/ivahaev/timer"

	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/mapdata"
	"github.com/sauerbraten/frontline/internal/maprotation"
)

// ChangeMap loads a level right away. The connected players move over to the new match.
func (s *Server) ChangeMap(ctx context.Context, name string) error {
	return s.exec(ctx, func() error { return s.loadLevel(name) })
}

// QueueMap makes name the next level after the ones already queued.
func (s *Server) QueueMap(ctx context.Context, name string) error {
	return s.exec(ctx, func() error { return s.rotation.QueueMap(name) })
}

func (s *Server) loadLevel(name string) error {
	layout, err := mapdata.LoadMap(s.cfg.MapDir, name)
	if err != nil {
		return err
	}

	s.stopIntermission()
	id := s.events.NewMatch()
	m := game.NewMatch(s, s.cfg.Settings, s.log.With("map", layout.Map))
	layout.Apply(m, s.log)

	if s.match != nil {
		for _, p := range s.match.Players() {
			if !p.Connected {
				continue
			}
			if _, err := m.Join(p.ID, p.Name, p.Team); err != nil {
				s.log.Warn("could not move player to new map", "player", p.ID, "error", err)
				continue
			}
			if p.HasClass() {
				m.SetClass(p.ID, p.Class)
			}
		}
	}

	s.match = m
	s.mapName = layout.Map
	s.kind = kindOf(s.rotation, layout)
	s.occupants = map[string][]int32{}
	m.Start()

	s.log.Info("changed map", "map", s.mapName, "kind", s.kind, "match", id)
	return nil
}

// kindOf decides which pool a level continues in: its own pool, or detonation for levels with bomb targets.
func kindOf(r *maprotation.Rotation, l *mapdata.Layout) maprotation.Kind {
	if k, ok := r.KindOf(l.Map); ok {
		return k
	}
	if len(l.BombTargets) > 0 {
		return maprotation.Detonation
	}
	return maprotation.Flags
}

func (s *Server) startIntermission() {
	if s.intermission != nil {
		return
	}
	s.log.Info("intermission", "map", s.mapName, "length", s.cfg.Intermission)
	s.intermissionEnd = s.clock.Now().Add(s.cfg.Intermission)
	var t *timer.Timer
	t = timer.AfterFunc(s.cfg.Intermission, func() {
		s.post(func() { s.endIntermission(t) })
	})
	s.intermission = t
	t.Start()
}

func (s *Server) endIntermission(t *timer.Timer) {
	if s.intermission != t {
		// a map change got there first
		return
	}
	s.intermission = nil

	next := s.rotation.NextMap(s.kind, s.mapName)
	if err := s.loadLevel(next); err != nil {
		s.log.Error("could not load next map, restarting current one", "map", next, "error", err)
		if err := s.loadLevel(s.mapName); err != nil {
			s.log.Error("could not reload map", "map", s.mapName, "error", err)
		}
	}
}

func (s *Server) stopIntermission() {
	if s.intermission == nil {
		return
	}
	s.intermission.Stop()
	s.intermission = nil
}

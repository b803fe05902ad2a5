package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/bombstate"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

// Snapshot is a read-only copy of the match state, safe to hand to other goroutines.
type Snapshot struct {
	State          roundstate.ID       `json:"state"`
	Warmup         bool                `json:"warmup"`
	GameOverReason string              `json:"game_over_reason,omitempty"`
	TimerSeconds   *float64            `json:"timer_seconds,omitempty"`
	TimeLeft       *float64            `json:"time_left,omitempty"`
	Teams          []TeamSnapshot      `json:"teams"`
	Players        []Player            `json:"players"`
	Points         []ControlPoint      `json:"points"`
	Areas          []AreaSnapshot      `json:"areas"`
	BombTargets    []BombSnapshot      `json:"bomb_targets"`
	Waves          map[team.ID][]int64 `json:"waves"` // unix millis
}

type TeamSnapshot struct {
	Team
	Players              int  `json:"players"`
	ReinforcementSeconds int  `json:"reinforcement_seconds"`
	Bombing              bool `json:"bombing"`
}

type AreaSnapshot struct {
	Name          string  `json:"name"`
	Point         string  `json:"point,omitempty"`
	Enabled       bool    `json:"enabled"`
	Capturing     team.ID `json:"capturing"`
	TimeRemaining float64 `json:"time_remaining"`
	Attempt       int     `json:"attempt"`
	Allies        int     `json:"allies"`
	Axis          int     `json:"axis"`
}

type BombSnapshot struct {
	Name      string       `json:"name"`
	Point     string       `json:"point,omitempty"`
	State     bombstate.ID `json:"state"`
	Enabled   bool         `json:"enabled"`
	ExplodeAt *time.Time   `json:"explode_at,omitempty"`
	Defusers  []int32      `json:"defusers,omitempty"`
}

func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		State:          m.rules.State(),
		Warmup:         m.rules.InWarmup(),
		GameOverReason: m.rules.GameOverReason(),
		Waves:          map[team.ID][]int64{},
	}

	if t := m.rules.RoundTimer(); t != nil {
		secs := t.TimeLeft().Seconds()
		s.TimerSeconds = &secs
	}
	if left, ok := m.rules.TimeLeft(); ok {
		secs := left.Seconds()
		s.TimeLeft = &secs
	}

	eligible := m.now().Add(m.Settings.DeathCamTime.Duration())
	for _, t := range team.Playing {
		tm := m.teams[t]
		s.Teams = append(s.Teams, TeamSnapshot{
			Team:                 *tm,
			Players:              tm.NumPlayers(),
			ReinforcementSeconds: m.ReinforcementSeconds(t, eligible),
			Bombing:              m.rules.IsBombing(t),
		})
		for _, w := range m.waves.Waves(t) {
			s.Waves[t] = append(s.Waves[t], w.UnixMilli())
		}
	}

	for _, p := range m.Players() {
		s.Players = append(s.Players, *p)
	}
	for _, cp := range m.points {
		s.Points = append(s.Points, *cp)
	}
	for _, a := range m.areas {
		as := AreaSnapshot{
			Name:          a.Name,
			Enabled:       a.enabled,
			Capturing:     a.capturingTeam,
			TimeRemaining: a.timeRemaining.Seconds(),
			Attempt:       a.attempt,
			Allies:        a.counts[team.Allies],
			Axis:          a.counts[team.Axis],
		}
		if a.Point != nil {
			as.Point = a.Point.Name
		}
		s.Areas = append(s.Areas, as)
	}
	for _, b := range m.bombs {
		bs := BombSnapshot{
			Name:    b.Name,
			State:   b.state,
			Enabled: b.enabled,
		}
		if b.Point != nil {
			bs.Point = b.Point.Name
		}
		if b.state == bombstate.Armed {
			at := b.explodeAt
			bs.ExplodeAt = &at
		}
		for _, p := range b.Defusers() {
			bs.Defusers = append(bs.Defusers, p.ID)
		}
		s.BombTargets = append(s.BombTargets, bs)
	}
	return s
}

package game

import (
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

// Master decides the round from the ownership of its control points and optionally owns the round timer.
type Master struct {
	Name         string          `json:"name"`
	Active       bool            `json:"active"`
	Points       []*ControlPoint `json:"-"` // empty means every point of the level
	UseTimer     bool            `json:"use_timer"`
	TimerLength  Seconds         `json:"timer_length"`
	TimerWinTeam team.ID         `json:"timer_win_team"` // wins when the round timer runs out

	m *Match
}

func (ms *Master) points() []*ControlPoint {
	if len(ms.Points) > 0 {
		return ms.Points
	}
	return ms.m.points
}

func (ms *Master) RoundInit() {
	if len(ms.points()) == 0 {
		ms.m.log.Warn("master has no control points", "master", ms.Name)
	}
}

// RoundStart is called when the round goes live.
func (ms *Master) RoundStart() {
	if ms.UseTimer && ms.m.rules.timer != nil {
		ms.m.log.Debug("round timer started", "master", ms.Name, "length", ms.TimerLength.Duration())
	}
}

func (ms *Master) ownsAll(t team.ID, override *ControlPoint) bool {
	n := 0
	for _, cp := range ms.points() {
		if !cp.Visible {
			continue
		}
		n++
		owner := cp.Owner
		if cp == override {
			owner = t
		}
		if owner != t {
			return false
		}
	}
	return n > 0
}

// CheckWinConditions declares a team the winner once it owns every visible point.
func (ms *Master) CheckWinConditions() {
	if !ms.Active {
		return
	}
	for _, t := range team.Playing {
		if ms.ownsAll(t, nil) {
			ms.m.rules.DeclareWinner(t)
			return
		}
	}
}

// WouldNewOwnerWin reports whether handing cp to t would make t own every point.
func (ms *Master) WouldNewOwnerWin(cp *ControlPoint, t team.ID) bool {
	return ms.ownsAll(t, cp)
}

// CountAdvantageFlags is the number of points t holds beyond its default share. Negative when t lost some of its own.
func (ms *Master) CountAdvantageFlags(t team.ID) int {
	return countAdvantageFlags(ms.points(), t)
}

func countAdvantageFlags(points []*ControlPoint, t team.ID) int {
	n := 0
	for _, cp := range points {
		switch {
		case cp.Owner == t && cp.DefaultOwner != t:
			n++
		case cp.DefaultOwner == t && cp.Owner != t:
			n--
		}
	}
	return n
}

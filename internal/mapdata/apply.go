package mapdata

import (
	"log/slog"

	"github.com/sauerbraten/frontline/internal/game"
)

// Apply adds the layout's objectives to m, binding areas, bomb targets, masters and gameplay variants to
// their points by name. A reference to an unknown objective is logged and left unbound; the objective then
// disables itself at round start.
func (l *Layout) Apply(m *game.Match, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("map", l.Map)

	points := map[string]*game.ControlPoint{}
	for _, p := range l.Points {
		owner, _ := parseTeam(p.DefaultOwner, true)
		points[p.Name] = m.AddPoint(&game.ControlPoint{
			Name:          p.Name,
			DefaultOwner:  owner,
			Owner:         owner,
			Visible:       !p.Hidden,
			PointValue:    p.PointValue,
			BombsRequired: p.BombsRequired,
		})
	}

	lookup := func(kind, name, ref string) *game.ControlPoint {
		if ref == "" {
			logger.Warn("no control point set", kind, name)
			return nil
		}
		cp, ok := points[ref]
		if !ok {
			logger.Warn("could not find control point", kind, name, "point", ref)
		}
		return cp
	}

	masters := map[string]*game.Master{}
	for _, ms := range l.Masters {
		master := &game.Master{
			Name:   ms.Name,
			Active: !ms.Inactive,
		}
		for _, ref := range ms.Points {
			if cp := lookup("master", ms.Name, ref); cp != nil {
				master.Points = append(master.Points, cp)
			}
		}
		if ms.Timer != nil {
			master.UseTimer = true
			master.TimerLength = game.Seconds(ms.Timer.Length)
			master.TimerWinTeam, _ = parseTeam(ms.Timer.WinTeam, false)
		}
		masters[ms.Name] = m.AddMaster(master)
	}

	for _, a := range l.Areas {
		area := m.AddArea(game.NewAreaCapture(a.Name, lookup("area", a.Name, a.Point), game.Seconds(a.CapTime)))
		for name, n := range a.Cappers {
			t, _ := parseTeam(name, false)
			area.SetRequiredCappers(t, n)
		}
		for _, name := range a.NoCapFor {
			t, _ := parseTeam(name, false)
			area.SetCanCap(t, false)
		}
		if a.Disabled {
			area.SetEnabled(false)
		}
	}

	for _, b := range l.BombTargets {
		bombingTeam, _ := parseTeam(b.BombingTeam, true)
		target := m.AddBombTarget(game.NewBombTarget(b.Name, lookup("bomb target", b.Name, b.Point), bombingTeam, b.Origin))
		target.AddSeconds = game.Seconds(b.AddSeconds)
		if b.Disabled {
			target.SetEnabled(false)
		}
	}

	for _, g := range l.GamePlay {
		variant := &game.GamePlay{
			Name:                g.Name,
			AlliesRespawnFactor: g.AlliesRespawnFactor,
			AxisRespawnFactor:   g.AxisRespawnFactor,
		}
		if g.Master != "" {
			ms, ok := masters[g.Master]
			if !ok {
				logger.Warn("could not find master of gameplay variant, ignoring variant", "gameplay", g.Name, "master", g.Master)
				continue
			}
			variant.Master = ms
		}
		m.AddGamePlay(variant)
	}

	logger.Info("level loaded",
		"points", len(l.Points),
		"masters", len(l.Masters),
		"areas", len(l.Areas),
		"bomb_targets", len(l.BombTargets),
	)
}

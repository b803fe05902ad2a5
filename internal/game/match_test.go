package game

import (
	"encoding/json"
	"testing"

	"github.com/sauerbraten/frontline/internal/definitions/bombstate"
	"github.com/sauerbraten/frontline/internal/definitions/playerstate"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
)

func TestJoinBalancesTeams(t *testing.T) {
	m, _ := newTestMatch(t)
	join(t, m, 1, team.Allies)
	join(t, m, 2, team.Allies)

	p, err := m.Join(3, "auto", -1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Team != team.Axis {
		t.Errorf("auto team = %s, want the smaller axis", p.Team)
	}
	if p.State != playerstate.Dead || p.HasClass() {
		t.Errorf("new player: state %s, has class %t", p.State, p.HasClass())
	}

	if _, err := m.Join(4, "nobody", team.ID(42)); err != ErrInvalidTeam {
		t.Errorf("err = %v, want ErrInvalidTeam", err)
	}
}

func TestChangeTeam(t *testing.T) {
	m, h := newTestMatch(t)
	p := join(t, m, 1, team.Allies)
	join(t, m, 2, team.Axis)
	startRound(t, m, h)

	if err := m.ChangeTeam(p.ID, team.Axis); err != nil {
		t.Fatal(err)
	}
	if p.Team != team.Axis || p.Class != "" || p.IsAlive() {
		t.Errorf("after switching: team %s, class %q, state %s", p.Team, p.Class, p.State)
	}
	if p.MatchStats.Deaths != 1 {
		t.Errorf("switching teams alive did not count a death")
	}
	if m.Team(team.Allies).NumPlayers() != 0 || m.Team(team.Axis).NumPlayers() != 2 {
		t.Error("team rosters not updated")
	}

	if err := m.ChangeTeam(p.ID, team.Spectator); err != nil {
		t.Fatal(err)
	}
	if p.State != playerstate.Spectator {
		t.Errorf("spectator state = %s", p.State)
	}
	if err := m.SetClass(p.ID, "rifleman"); err != ErrInvalidTeam {
		t.Errorf("spectator picked a class: %v", err)
	}
	if err := m.ChangeTeam(99, team.Axis); err != ErrUnknownPlayer {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestSetClassDuringRoundJoinsWave(t *testing.T) {
	m, h := newTestMatch(t)
	join(t, m, 1, team.Allies)
	startRound(t, m, h)

	p, _ := m.Join(2, "late", team.Allies)
	if err := m.SetClass(p.ID, "medic"); err != nil {
		t.Fatal(err)
	}
	if p.IsAlive() {
		t.Fatal("late joiner spawned right away")
	}
	if m.Waves().Live(team.Allies) != 1 {
		t.Fatalf("late joiner has no wave")
	}
	if !tickUntil(m, h, m.Settings.MaxWaveRespawnTime.Duration(), p.IsAlive) {
		t.Error("late joiner never spawned")
	}
}

func TestUpdatePlayer(t *testing.T) {
	m, _ := newTestMatch(t)
	p := join(t, m, 1, team.Allies)

	pos := geom.NewVector(1, 2, 3)
	if err := m.UpdatePlayer(1, pos, false); err != nil {
		t.Fatal(err)
	}
	if p.Position != pos || p.OnGround {
		t.Errorf("position %v, on ground %t", p.Position, p.OnGround)
	}
	if err := m.UpdatePlayer(2, pos, true); err != ErrUnknownPlayer {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestAdminObjectiveControls(t *testing.T) {
	m, h := newTestMatch(t)
	_, a := captureLevel(m)
	join(t, m, 1, team.Allies)
	startRound(t, m, h)

	if err := m.SetPointOwner("FLAG", team.Allies); err != nil {
		t.Fatal(err)
	}
	if cp, _ := m.Point("flag"); cp.Owner != team.Allies {
		t.Errorf("flag owner = %s, want allies", cp.Owner)
	}
	if err := m.SetPointOwner("flag", team.Spectator); err != ErrInvalidTeam {
		t.Errorf("err = %v, want ErrInvalidTeam", err)
	}

	if err := m.SetMasterActive("master", false); err != nil {
		t.Fatal(err)
	}
	if err := m.SetPointOwner("church", team.Allies); err != nil {
		t.Fatal(err)
	}
	if m.Rules().State() != roundstate.Running {
		t.Errorf("inactive master ended the round, state %s", m.Rules().State())
	}
	if _, err := m.Master("nope"); err != ErrUnknownObjective {
		t.Errorf("err = %v, want ErrUnknownObjective", err)
	}
	if a.Point == nil {
		t.Fatal("area lost its point")
	}
}

func TestSnapshot(t *testing.T) {
	m, h := newTestMatch(t)
	_, a := captureLevel(m)
	_, b := bombLevel(m, 1)
	a1 := join(t, m, 1, team.Allies)
	x1 := join(t, m, 2, team.Axis)
	startRound(t, m, h)

	h.enter(a, a1)
	tick(m, h)
	b.CompletePlanting(a1)
	m.PlayerKilled(x1.ID, a1.ID)

	s := m.Snapshot()
	if len(s.Players) != 2 || len(s.Teams) != 2 {
		t.Fatalf("%d players and %d teams in snapshot", len(s.Players), len(s.Teams))
	}
	if len(s.Areas) != 1 || s.Areas[0].Capturing != team.Allies || s.Areas[0].Allies != 1 {
		t.Errorf("area snapshot = %+v", s.Areas)
	}
	if len(s.BombTargets) != 1 || s.BombTargets[0].State != bombstate.Armed || s.BombTargets[0].ExplodeAt == nil {
		t.Errorf("bomb snapshot = %+v", s.BombTargets)
	}
	if len(s.Waves[team.Axis]) != 1 {
		t.Errorf("axis waves = %v, want one", s.Waves[team.Axis])
	}
	for _, ts := range s.Teams {
		if ts.ID == team.Allies && !ts.Bombing {
			t.Error("allies not shown as bombing")
		}
	}

	// the copy doesn't follow the match
	a1.Name = "renamed"
	if s.Players[0].Name == "renamed" {
		t.Error("snapshot shares players with the match")
	}

	buf, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["state"] != "running" {
		t.Errorf("state in JSON = %v", decoded["state"])
	}
	if _, ok := decoded["waves"].(map[string]interface{})["axis"]; !ok {
		t.Errorf("waves in JSON = %v", decoded["waves"])
	}
}

func TestDeathAnimation(t *testing.T) {
	m, h := newTestMatch(t)
	p := join(t, m, 1, team.Allies)
	join(t, m, 2, team.Axis)
	startRound(t, m, h)

	m.PlayerKilled(p.ID, 2)
	if p.State != playerstate.DeathAnim {
		t.Fatalf("state = %s after dying, want death animation", p.State)
	}
	tickFor(m, h, deathAnimLength-step)
	if p.State != playerstate.DeathAnim {
		t.Fatal("death animation ended early")
	}
	tickFor(m, h, 2*step)
	if p.State != playerstate.Dead {
		t.Errorf("state = %s, want dead", p.State)
	}

	if err := m.PlayerKilled(p.ID, 2); err != nil {
		t.Fatal(err)
	}
	if p.MatchStats.Deaths != 1 {
		t.Error("dead player died again")
	}
}

func TestAutoTeamTie(t *testing.T) {
	m, _ := newTestMatch(t)
	teams := BySizeAndScore{m.Team(team.Allies), m.Team(team.Axis)}
	if teams.Less(0, 1) || teams.Less(1, 0) {
		t.Fatal("equal teams compare as unequal")
	}

	seen := map[team.ID]bool{}
	for i := 0; i < 200; i++ {
		seen[m.autoTeam()] = true
	}
	if len(seen) != 2 || !seen[team.Allies] || !seen[team.Axis] {
		t.Errorf("auto team picked %v for a full tie, want both teams", seen)
	}

	m.Team(team.Axis).Score = 1
	for i := 0; i < 20; i++ {
		if got := m.autoTeam(); got != team.Allies {
			t.Fatalf("auto team = %s, want allies with the lower score", got)
		}
	}
}

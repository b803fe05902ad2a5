package game

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/playerstate"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
	"github.com/sauerbraten/frontline/internal/rng"
)

var (
	ErrUnknownPlayer    = errors.New("game: unknown player")
	ErrUnknownObjective = errors.New("game: unknown objective")
	ErrInvalidTeam      = errors.New("game: invalid team")
)

// how long a killed player plays their death animation before they count as plainly dead
const deathAnimLength = 3 * time.Second

// Match holds everything that lives for one level: teams, players, objectives and the rules driving them.
// It is not safe for concurrent use; the host calls into it from a single goroutine.
type Match struct {
	Settings Settings

	host Host
	log  *slog.Logger

	teams   map[team.ID]*Team
	players map[int32]*Player

	points   []*ControlPoint
	masters  []*Master
	areas    []*AreaCapture
	bombs    []*BombTarget
	gameplay []*GamePlay

	waves *WaveScheduler
	rules *Rules
}

func NewMatch(host Host, settings Settings, logger *slog.Logger) *Match {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Match{
		Settings: settings,
		host:     host,
		log:      logger,
		teams:    map[team.ID]*Team{},
		players:  map[int32]*Player{},
	}
	for _, t := range []team.ID{team.None, team.Spectator, team.Allies, team.Axis} {
		m.teams[t] = NewTeam(t)
	}
	m.waves = newWaveScheduler(m, settings.WaveQueueSize)
	m.rules = newRules(m)
	return m
}

func (m *Match) now() time.Time { return m.host.Now() }

func (m *Match) fire(typ event.Type, args ...interface{}) { m.host.Fire(typ, args...) }

func (m *Match) Rules() *Rules { return m.rules }

func (m *Match) Waves() *WaveScheduler { return m.waves }

func (m *Match) Team(t team.ID) *Team { return m.teams[t] }

// level wiring

func (m *Match) AddPoint(cp *ControlPoint) *ControlPoint {
	cp.m = m
	cp.Index = len(m.points)
	if cp.BombsRemaining == 0 {
		cp.BombsRemaining = cp.BombsRequired
	}
	m.points = append(m.points, cp)
	return cp
}

func (m *Match) AddMaster(ms *Master) *Master {
	ms.m = m
	m.masters = append(m.masters, ms)
	return ms
}

func (m *Match) AddArea(a *AreaCapture) *AreaCapture {
	a.m = m
	m.areas = append(m.areas, a)
	return a
}

func (m *Match) AddBombTarget(b *BombTarget) *BombTarget {
	b.m = m
	m.bombs = append(m.bombs, b)
	return b
}

func (m *Match) AddGamePlay(g *GamePlay) *GamePlay {
	m.gameplay = append(m.gameplay, g)
	return g
}

func (m *Match) Point(name string) (*ControlPoint, error) {
	for _, cp := range m.points {
		if strings.EqualFold(cp.Name, name) {
			return cp, nil
		}
	}
	return nil, ErrUnknownObjective
}

func (m *Match) Master(name string) (*Master, error) {
	for _, ms := range m.masters {
		if strings.EqualFold(ms.Name, name) {
			return ms, nil
		}
	}
	return nil, ErrUnknownObjective
}

func (m *Match) Area(name string) (*AreaCapture, error) {
	for _, a := range m.areas {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return nil, ErrUnknownObjective
}

func (m *Match) BombTarget(name string) (*BombTarget, error) {
	for _, b := range m.bombs {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, ErrUnknownObjective
}

func (m *Match) Areas() []*AreaCapture { return m.areas }

func (m *Match) BombTargets() []*BombTarget { return m.bombs }

func (m *Match) Points() []*ControlPoint { return m.points }

// activeMaster is the first active master, or nil.
func (m *Match) activeMaster() *Master {
	for _, ms := range m.masters {
		if ms.Active {
			return ms
		}
	}
	return nil
}

func (m *Match) checkWinConditions() {
	if m.rules.State() != roundstate.Running {
		return
	}
	for _, ms := range m.masters {
		ms.CheckWinConditions()
		if m.rules.State() != roundstate.Running {
			return
		}
	}
}

// Start puts the rules into their initial state. Call it once after the level is wired.
func (m *Match) Start() {
	m.rules.transition(roundstate.Init)
}

// Tick advances the simulation by one frame: rules first, then bomb targets, then capture areas.
func (m *Match) Tick() {
	now := m.now()
	for _, p := range m.players {
		if p.State == playerstate.DeathAnim && !now.Before(p.DeathTime.Add(deathAnimLength)) {
			p.State = playerstate.Dead
		}
	}

	m.rules.think()
	for _, b := range m.bombs {
		b.think()
	}
	for _, a := range m.areas {
		a.think()
	}
}

// players

func (m *Match) Player(id int32) (*Player, error) {
	p, ok := m.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	return p, nil
}

// Players returns all players ordered by ID.
func (m *Match) Players() []*Player {
	players := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// Join adds a player. A negative preferred team picks the smaller team.
func (m *Match) Join(id int32, name string, preferred team.ID) (*Player, error) {
	if p, ok := m.players[id]; ok {
		p.Name = name
		p.Connected = true
		return p, nil
	}
	p := newPlayer(id, name)
	m.players[id] = p
	m.teams[team.None].Add(p)

	if preferred < 0 {
		preferred = m.autoTeam()
	}
	if err := m.ChangeTeam(id, preferred); err != nil {
		return p, err
	}
	return p, nil
}

func (m *Match) autoTeam() team.ID {
	teams := BySizeAndScore{m.teams[team.Allies], m.teams[team.Axis]}
	sort.Sort(teams)
	if !teams.Less(0, 1) && !teams.Less(1, 0) && rng.Coin() {
		// full tie
		return teams[1].ID
	}
	return teams[0].ID
}

func (m *Match) Leave(id int32) error {
	p, ok := m.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	p.Connected = false
	m.dropObjectives(p, nil)
	m.teams[p.Team].Remove(p)
	delete(m.players, id)
	return nil
}

func (m *Match) ChangeTeam(id int32, t team.ID) error {
	p, ok := m.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	newTeam, ok := m.teams[t]
	if !ok {
		return ErrInvalidTeam
	}
	if p.Team == t {
		return nil
	}

	if p.IsAlive() {
		m.killed(p, nil)
	}
	m.dropObjectives(p, nil)
	m.teams[p.Team].Remove(p)
	newTeam.Add(p)
	p.Class = ""

	if t.IsPlaying() {
		p.State = playerstate.Dead
	} else {
		p.State = playerstate.Spectator
	}
	return nil
}

// SetClass picks p's class. Dead players get a wave to join, or spawn right away while the round isn't live.
func (m *Match) SetClass(id int32, class string) error {
	p, ok := m.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.Team.IsPlaying() {
		return ErrInvalidTeam
	}
	p.Class = class
	if p.IsAlive() || class == "" {
		return nil
	}

	switch m.rules.State() {
	case roundstate.Init, roundstate.Pregame, roundstate.StartGame:
		m.respawn(p)
	default:
		m.waves.CreateOrJoinWave(p)
	}
	return nil
}

// UpdatePlayer records what the engine knows about p's body.
func (m *Match) UpdatePlayer(id int32, position geom.Vector, onGround bool) error {
	p, ok := m.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	p.Position = position
	p.OnGround = onGround
	return nil
}

// PlayerKilled handles a death: block credit in capture areas and at bomb targets, stats, and a respawn wave.
func (m *Match) PlayerKilled(victimID, killerID int32) error {
	victim, ok := m.players[victimID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !victim.IsAlive() {
		return nil
	}
	killer := m.players[killerID]
	m.killed(victim, killer)
	return nil
}

func (m *Match) killed(victim, killer *Player) {
	for _, a := range m.areas {
		if a.CheckIfDeathCausesBlock(victim, killer) {
			break
		}
	}
	m.dropObjectives(victim, killer)

	victim.die(m.now())

	if killer != nil && killer != victim && killer.Team != victim.Team && !m.rules.InWarmup() {
		killer.addScore(func(s *Stats) { s.Kills++ }, 1)
	}

	if victim.Team.IsPlaying() && victim.Class != "" {
		m.waves.CreateOrJoinWave(victim)
	}
}

// dropObjectives stops p's plants and defuses, crediting killer if there is one.
func (m *Match) dropObjectives(p, killer *Player) {
	for _, b := range m.bombs {
		if !b.DefuseBlocked(p, killer) {
			b.PlantBlocked(p, killer)
		}
	}
}

// Chat inspects a chat message for the ready signal.
func (m *Match) Chat(id int32, text string) error {
	p, ok := m.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if strings.EqualFold(strings.TrimSpace(text), m.Settings.ReadySignal) {
		m.rules.heardReady(p.Team)
	}
	return nil
}

// CountActivePlayers counts players on a playing team who picked a class.
func (m *Match) CountActivePlayers() int {
	n := 0
	for _, p := range m.players {
		if p.HasClass() {
			n++
		}
	}
	return n
}

// canRespawn reports whether p is waiting to spawn and has sat through the death cam.
func (m *Match) canRespawn(p *Player, now time.Time) bool {
	if !p.HasClass() || p.IsAlive() || !p.Connected {
		return false
	}
	if now.Before(p.DeathTime.Add(m.Settings.DeathCamTime.Duration())) {
		return false
	}
	return m.rules.State() == roundstate.Preround || p.State != playerstate.DeathAnim
}

func (m *Match) respawn(p *Player) {
	p.spawn()
	m.host.Respawn(p)
	m.fire(event.Respawn, "player", p.ID, "team", p.Team)
}

// respawnTeam spawns every waiting player of t and returns how many came back.
func (m *Match) respawnTeam(t team.ID) int {
	now := m.now()
	n := 0
	for _, p := range m.teams[t].sorted() {
		if m.canRespawn(p, now) {
			m.respawn(p)
			n++
		}
	}
	return n
}

// roundRespawn puts everyone with a class back into the world for a fresh round.
func (m *Match) roundRespawn() {
	for _, t := range team.Playing {
		for _, p := range m.teams[t].sorted() {
			p.RoundStats = Stats{}
			p.lastBlockArea, p.lastBlockAttempt = nil, 0
			if p.HasClass() && p.Connected {
				m.respawn(p)
			}
		}
	}
}

func (m *Match) resetScores() {
	for _, t := range m.teams {
		t.Score = 0
		t.RoundsWon = 0
	}
	for _, p := range m.players {
		p.MatchStats = Stats{}
		p.RoundStats = Stats{}
	}
}

// ReinforcementSeconds is the HUD countdown for a player of t who may respawn from eligible on.
func (m *Match) ReinforcementSeconds(t team.ID, eligible time.Time) int {
	return m.waves.ReinforcementSeconds(t, eligible)
}

// admin inputs

func (m *Match) RestartRound(seconds Seconds) { m.rules.RestartRound(seconds) }

func (m *Match) ReadyRestart() { m.rules.ReadyRestart() }

func (m *Match) StartWarmup() { m.rules.StartWarmup() }

func (m *Match) CancelWarmup() { m.rules.CancelWarmup() }

func (m *Match) AddTimerSeconds(s Seconds) { m.rules.AddTimerSeconds(s) }

func (m *Match) SetPointOwner(name string, t team.ID) error {
	cp, err := m.Point(name)
	if err != nil {
		return err
	}
	if t != team.None && !t.IsPlaying() {
		return ErrInvalidTeam
	}
	cp.SetOwner(t, nil)
	return nil
}

func (m *Match) SetAreaEnabled(name string, enabled bool) error {
	a, err := m.Area(name)
	if err != nil {
		return err
	}
	a.SetEnabled(enabled)
	return nil
}

func (m *Match) SetBombTargetEnabled(name string, enabled bool) error {
	b, err := m.BombTarget(name)
	if err != nil {
		return err
	}
	b.SetEnabled(enabled)
	return nil
}

func (m *Match) SetMasterActive(name string, active bool) error {
	ms, err := m.Master(name)
	if err != nil {
		return err
	}
	ms.Active = active
	return nil
}

package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/bombstate"
	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

const (
	startGameDelay     = 5 * time.Second
	firstPreroundDelay = 10 * time.Second
	preroundDelay      = 5 * time.Second
	periodicInterval   = time.Second
)

type roundState struct {
	name  string
	enter func(*Rules)
	leave func(*Rules)
	think func(*Rules)
}

var roundStates map[roundstate.ID]roundState

func init() {
	roundStates = map[roundstate.ID]roundState{
		roundstate.Init:      {name: "init", enter: (*Rules).enterInit, think: (*Rules).thinkInit},
		roundstate.Pregame:   {name: "pregame", think: (*Rules).thinkPregame},
		roundstate.StartGame: {name: "startgame", enter: (*Rules).enterStartGame, think: (*Rules).thinkStartGame},
		roundstate.Preround:  {name: "preround", enter: (*Rules).enterPreround, think: (*Rules).thinkPreround},
		roundstate.Running:   {name: "running", enter: (*Rules).enterRunning, leave: (*Rules).leaveRunning, think: (*Rules).thinkRunning},
		roundstate.AlliesWin: {name: "allies_win", enter: (*Rules).enterTeamWin, think: (*Rules).thinkTeamWin},
		roundstate.AxisWin:   {name: "axis_win", enter: (*Rules).enterTeamWin, think: (*Rules).thinkTeamWin},
		roundstate.Restart:   {name: "restart", enter: (*Rules).enterRestart},
		roundstate.GameOver:  {name: "game_over", enter: (*Rules).enterGameOver},
	}
}

// Rules is the round state machine. It is the only writer of the round state.
type Rules struct {
	m *Match

	state          roundstate.ID
	transitionAt   time.Time // when the current timed state moves on
	initialSpawn   bool      // the next preround is the first one of the game
	mapResetTime   time.Time
	nextPeriodic   time.Time
	variant        *GamePlay
	bombingTeams   map[team.ID]bool
	gameOverReason string

	timer          *RoundTimer
	timerWinTeam   team.ID
	warn1Minute    bool
	warn2Minutes   bool
	changeLevelEnd bool // level changes when this round ends

	restartRoundAt       time.Time // zero when no restart is pending
	awaitingReadyRestart bool

	warmup    bool
	warmupEnd time.Time
}

func newRules(m *Match) *Rules {
	return &Rules{
		m:            m,
		state:        roundstate.Init,
		bombingTeams: map[team.ID]bool{},
	}
}

func (r *Rules) State() roundstate.ID { return r.state }

func (r *Rules) InWarmup() bool { return r.warmup }

func (r *Rules) GameOverReason() string { return r.gameOverReason }

// RoundTimer returns the timer of the current round, or nil when no active master uses one.
func (r *Rules) RoundTimer() *RoundTimer { return r.timer }

// IsBombing reports whether t has an active bomb target to attack this round.
func (r *Rules) IsBombing(t team.ID) bool { return r.bombingTeams[t] }

func (r *Rules) gamePlay() *GamePlay {
	if r.variant == nil {
		gp := defaultGamePlay
		return &gp
	}
	return r.variant
}

func (r *Rules) transition(s roundstate.ID) {
	if cur, ok := roundStates[r.state]; ok && cur.leave != nil {
		cur.leave(r)
	}
	prev := r.state
	r.state = s
	next := roundStates[s]
	r.m.log.Debug("round state", "from", prev, "entering", next.name)
	if next.enter != nil {
		next.enter(r)
	}
}

func (r *Rules) think() {
	if r.state == roundstate.GameOver {
		return
	}

	if s := roundStates[r.state]; s.think != nil {
		s.think(r)
	}

	now := r.m.now()
	if now.After(r.nextPeriodic) {
		if r.checkTimeLimit() || r.checkWinLimit() {
			return
		}
		r.checkWarmup()
		r.nextPeriodic = now.Add(periodicInterval)
	}
}

func (r *Rules) delay(d time.Duration) time.Time {
	return r.m.now().Add(time.Duration(float64(d) * r.m.Settings.waitFactor()))
}

func (r *Rules) enterInit() {
	r.resetMapTime()
}

func (r *Rules) thinkInit() {
	r.transition(roundstate.Pregame)
}

func (r *Rules) thinkPregame() {
	if r.m.CountActivePlayers() > 0 {
		r.transition(roundstate.StartGame)
	}
}

func (r *Rules) enterStartGame() {
	r.transitionAt = r.delay(startGameDelay)
	r.initialSpawn = true
}

func (r *Rules) thinkStartGame() {
	if r.m.now().After(r.transitionAt) {
		if r.m.Settings.WarmupTime > 0 {
			r.setWarmup(true)
		}
		r.transition(roundstate.Preround)
	}
}

func (r *Rules) enterPreround() {
	if r.initialSpawn {
		r.transitionAt = r.delay(firstPreroundDelay)
		r.initialSpawn = false
	} else {
		r.transitionAt = r.delay(preroundDelay)
	}

	// a different variant may have become active at the end of the last round
	r.variant = detectGamePlay(r.m.gameplay)

	r.m.roundRespawn()

	// reset here, not at round restart, so players who die during the preround aren't lost
	r.m.waves.Reset()

	for _, cp := range r.m.points {
		cp.RoundInit()
	}

	if len(r.m.masters) == 0 {
		r.m.log.Warn("no control point master found in level, control points will not work as expected")
	}
	r.timer = nil
	for _, ms := range r.m.masters {
		ms.RoundInit()
		if r.timer != nil || !ms.Active || !ms.UseTimer {
			continue
		}
		if !ms.TimerWinTeam.IsPlaying() {
			r.m.log.Warn("round timer win team must be allies or axis, ignoring timer", "master", ms.Name, "team", ms.TimerWinTeam)
			continue
		}
		r.timer = NewRoundTimer(r.m.host, ms.TimerLength.Duration())
		r.timerWinTeam = ms.TimerWinTeam
		r.warn1Minute = r.timer.TimeLeft() > time.Minute
		r.warn2Minutes = r.timer.TimeLeft() > 2*time.Minute
	}

	for _, a := range r.m.areas {
		a.RoundInit()
	}
	for _, b := range r.m.bombs {
		b.RoundInit()
	}

	r.m.fire(event.RoundStart)

	r.bombingTeams = map[team.ID]bool{}
	for _, b := range r.m.bombs {
		if b.state == bombstate.Active && b.BombingTeam.IsPlaying() {
			r.bombingTeams[b.BombingTeam] = true
		}
	}
}

func (r *Rules) thinkPreround() {
	if r.m.now().After(r.transitionAt) {
		r.transition(roundstate.Running)
	}
	r.m.waves.drain()
}

func (r *Rules) enterRunning() {
	for _, ms := range r.m.masters {
		ms.RoundStart()
	}

	r.m.fire(event.RoundActive)

	if r.timer != nil {
		r.timer.Resume()
	}

	r.changeLevelEnd = false
}

func (r *Rules) thinkRunning() {
	if r.timer != nil {
		left := r.timer.TimeLeft()
		switch {
		case left <= 0:
			if !r.bombBlocksWin() {
				r.DeclareWinner(r.timerWinTeam)
				return
			}
		case left < time.Minute && r.warn1Minute:
			r.m.fire(event.TimerFlash, "time_remaining", 60)
			r.warn1Minute = false
		case left < 2*time.Minute && r.warn2Minutes:
			r.m.fire(event.TimerFlash, "time_remaining", 120)
			r.warn2Minutes = false
		}
	}

	if r.m.CountActivePlayers() <= 0 {
		r.transition(roundstate.Pregame)
		return
	}

	r.m.waves.drain()

	now := r.m.now()
	if !r.restartRoundAt.IsZero() && now.After(r.restartRoundAt) {
		r.restartRoundAt = time.Time{}
		r.transition(roundstate.Restart)
		return
	}

	if r.awaitingReadyRestart && r.m.teams[team.Allies].ready && r.m.teams[team.Axis].ready {
		r.restartRoundAt = now.Add(r.m.Settings.ReadyRestartDelay.Duration())
		r.awaitingReadyRestart = false
	}
}

// bombBlocksWin reports whether an armed bomb could still change the outcome of a round whose timer ran out:
// either by putting time back on the clock, or by flipping the last point its team needs.
func (r *Rules) bombBlocksWin() bool {
	for _, b := range r.m.bombs {
		if b.state != bombstate.Armed {
			continue
		}
		if b.AddSeconds > 0 {
			return true
		}
		if b.Point == nil || b.Point.BombsRemaining > 1 {
			continue
		}
		for _, ms := range r.m.masters {
			if ms.Active && ms.WouldNewOwnerWin(b.Point, b.plantingTeam) {
				return true
			}
		}
	}
	return false
}

func (r *Rules) enterTeamWin() {
	r.transitionAt = r.m.now().Add(r.m.Settings.bonusRoundTime())
	if r.timer != nil {
		r.timer.Pause()
	}
}

func (r *Rules) thinkTeamWin() {
	if r.m.now().After(r.transitionAt) {
		r.transition(roundstate.Preround)
	}
}

func (r *Rules) enterRestart() {
	r.fireTeamScores()
	r.m.fire(event.RestartRound)

	r.setWarmup(false)
	r.m.resetScores()
	r.resetMapTime()

	r.transition(roundstate.Preround)
}

// leaveRunning ends captures in progress right away instead of waiting for the areas' next think.
func (r *Rules) leaveRunning() {
	for _, a := range r.m.areas {
		a.breakCapture(false)
	}
}

func (r *Rules) enterGameOver() {
	if r.timer != nil {
		r.timer.Pause()
	}
	for _, a := range r.m.areas {
		a.breakCapture(false)
	}
}

// DeclareWinner ends the running round in favour of t. Only the two playing teams can win.
func (r *Rules) DeclareWinner(t team.ID) {
	if r.state != roundstate.Running {
		r.m.log.Debug("ignoring round winner outside of a running round", "team", t, "state", r.state)
		return
	}

	var next roundstate.ID
	switch t {
	case team.Allies:
		next = roundstate.AlliesWin
	case team.Axis:
		next = roundstate.AxisWin
	default:
		r.m.log.Warn("could not declare winner: not a playing team", "team", t)
		return
	}

	r.m.teams[t].RoundsWon++
	r.transition(next)
	r.m.fire(event.RoundWin, "team", t)
}

// AddTimerSeconds puts time on the round timer, if there is one.
func (r *Rules) AddTimerSeconds(s Seconds) {
	if r.timer == nil {
		return
	}
	r.timer.Add(s.Duration())
	left := r.timer.TimeLeft()
	r.warn1Minute = left > time.Minute
	r.warn2Minutes = left > 2*time.Minute
	r.m.fire(event.TimerTimeAdded, "seconds_added", float64(s))
}

func (r *Rules) resetMapTime() {
	r.mapResetTime = r.m.now()
}

// TimeLeft is the time until the level changes. ok is false when there is no time limit. Near the end of
// the map the round timer decides, so a running round is allowed to finish.
func (r *Rules) TimeLeft() (left time.Duration, ok bool) {
	limit := r.m.Settings.TimeLimit.Duration()
	if limit <= 0 {
		return 0, false
	}
	mapLeft := r.mapResetTime.Add(limit).Sub(r.m.now())

	if r.timer != nil {
		timerLeft := r.timer.TimeLeft()
		if mapLeft > timerLeft {
			r.changeLevelEnd = false
		} else if r.changeLevelEnd || timerLeft < 2*time.Minute {
			// sticks for the rest of the round, even if a capture adds time
			r.changeLevelEnd = true
			return timerLeft, true
		}
	}
	return mapLeft, true
}

func (r *Rules) checkTimeLimit() bool {
	left, ok := r.TimeLeft()
	if !ok || left > 0 {
		return false
	}
	r.gameOver("reached time limit")
	r.fireTeamScores()
	return true
}

func (r *Rules) checkWinLimit() bool {
	limit := r.m.Settings.WinLimit
	if limit <= 0 {
		return false
	}
	if r.m.teams[team.Allies].RoundsWon < limit && r.m.teams[team.Axis].RoundsWon < limit {
		return false
	}
	r.gameOver("reached round win limit")
	return true
}

func (r *Rules) gameOver(reason string) {
	r.gameOverReason = reason
	r.m.fire(event.GameOver, "reason", reason)
	r.transition(roundstate.GameOver)
}

func (r *Rules) fireTeamScores() {
	allies, axis := r.m.teams[team.Allies], r.m.teams[team.Axis]
	r.m.fire(event.TeamScores,
		"allies_caps", allies.RoundsWon, "allies_tick", allies.Score, "allies_players", allies.NumPlayers(),
		"axis_caps", axis.RoundsWon, "axis_tick", axis.Score, "axis_players", axis.NumPlayers(),
	)
}

// RestartRound schedules a restart of the game in seconds (at most MaxRestartDelay). It cancels a pending
// ready restart.
func (r *Rules) RestartRound(seconds Seconds) {
	if seconds <= 0 {
		return
	}
	if limit := r.m.Settings.MaxRestartDelay; limit > 0 && seconds > limit {
		seconds = limit
	}
	r.restartRoundAt = r.m.now().Add(seconds.Duration())
	r.awaitingReadyRestart = false
	r.m.fire(event.RoundRestartSeconds, "seconds", float64(seconds))
}

// ReadyRestart waits for both teams to send the ready signal, then restarts. It cancels a pending restart.
func (r *Rules) ReadyRestart() {
	r.awaitingReadyRestart = true
	for _, t := range team.Playing {
		r.m.teams[t].ready = false
	}
	r.restartRoundAt = time.Time{}
	r.m.fire(event.ReadyRestart, "signal", r.m.Settings.ReadySignal)
}

// AwaitingReadyRestart reports whether a ready restart is armed.
func (r *Rules) AwaitingReadyRestart() bool { return r.awaitingReadyRestart }

// RestartRoundAt returns when the pending restart happens. ok is false when none is pending.
func (r *Rules) RestartRoundAt() (at time.Time, ok bool) {
	return r.restartRoundAt, !r.restartRoundAt.IsZero()
}

func (r *Rules) heardReady(t team.ID) {
	if !r.awaitingReadyRestart || !t.IsPlaying() {
		return
	}
	tm := r.m.teams[t]
	if tm.ready {
		return
	}
	tm.ready = true
	r.m.fire(event.TeamReady, "team", t)
}

// StartWarmup (re)starts the warmup period.
func (r *Rules) StartWarmup() {
	if r.warmup {
		r.warmupEnd = r.m.now().Add(r.m.Settings.WarmupTime.Duration())
		return
	}
	r.setWarmup(true)
}

func (r *Rules) CancelWarmup() { r.setWarmup(false) }

func (r *Rules) setWarmup(warmup bool) {
	if r.warmup == warmup {
		return
	}
	r.warmup = warmup
	if warmup {
		r.warmupEnd = r.m.now().Add(r.m.Settings.WarmupTime.Duration())
		r.m.fire(event.WarmupBegins)
	} else {
		r.warmupEnd = time.Time{}
		r.m.fire(event.WarmupEnds)
	}
}

func (r *Rules) checkWarmup() {
	if !r.warmup {
		return
	}
	now := r.m.now()
	// the restart ends the warmup
	if now.After(r.warmupEnd) && r.restartRoundAt.IsZero() && !r.awaitingReadyRestart {
		r.restartRoundAt = now
	}
}

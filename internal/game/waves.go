package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
)

// waveQueue is a ring of absolute respawn times. It has one slot more than its capacity, so head == tail
// only when it's empty.
type waveQueue struct {
	times []time.Time
	head  int
	tail  int
	live  int
}

func newWaveQueue(capacity int) *waveQueue {
	return &waveQueue{times: make([]time.Time, capacity+1)}
}

func (q *waveQueue) next(i int) int { return (i + 1) % len(q.times) }

func (q *waveQueue) reset() {
	q.head, q.tail, q.live = 0, 0, 0
}

// WaveScheduler batches respawns per team: dead players come back together when their team's wave fires.
type WaveScheduler struct {
	m                 *Match
	capacity          int
	queues            map[team.ID]*waveQueue
	nextFailSafeCheck time.Time
}

func newWaveScheduler(m *Match, capacity int) *WaveScheduler {
	if capacity < 1 {
		capacity = 1
	}
	ws := &WaveScheduler{
		m:        m,
		capacity: capacity,
		queues:   map[team.ID]*waveQueue{},
	}
	for _, t := range team.Playing {
		ws.queues[t] = newWaveQueue(capacity)
	}
	return ws
}

func (ws *WaveScheduler) Capacity() int { return ws.capacity }

func (ws *WaveScheduler) Reset() {
	for _, q := range ws.queues {
		q.reset()
	}
	ws.nextFailSafeCheck = time.Time{}
}

// AddWaveTime schedules a wave delay from now. It returns false when the team's queue is full.
func (ws *WaveScheduler) AddWaveTime(t team.ID, delay time.Duration) bool {
	q, ok := ws.queues[t]
	if !ok {
		ws.m.log.Warn("could not add respawn wave: not a playing team", "team", t)
		return false
	}
	if q.live >= ws.capacity {
		ws.m.log.Warn("could not add respawn wave: too many waves queued", "team", t, "waves", q.live)
		return false
	}

	at := ws.m.now().Add(delay)
	q.times[q.tail] = at
	q.tail = q.next(q.tail)
	q.live++

	ws.m.log.Debug("added respawn wave", "team", t, "head", q.head, "tail", q.tail, "waves", q.live, "at", at)
	return true
}

// PopWaveTime drops the team's oldest wave.
func (ws *WaveScheduler) PopWaveTime(t team.ID) {
	q, ok := ws.queues[t]
	if !ok || q.live == 0 {
		ws.m.log.Warn("no respawn wave to pop", "team", t)
		return
	}
	q.head = q.next(q.head)
	q.live--

	ws.m.log.Debug("popped respawn wave", "team", t, "head", q.head, "tail", q.tail, "waves", q.live)
}

// WaveTime returns the time of the team's next wave. ok is false when no wave is queued.
func (ws *WaveScheduler) WaveTime(t team.ID) (at time.Time, ok bool) {
	q, ok := ws.queues[t]
	if !ok || q.live == 0 {
		return time.Time{}, false
	}
	return q.times[q.head], true
}

// Waves returns the team's queued wave times, oldest first.
func (ws *WaveScheduler) Waves(t team.ID) []time.Time {
	q, ok := ws.queues[t]
	if !ok {
		return nil
	}
	waves := make([]time.Time, 0, q.live)
	for i := q.head; i != q.tail; i = q.next(i) {
		waves = append(waves, q.times[i])
	}
	return waves
}

func (ws *WaveScheduler) Live(t team.ID) int {
	if q, ok := ws.queues[t]; ok {
		return q.live
	}
	return 0
}

// CreateOrJoinWave makes sure a wave exists that p can make once their death cam is over.
func (ws *WaveScheduler) CreateOrJoinWave(p *Player) {
	q, ok := ws.queues[p.Team]
	if !ok {
		return
	}

	now := ws.m.now()
	if next, ok := ws.WaveTime(p.Team); !ok || !next.After(now) {
		ws.AddWaveTime(p.Team, ws.MaxWaveTime(p.Team))
		return
	}

	eligible := now.Add(ws.m.Settings.DeathCamTime.Duration())
	for i := q.head; i != q.tail; i = q.next(i) {
		if eligible.Before(q.times[i]) {
			return
		}
	}
	ws.AddWaveTime(p.Team, ws.MaxWaveTime(p.Team))
}

// MaxWaveTime is the delay of a new wave for t: longer for bigger teams, shorter for teams holding more
// than their share of points.
func (ws *WaveScheduler) MaxWaveTime(t team.ID) time.Duration {
	if ws.m.rules.State() == roundstate.Preround {
		return time.Second
	}

	n := 0
	if tm, ok := ws.m.teams[t]; ok {
		n = tm.NumPlayers()
	}

	var secs float64
	switch {
	case n < 3:
		secs = 6
	case n < 6:
		secs = 8
	case n < 8:
		secs = 10
	case n < 10:
		secs = 11
	case n < 12:
		secs = 12
	case n < 14:
		secs = 13
	default:
		secs = 14
	}

	secs *= ws.m.rules.gamePlay().RespawnFactor(t)

	if master := ws.m.activeMaster(); master != nil {
		secs -= float64(master.CountAdvantageFlags(t)) * float64(ws.m.Settings.FlagRespawnBonus)
	}

	secs *= ws.m.Settings.WaveRespawnFactor

	if lo := float64(ws.m.Settings.DeathCamTime); secs <= lo {
		secs = lo
	}
	if hi := float64(ws.m.Settings.MaxWaveRespawnTime); secs > hi {
		secs = hi
	}

	return Seconds(secs).Duration()
}

// ReinforcementSeconds is how long a player of t who may respawn from eligible on has to wait.
// It's -1 for teams without waves.
func (ws *WaveScheduler) ReinforcementSeconds(t team.ID, eligible time.Time) int {
	q, ok := ws.queues[t]
	if !ok {
		return -1
	}
	for i := q.head; i != q.tail; i = q.next(i) {
		if eligible.Before(q.times[i]) {
			secs := int(q.times[i].Sub(ws.m.now()) / time.Second)
			if secs < 0 {
				return 0
			}
			return secs
		}
	}
	return 0
}

// drain respawns a team when its oldest wave is due. Teams without any wave get a periodic sweep so nobody
// waits forever when the bookkeeping missed them.
func (ws *WaveScheduler) drain() {
	now := ws.m.now()

	failSafe := false
	if ws.nextFailSafeCheck.Before(now) {
		failSafe = true
		ws.nextFailSafeCheck = now.Add(ws.m.Settings.FailSafeWaveInterval.Duration())
	}

	for _, t := range team.Playing {
		q := ws.queues[t]
		if q.live > 0 {
			if q.times[q.head].Before(now) {
				ws.m.log.Debug("respawning wave", "team", t)
				ws.m.respawnTeam(t)
				ws.PopWaveTime(t)
			}
		} else if failSafe {
			if n := ws.m.respawnTeam(t); n > 0 {
				ws.m.log.Warn("respawned players without a wave", "team", t, "players", n)
			}
		}
	}
}

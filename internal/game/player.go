package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/playerstate"
	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
)

type Stats struct {
	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Captures     int `json:"captures"`
	Blocks       int `json:"blocks"`
	BombsPlanted int `json:"bombs_planted"`
	BombsDefused int `json:"bombs_defused"`
	Score        int `json:"score"`
}

type Player struct {
	ID        int32          `json:"id"`
	Name      string         `json:"name"`
	Team      team.ID        `json:"team"`
	Class     string         `json:"class,omitempty"` // empty until the player picked one
	State     playerstate.ID `json:"state"`
	Connected bool           `json:"connected"`
	OnGround  bool           `json:"on_ground"`
	Position  geom.Vector    `json:"position"`
	DeathTime time.Time      `json:"-"`

	RoundStats Stats `json:"round_stats"` // reset at every round respawn
	MatchStats Stats `json:"match_stats"`

	// the last capture attempt this player was credited with blocking
	lastBlockArea    *AreaCapture
	lastBlockAttempt int
}

func newPlayer(id int32, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Team:      team.None,
		State:     playerstate.Spectator,
		Connected: true,
		OnGround:  true,
	}
}

func (p *Player) IsAlive() bool { return p.State == playerstate.Alive }

// HasClass reports whether the player can be spawned at all.
func (p *Player) HasClass() bool { return p.Team.IsPlaying() && p.Class != "" }

func (p *Player) addScore(f func(*Stats), points int) {
	f(&p.RoundStats)
	f(&p.MatchStats)
	p.RoundStats.Score += points
	p.MatchStats.Score += points
}

func (p *Player) die(now time.Time) {
	p.State = playerstate.DeathAnim
	p.DeathTime = now
	p.RoundStats.Deaths++
	p.MatchStats.Deaths++
}

func (p *Player) spawn() {
	p.State = playerstate.Alive
	p.OnGround = true
}

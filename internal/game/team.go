package game

import (
	"sort"

	"github.com/sauerbraten/frontline/internal/definitions/team"
)

type Team struct {
	ID        team.ID `json:"id"`
	Name      string  `json:"name"`
	Score     int     `json:"score"`
	RoundsWon int     `json:"rounds_won"`

	Players map[*Player]struct{} `json:"-"`
	ready   bool // heard the ready signal while a ready restart is pending
}

func NewTeam(id team.ID) *Team {
	return &Team{
		ID:      id,
		Name:    id.String(),
		Players: map[*Player]struct{}{},
	}
}

// sorts teams ascending by size, then score
type BySizeAndScore []*Team

func (teams BySizeAndScore) Len() int {
	return len(teams)
}

func (teams BySizeAndScore) Swap(i, j int) {
	teams[i], teams[j] = teams[j], teams[i]
}

func (teams BySizeAndScore) Less(i, j int) bool {
	if len(teams[i].Players) != len(teams[j].Players) {
		return len(teams[i].Players) < len(teams[j].Players)
	}
	if teams[i].Score != teams[j].Score {
		return teams[i].Score < teams[j].Score
	}
	return teams[i].RoundsWon < teams[j].RoundsWon
}

func (t *Team) Add(p *Player) {
	t.Players[p] = struct{}{}
	p.Team = t.ID
}

func (t *Team) Remove(p *Player) {
	p.Team = team.None
	delete(t.Players, p)
}

func (t *Team) NumPlayers() int { return len(t.Players) }

// sorted returns the team's players ordered by ID, so iteration doesn't depend on map order.
func (t *Team) sorted() []*Player {
	players := make([]*Player, 0, len(t.Players))
	for p := range t.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

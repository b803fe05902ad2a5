package team

import "strings"

type ID int32

const (
	None ID = iota // unassigned, also used for neutral control points
	Spectator
	Allies
	Axis
)

// Playing are the two teams that can own objectives and win rounds.
var Playing = [...]ID{Allies, Axis}

func (id ID) IsPlaying() bool { return id == Allies || id == Axis }

// Enemy returns the opposing playing team, or None.
func (id ID) Enemy() ID {
	switch id {
	case Allies:
		return Axis
	case Axis:
		return Allies
	default:
		return None
	}
}

func Parse(s string) ID {
	switch strings.ToLower(s) {
	case "", "none", "neutral", "unassigned":
		return None
	case "spectator", "spectators":
		return Spectator
	case "allies", "a":
		return Allies
	case "axis", "b":
		return Axis
	default:
		return -1
	}
}

func (id ID) String() string {
	switch id {
	case None:
		return "none"
	case Spectator:
		return "spectator"
	case Allies:
		return "allies"
	case Axis:
		return "axis"
	default:
		return ""
	}
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

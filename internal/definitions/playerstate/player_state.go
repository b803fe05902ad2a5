package playerstate

type ID uint32

const (
	Alive ID = iota
	DeathAnim
	Dead
	Spectator
)

func (id ID) String() string {
	switch id {
	case Alive:
		return "alive"
	case DeathAnim:
		return "death_anim"
	case Dead:
		return "dead"
	case Spectator:
		return "spectator"
	default:
		return ""
	}
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

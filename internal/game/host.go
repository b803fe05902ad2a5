package game

import (
	"time"

	"github.com/sauerbraten/frontline/internal/definitions/event"
	"github.com/sauerbraten/frontline/internal/geom"
)

// Clock is the simulation time source. All deadlines in this package are compared against it.
type Clock interface {
	Now() time.Time
}

// EventSink receives notifications for HUDs, logs and stats. args are key/value pairs.
type EventSink interface {
	Fire(typ event.Type, args ...interface{})
}

// DamageSystem applies area effects in the world.
type DamageSystem interface {
	RadiusDamage(origin geom.Vector, radius, damage float64, attacker *Player)
	RadiusStun(origin geom.Vector, radius, magnitude float64)
}

// Spawner places a player back into the world. The player's state is already Alive when it's called.
type Spawner interface {
	Respawn(*Player)
}

// Roster answers overlap queries the rules can't compute themselves.
type Roster interface {
	PlayersInArea(*AreaCapture) []*Player
}

// Host is everything the surrounding engine has to provide.
type Host interface {
	Clock
	EventSink
	DamageSystem
	Spawner
	Roster
}

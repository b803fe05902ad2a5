package maprotation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Kind is the objective style of a level. Levels only rotate into levels of the same kind, unless a map is
// queued.
type Kind string

const (
	Flags      Kind = "flags"
	Detonation Kind = "detonation"
)

var (
	ErrAlreadyQueued = errors.New("map is already queued")
	ErrNotInPool     = errors.New("map is not in the map pool")
)

type Pools struct {
	Flags      []string `json:"flags"`
	Detonation []string `json:"detonation"`
}

func (p Pools) pool(kind Kind) []string {
	if kind == Detonation {
		return p.Detonation
	}
	return p.Flags
}

// Rotation picks the next level. It's not safe for concurrent use.
type Rotation struct {
	pools Pools
	queue []string
	rng   *rand.Rand
}

func NewRotation(pools Pools) *Rotation {
	return &Rotation{
		pools: pools,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Rotation) QueuedMaps() []string {
	q := make([]string, len(r.queue))
	copy(q, r.queue)
	return q
}

func (r *Rotation) ClearQueue() { r.queue = r.queue[:0] }

// KindOf returns the pool a map is in. ok is false for maps outside the rotation.
func (r *Rotation) KindOf(mapp string) (kind Kind, ok bool) {
	for _, k := range []Kind{Flags, Detonation} {
		if r.InPool(k, mapp) {
			return k, true
		}
	}
	return "", false
}

// NextMap returns the first queued map, or the map after currentMap in the pool of kind.
func (r *Rotation) NextMap(kind Kind, currentMap string) string {
	if len(r.queue) > 0 {
		mapp := r.queue[0]
		r.queue = r.queue[1:]
		return mapp
	}

	pool := r.pools.pool(kind)
	if len(pool) == 0 {
		return currentMap
	}
	for i, m := range pool {
		if m == currentMap {
			return pool[(i+1)%len(pool)]
		}
	}

	// current map wasn't found in map rotation, return random map in rotation
	return pool[r.rng.Intn(len(pool))]
}

func (r *Rotation) InPool(kind Kind, mapp string) bool {
	for _, m := range r.pools.pool(kind) {
		if m == mapp {
			return true
		}
	}
	return false
}

func (r *Rotation) inQueue(mapp string) bool {
	for _, m := range r.queue {
		if m == mapp {
			return true
		}
	}
	return false
}

func (r *Rotation) QueueMap(mapp string) error {
	if r.inQueue(mapp) {
		return fmt.Errorf("%s: %w", mapp, ErrAlreadyQueued)
	}
	if _, ok := r.KindOf(mapp); !ok {
		return fmt.Errorf("%s: %w", mapp, ErrNotInPool)
	}
	r.queue = append(r.queue, mapp)
	return nil
}

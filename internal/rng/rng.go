package rng

import (
	"math/rand"
	"time"
)

// not safe for concurrent use; only the simulation goroutine draws from it
var RNG = rand.New(rand.NewSource(time.Now().UnixNano()))

func Coin() bool { return RNG.Intn(2) == 0 }

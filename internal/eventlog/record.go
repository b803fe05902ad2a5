// Package eventlog collects the notifications a match fires, for logging and for the engine bridge to
// pick up.
package eventlog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sauerbraten/frontline/internal/definitions/event"
)

// Record is one fired event. Seq increases by one per event and never restarts, not even across matches.
type Record struct {
	Seq   uint64                 `json:"seq"`
	Match uuid.UUID              `json:"match"`
	Time  time.Time              `json:"time"`
	Type  event.Type             `json:"type"`
	Args  map[string]interface{} `json:"args,omitempty"`
}

const badKey = "!BADKEY"

// argsMap turns key/value pairs into a map. A value without a string key is stored under !BADKEY, the way
// slog does it.
func argsMap(args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(args)/2)
	for len(args) > 0 {
		key, ok := args[0].(string)
		if !ok || len(args) == 1 {
			m[badKey] = args[0]
			args = args[1:]
			continue
		}
		m[key] = args[1]
		args = args[2:]
	}
	return m
}

func (r Record) String() string {
	return fmt.Sprintf("#%d %s %v", r.Seq, r.Type, r.Args)
}

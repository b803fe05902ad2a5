package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/maprotation"
)

// Status is what the server looked like after the last tick or command.
type Status struct {
	Map          string           `json:"map"`
	Kind         maprotation.Kind `json:"kind"`
	Match        uuid.UUID        `json:"match"`
	Paused       bool             `json:"paused"`
	Intermission *float64         `json:"intermission_seconds,omitempty"` // until the next map
	QueuedMaps   []string         `json:"queued_maps"`
	LastEvent    uint64           `json:"last_event"`
	game.Snapshot
}

func (s *Server) publish() {
	st := Status{
		Map:        s.mapName,
		Kind:       s.kind,
		Match:      s.events.MatchID(),
		Paused:     s.ticker != nil && s.ticker.Paused(),
		QueuedMaps: s.rotation.QueuedMaps(),
		LastEvent:  s.events.LastSeq(),
		Snapshot:   s.match.Snapshot(),
	}
	if s.intermission != nil {
		left := s.intermissionEnd.Sub(s.clock.Now())
		if left < 0 {
			left = 0
		}
		secs := left.Round(time.Millisecond).Seconds()
		st.Intermission = &secs
	}

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Status is safe to call from any goroutine.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

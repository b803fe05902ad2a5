package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sauerbraten/frontline/internal/eventlog"
)

type EventsResponse struct {
	Records   []eventlog.Record `json:"records"`
	Truncated bool              `json:"truncated"` // records after since were lost
	Last      uint64            `json:"last"`
}

// handleEvents returns the records after ?since=N. The bridge polls it to learn about respawns, area
// effects and HUD messages.
func handleEvents(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var since uint64
		if s := r.URL.Query().Get("since"); s != "" {
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid since")
				return
			}
			since = n
		}

		log := b.Events()
		recs, truncated := log.Since(since)
		if recs == nil {
			recs = []eventlog.Record{}
		}
		writeJSON(w, http.StatusOK, EventsResponse{
			Records:   recs,
			Truncated: truncated,
			Last:      log.LastSeq(),
		})
	}
}

func handleEventStream(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		// subscribe before the headers go out, so a client that got them can't miss a record
		ch := b.Events().Subscribe()
		defer b.Events().Unsubscribe(ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case rec := <-ch:
				data, err := json.Marshal(rec)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", rec.Seq, rec.Type, data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

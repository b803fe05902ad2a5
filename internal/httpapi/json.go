package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/maprotation"
	"github.com/sauerbraten/frontline/internal/server"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr picks the status code for an error coming out of the backend.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, game.ErrUnknownObjective),
		errors.Is(err, server.ErrUnknownArea),
		errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidTeam),
		errors.Is(err, maprotation.ErrNotInPool):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, maprotation.ErrAlreadyQueued):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, server.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

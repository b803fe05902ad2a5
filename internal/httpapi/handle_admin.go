package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/game"
)

type SecondsRequest struct {
	Seconds game.Seconds `json:"seconds"`
}

type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type ActiveRequest struct {
	Active bool `json:"active"`
}

type MapRequest struct {
	Map string `json:"map"`
}

// withMatch decodes the request body into req and runs fn on the match. Objective names come from the URL.
func withMatch[T any](b Backend, fn func(m *game.Match, name string, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		name := chi.URLParam(r, "name")
		if err := b.Do(r.Context(), func(m *game.Match) error { return fn(m, name, req) }); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRestartRound(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, _ string, req SecondsRequest) error {
		m.RestartRound(req.Seconds)
		return nil
	})
}

func handleReadyRestart(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, _ string, _ struct{}) error {
		m.ReadyRestart()
		return nil
	})
}

func handleWarmup(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, _ string, req EnabledRequest) error {
		if req.Enabled {
			m.StartWarmup()
		} else {
			m.CancelWarmup()
		}
		return nil
	})
}

func handleAddTime(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, _ string, req SecondsRequest) error {
		m.AddTimerSeconds(req.Seconds)
		return nil
	})
}

func handleDeclareWinner(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, _ string, req TeamRequest) error {
		t := team.Parse(req.Team)
		if !t.IsPlaying() {
			return game.ErrInvalidTeam
		}
		m.Rules().DeclareWinner(t)
		return nil
	})
}

func handlePointOwner(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, name string, req TeamRequest) error {
		t := team.Parse(req.Team)
		if t < 0 {
			return game.ErrInvalidTeam
		}
		return m.SetPointOwner(name, t)
	})
}

func handleAreaEnabled(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, name string, req EnabledRequest) error {
		return m.SetAreaEnabled(name, req.Enabled)
	})
}

func handleBombEnabled(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, name string, req EnabledRequest) error {
		return m.SetBombTargetEnabled(name, req.Enabled)
	})
}

func handleMasterActive(b Backend) http.HandlerFunc {
	return withMatch(b, func(m *game.Match, name string, req ActiveRequest) error {
		return m.SetMasterActive(name, req.Active)
	})
}

// handleServer runs a server-level command that doesn't touch the match directly.
func handleServer[T any](fn func(ctx context.Context, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if err := fn(r.Context(), req); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleQueueMap(b Backend) http.HandlerFunc {
	return handleServer(func(ctx context.Context, req MapRequest) error {
		return b.QueueMap(ctx, req.Map)
	})
}

func handleChangeMap(b Backend) http.HandlerFunc {
	return handleServer(func(ctx context.Context, req MapRequest) error {
		return b.ChangeMap(ctx, req.Map)
	})
}

func handlePause(b Backend) http.HandlerFunc {
	return handleServer(func(ctx context.Context, _ struct{}) error { return b.Pause(ctx) })
}

func handleResume(b Backend) http.HandlerFunc {
	return handleServer(func(ctx context.Context, _ struct{}) error { return b.Resume(ctx) })
}

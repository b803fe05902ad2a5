package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/geom"
)

type JoinRequest struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Team string `json:"team,omitempty"` // empty picks the smaller team
}

type TeamRequest struct {
	Team string `json:"team"`
}

type ClassRequest struct {
	Class string `json:"class"`
}

type PositionRequest struct {
	Position geom.Vector `json:"position"`
	OnGround bool        `json:"on_ground"`
}

type KilledRequest struct {
	Killer *int32 `json:"killer,omitempty"` // missing for world damage
}

type ChatRequest struct {
	Text string `json:"text"`
}

type OccupantsRequest struct {
	Players []int32 `json:"players"`
}

// BombRequest drives planting (start, continue, complete) and defusing (start, continue, stop).
type BombRequest struct {
	Player int32  `json:"player"`
	Action string `json:"action"`
}

type BombResponse struct {
	Accepted bool `json:"accepted"`
}

func playerID(r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	return int32(id), err == nil
}

func parsePlayingTeam(s string) (team.ID, bool) {
	t := team.Parse(s)
	return t, t == team.Spectator || t.IsPlaying()
}

func handleJoin(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		preferred := team.ID(-1)
		if req.Team != "" {
			t, ok := parsePlayingTeam(req.Team)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid team")
				return
			}
			preferred = t
		}

		var joined game.Player
		err := b.Do(r.Context(), func(m *game.Match) error {
			p, err := m.Join(req.ID, req.Name, preferred)
			if err != nil {
				return err
			}
			joined = *p
			return nil
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, joined)
	}
}

// withPlayer decodes the request body into req and runs fn for the player named in the URL.
func withPlayer[T any](b Backend, fn func(m *game.Match, id int32, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playerID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid player id")
			return
		}
		var req T
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if err := b.Do(r.Context(), func(m *game.Match) error { return fn(m, id, req) }); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleLeave(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, _ struct{}) error {
		return m.Leave(id)
	})
}

func handleChangeTeam(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, req TeamRequest) error {
		t, ok := parsePlayingTeam(req.Team)
		if !ok {
			return game.ErrInvalidTeam
		}
		return m.ChangeTeam(id, t)
	})
}

func handleSetClass(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, req ClassRequest) error {
		return m.SetClass(id, req.Class)
	})
}

func handleUpdatePosition(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, req PositionRequest) error {
		return m.UpdatePlayer(id, req.Position, req.OnGround)
	})
}

func handleKilled(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, req KilledRequest) error {
		killer := int32(-1)
		if req.Killer != nil {
			killer = *req.Killer
		}
		return m.PlayerKilled(id, killer)
	})
}

func handleChat(b Backend) http.HandlerFunc {
	return withPlayer(b, func(m *game.Match, id int32, req ChatRequest) error {
		return m.Chat(id, req.Text)
	})
}

func handleOccupants(b Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OccupantsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := b.SetOccupants(r.Context(), chi.URLParam(r, "name"), req.Players); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bombAction func(bt *game.BombTarget, p *game.Player) bool

var (
	plantActions = map[string]bombAction{
		"start":    (*game.BombTarget).StartPlanting,
		"continue": (*game.BombTarget).ContinuePlanting,
		"complete": (*game.BombTarget).CompletePlanting,
	}
	defuseActions = map[string]bombAction{
		"start":    (*game.BombTarget).StartDefuse,
		"continue": (*game.BombTarget).ContinueDefuse,
		"stop":     (*game.BombTarget).RemoveDefuser,
	}
)

func handlePlant(b Backend) http.HandlerFunc  { return handleBomb(b, plantActions) }
func handleDefuse(b Backend) http.HandlerFunc { return handleBomb(b, defuseActions) }

func handleBomb(b Backend, actions map[string]bombAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BombRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		action, ok := actions[req.Action]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown action "+strconv.Quote(req.Action))
			return
		}

		var accepted bool
		err := b.Do(r.Context(), func(m *game.Match) error {
			bt, err := m.BombTarget(chi.URLParam(r, "name"))
			if err != nil {
				return err
			}
			p, err := m.Player(req.Player)
			if err != nil {
				return err
			}
			accepted = action(bt, p)
			return nil
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BombResponse{Accepted: accepted})
	}
}

package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sauerbraten/frontline/internal/auth"
	"github.com/sauerbraten/frontline/internal/definitions/roundstate"
	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/maprotation"
	"github.com/sauerbraten/frontline/internal/server"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type credentials struct{ name, password string }

var (
	admin  = &credentials{"admin", "hunter2"}
	bridge = &credentials{"engine", "relay"}
)

// newTestAPI runs a match on the test levels and returns a handler serving it.
func newTestAPI(t *testing.T) (http.Handler, *server.Server) {
	t.Helper()

	users, err := auth.FromFile("testdata/users.json")
	if err != nil {
		t.Fatal(err)
	}

	settings := game.DefaultSettings()
	settings.RoundWaitTime = false
	srv := server.New(server.Config{
		MapDir:       "testdata",
		FirstMap:     "donner",
		Pools:        maprotation.Pools{Flags: []string{"donner"}, Detonation: []string{"jagd"}},
		Intermission: time.Second,
		TickInterval: 5 * time.Millisecond,
		Settings:     settings,
	}, discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deadline := time.Now().Add(2 * time.Second)
	for srv.Status().Map == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(time.Millisecond)
	}

	return NewHandler(discard, srv, auth.Cached(users)), srv
}

func do(t *testing.T, h http.Handler, creds *credentials, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if creds != nil {
		req.SetBasicAuth(creds.name, creds.password)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func ptr[T any](v T) *T { return &v }

func expect(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

func TestHealthAndStatus(t *testing.T) {
	h, _ := newTestAPI(t)

	w := do(t, h, nil, http.MethodGet, "/healthz", nil)
	expect(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"map":"donner"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	w = do(t, h, nil, http.MethodGet, "/api/status", nil)
	expect(t, w, http.StatusOK)
	var st struct {
		Map   string `json:"map"`
		State string `json:"state"`
		Areas []any  `json:"areas"`
	}
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Map != "donner" || st.State == "" || len(st.Areas) != 3 {
		t.Errorf("status = %+v", st)
	}
}

func TestAuth(t *testing.T) {
	h, _ := newTestAPI(t)

	tests := []struct {
		name   string
		creds  *credentials
		method string
		path   string
		want   int
	}{
		{"no credentials", nil, http.MethodGet, "/api/events", http.StatusUnauthorized},
		{"wrong password", &credentials{"engine", "nope"}, http.MethodGet, "/api/events", http.StatusUnauthorized},
		{"bridge on bridge route", bridge, http.MethodGet, "/api/events", http.StatusOK},
		{"admin on bridge route", admin, http.MethodGet, "/api/events", http.StatusOK},
		{"bridge on admin route", bridge, http.MethodPost, "/api/admin/readyrestart", http.StatusForbidden},
		{"admin on admin route", admin, http.MethodPost, "/api/admin/readyrestart", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.creds, tt.method, tt.path, nil)
			expect(t, w, tt.want)
			if tt.want == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("no WWW-Authenticate header")
			}
		})
	}
}

func TestPlayerLifecycle(t *testing.T) {
	h, srv := newTestAPI(t)

	expect(t, do(t, h, bridge, http.MethodPost, "/api/players", JoinRequest{ID: 1, Name: "x", Team: "reds"}), http.StatusBadRequest)

	w := do(t, h, bridge, http.MethodPost, "/api/players", JoinRequest{ID: 1, Name: "ziggy", Team: "allies"})
	expect(t, w, http.StatusCreated)
	var p struct {
		ID   int32  `json:"id"`
		Name string `json:"name"`
		Team string `json:"team"`
	}
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 1 || p.Name != "ziggy" || p.Team != "allies" {
		t.Errorf("joined player = %+v", p)
	}

	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/1/class", ClassRequest{Class: "medic"}), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/1/position", PositionRequest{OnGround: true}), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodPost, "/api/players/1/chat", ChatRequest{Text: "hello"}), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/1/team", TeamRequest{Team: "martians"}), http.StatusBadRequest)
	expect(t, do(t, h, bridge, http.MethodPost, "/api/players/2/killed", KilledRequest{Killer: ptr[int32](1)}), http.StatusNotFound)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/abc/class", ClassRequest{Class: "medic"}), http.StatusBadRequest)

	players := srv.Status().Players
	if len(players) != 1 || players[0].Class != "medic" {
		t.Errorf("players = %+v", players)
	}

	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/1/team", TeamRequest{Team: "axis"}), http.StatusNoContent)
	if players := srv.Status().Players; players[0].Team.String() != "axis" {
		t.Errorf("team = %s", players[0].Team)
	}

	expect(t, do(t, h, bridge, http.MethodDelete, "/api/players/1", nil), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodDelete, "/api/players/1", nil), http.StatusNotFound)
}

func TestOccupantsAndBombs(t *testing.T) {
	h, _ := newTestAPI(t)
	expect(t, do(t, h, bridge, http.MethodPost, "/api/players", JoinRequest{ID: 1, Name: "sapper", Team: "allies"}), http.StatusCreated)

	expect(t, do(t, h, bridge, http.MethodPut, "/api/areas/square_area/occupants", OccupantsRequest{Players: []int32{1}}), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/areas/nowhere/occupants", OccupantsRequest{Players: []int32{1}}), http.StatusNotFound)

	expect(t, do(t, h, bridge, http.MethodPost, "/api/bombs/west_gun_bomb/plant", BombRequest{Player: 1, Action: "start"}), http.StatusNotFound)

	expect(t, do(t, h, admin, http.MethodPost, "/api/admin/maps/change", MapRequest{Map: "jagd"}), http.StatusNoContent)

	expect(t, do(t, h, bridge, http.MethodPost, "/api/bombs/west_gun_bomb/plant", BombRequest{Player: 1, Action: "explode"}), http.StatusBadRequest)
	expect(t, do(t, h, bridge, http.MethodPost, "/api/bombs/west_gun_bomb/defuse", BombRequest{Player: 7, Action: "start"}), http.StatusNotFound)

	w := do(t, h, bridge, http.MethodPost, "/api/bombs/west_gun_bomb/plant", BombRequest{Player: 1, Action: "start"})
	expect(t, w, http.StatusOK)
	var resp BombResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	// nobody picked a class, so no round is running
	if resp.Accepted {
		t.Error("plant accepted outside of a round")
	}
}

func TestAdminRoutes(t *testing.T) {
	h, srv := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"restart", http.MethodPost, "/api/admin/restart", SecondsRequest{Seconds: 3}, http.StatusNoContent},
		{"ready restart cancels restart", http.MethodPost, "/api/admin/readyrestart", nil, http.StatusNoContent},
		{"warmup", http.MethodPut, "/api/admin/warmup", EnabledRequest{Enabled: false}, http.StatusNoContent},
		{"add time", http.MethodPost, "/api/admin/timer", SecondsRequest{Seconds: 60}, http.StatusNoContent},
		{"winner outside a round", http.MethodPost, "/api/admin/winner", TeamRequest{Team: "axis"}, http.StatusNoContent},
		{"winner spectators", http.MethodPost, "/api/admin/winner", TeamRequest{Team: "spectator"}, http.StatusBadRequest},
		{"point owner", http.MethodPut, "/api/admin/points/square/owner", TeamRequest{Team: "allies"}, http.StatusNoContent},
		{"point owner bad team", http.MethodPut, "/api/admin/points/square/owner", TeamRequest{Team: "reds"}, http.StatusBadRequest},
		{"unknown point", http.MethodPut, "/api/admin/points/nowhere/owner", TeamRequest{Team: "allies"}, http.StatusNotFound},
		{"disable area", http.MethodPut, "/api/admin/areas/bakery_area/enabled", EnabledRequest{Enabled: false}, http.StatusNoContent},
		{"unknown bomb", http.MethodPut, "/api/admin/bombs/nothing/enabled", EnabledRequest{Enabled: false}, http.StatusNotFound},
		{"master", http.MethodPut, "/api/admin/masters/donner_master/active", ActiveRequest{Active: true}, http.StatusNoContent},
		{"queue map", http.MethodPost, "/api/admin/maps/queue", MapRequest{Map: "jagd"}, http.StatusNoContent},
		{"queue map twice", http.MethodPost, "/api/admin/maps/queue", MapRequest{Map: "jagd"}, http.StatusConflict},
		{"queue unknown map", http.MethodPost, "/api/admin/maps/queue", MapRequest{Map: "crossfire"}, http.StatusBadRequest},
		{"change to missing map", http.MethodPost, "/api/admin/maps/change", MapRequest{Map: "crossfire"}, http.StatusNotFound},
		{"bad body", http.MethodPost, "/api/admin/timer", "sixty", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, do(t, h, admin, tt.method, tt.path, tt.body), tt.want)
		})
	}

	if st := srv.Status(); st.Points[0].Owner.String() != "allies" || len(st.QueuedMaps) != 1 {
		t.Errorf("square owner %s, queued %v", st.Points[0].Owner, st.QueuedMaps)
	}
	for _, a := range srv.Status().Areas {
		if a.Name == "bakery_area" && a.Enabled {
			t.Error("bakery area still enabled")
		}
	}
}

func TestPause(t *testing.T) {
	h, srv := newTestAPI(t)

	expect(t, do(t, h, admin, http.MethodPost, "/api/admin/pause", nil), http.StatusNoContent)
	if !srv.Status().Paused {
		t.Error("not paused")
	}
	expect(t, do(t, h, admin, http.MethodPost, "/api/admin/resume", nil), http.StatusNoContent)
	if srv.Status().Paused {
		t.Error("still paused")
	}
}

func TestEvents(t *testing.T) {
	h, _ := newTestAPI(t)

	expect(t, do(t, h, bridge, http.MethodGet, "/api/events?since=soon", nil), http.StatusBadRequest)

	w := do(t, h, bridge, http.MethodGet, "/api/events", nil)
	expect(t, w, http.StatusOK)
	var before EventsResponse
	json.NewDecoder(w.Body).Decode(&before)

	expect(t, do(t, h, admin, http.MethodPut, "/api/admin/warmup", EnabledRequest{Enabled: true}), http.StatusNoContent)

	w = do(t, h, bridge, http.MethodGet, "/api/events?since="+strconv.FormatUint(before.Last, 10), nil)
	expect(t, w, http.StatusOK)
	var resp struct {
		Records []struct {
			Seq  uint64 `json:"seq"`
			Type string `json:"type"`
		} `json:"records"`
		Last uint64 `json:"last"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, rec := range resp.Records {
		if rec.Seq <= before.Last {
			t.Errorf("record %d is not after %d", rec.Seq, before.Last)
		}
		if rec.Type == "warmup_begins" {
			found = true
		}
	}
	if !found || resp.Last <= before.Last {
		t.Errorf("events after %d = %+v", before.Last, resp)
	}
}

func TestEventStream(t *testing.T) {
	h, _ := newTestAPI(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth(bridge.name, bridge.password)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	expect(t, do(t, h, admin, http.MethodPut, "/api/admin/warmup", EnabledRequest{Enabled: true}), http.StatusNoContent)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: warmup_begins" {
			if !scanner.Scan() || !strings.HasPrefix(scanner.Text(), "data: {") {
				t.Fatalf("no data after event line: %q", scanner.Text())
			}
			return
		}
	}
	t.Fatalf("stream ended without warmup_begins: %v", scanner.Err())
}

func TestKilledWithoutKiller(t *testing.T) {
	h, srv := newTestAPI(t)

	expect(t, do(t, h, bridge, http.MethodPost, "/api/players", JoinRequest{ID: 0, Name: "zero", Team: "allies"}), http.StatusCreated)
	expect(t, do(t, h, bridge, http.MethodPost, "/api/players", JoinRequest{ID: 1, Name: "one", Team: "axis"}), http.StatusCreated)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/0/class", ClassRequest{Class: "rifleman"}), http.StatusNoContent)
	expect(t, do(t, h, bridge, http.MethodPut, "/api/players/1/class", ClassRequest{Class: "rifleman"}), http.StatusNoContent)

	deadline := time.Now().Add(2 * time.Second)
	for srv.Status().State != roundstate.Running {
		if time.Now().After(deadline) {
			t.Fatalf("round did not start, state is %s", srv.Status().State)
		}
		time.Sleep(time.Millisecond)
	}

	// no body: the world killed player 1
	expect(t, do(t, h, bridge, http.MethodPost, "/api/players/1/killed", nil), http.StatusNoContent)

	for _, p := range srv.Status().Players {
		switch p.ID {
		case 0:
			if p.MatchStats.Kills != 0 {
				t.Errorf("player 0 got %d kills for a world death", p.MatchStats.Kills)
			}
		case 1:
			if p.MatchStats.Deaths != 1 {
				t.Errorf("player 1 has %d deaths, want 1", p.MatchStats.Deaths)
			}
		}
	}
}

func TestShutdownEndsEventStreams(t *testing.T) {
	_, srv := newTestAPI(t)
	users, err := auth.FromFile("testdata/users.json")
	if err != nil {
		t.Fatal(err)
	}
	api := New("", discard, srv, users)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- api.Serve(ctx, ln) }()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "http://"+ln.Addr().String()+"/api/events/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth(bridge.name, bridge.password)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stream status = %d", resp.StatusCode)
	}

	cancel()
	start := time.Now()
	if err := api.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if d := time.Since(start); d > 3*time.Second {
		t.Errorf("shutdown took %v with a stream open", d)
	}
	if err := <-served; err != nil {
		t.Errorf("serve: %v", err)
	}
	if _, err := io.ReadAll(resp.Body); err != nil {
		t.Errorf("stream did not end cleanly: %v", err)
	}
}

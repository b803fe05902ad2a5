// Package server runs a match: it owns the simulation goroutine, provides the match's host and changes
// levels when a match is over.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ivahaev/timer"

	"github.com/sauerbraten/frontline/internal/eventlog"
	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/maprotation"
	"github.com/sauerbraten/frontline/internal/pausableticker"
)

var (
	ErrStopped     = errors.New("server: not running")
	ErrUnknownArea = errors.New("server: unknown area")
)

type Config struct {
	MapDir       string
	FirstMap     string
	Pools        maprotation.Pools
	Intermission time.Duration // between game over and the next level
	TickInterval time.Duration
	Settings     game.Settings
	EventBuffer  int

	Now func() time.Time // wall clock; nil means time.Now
}

type Server struct {
	cfg      Config
	log      *slog.Logger
	clock    *clock
	events   *eventlog.Log
	sink     eventlog.Sink
	rotation *maprotation.Rotation

	inbox chan func()
	done  chan struct{}

	// owned by the loop goroutine
	ticker          *pausableticker.Ticker
	match           *game.Match
	mapName         string
	kind            maprotation.Kind
	occupants       map[string][]int32 // area name -> player IDs
	intermission    *timer.Timer
	intermissionEnd time.Time

	mu     sync.RWMutex
	status Status
}

func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	s := &Server{
		cfg:       cfg,
		log:       logger,
		clock:     newClock(cfg.Now),
		rotation:  maprotation.NewRotation(cfg.Pools),
		inbox:     make(chan func()),
		done:      make(chan struct{}),
		occupants: map[string][]int32{},
	}
	s.events = eventlog.New(cfg.EventBuffer, s.clock.Now)
	s.sink = eventlog.Tee{s.events, eventlog.NewSlogSink(logger, slog.LevelDebug)}
	return s
}

func (s *Server) Events() *eventlog.Log { return s.events }

// Run loads the first level and runs the simulation until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	first := s.cfg.FirstMap
	if first == "" {
		first = s.rotation.NextMap(maprotation.Flags, "")
	}
	if err := s.loadLevel(first); err != nil {
		return fmt.Errorf("loading first map: %w", err)
	}
	s.publish()

	s.ticker = pausableticker.New(s.cfg.TickInterval)
	defer func() {
		s.ticker.Stop()
		if s.intermission != nil {
			s.intermission.Stop()
		}
		close(s.done)
	}()

	s.log.Info("simulation running", "map", s.mapName, "tick", s.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulation stopped")
			return nil
		case cmd := <-s.inbox:
			cmd()
		case <-s.ticker.C:
			s.match.Tick()
			s.publish()
		}
	}
}

// exec runs f on the loop goroutine and waits for it to return. Status reflects f's changes once exec
// returns.
func (s *Server) exec(ctx context.Context, f func() error) error {
	errc := make(chan error, 1)
	cmd := func() {
		err := f()
		s.publish()
		errc <- err
	}

	select {
	case s.inbox <- cmd:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues f to run on the loop goroutine without waiting for it. It's used from timer callbacks.
func (s *Server) post(f func()) {
	cmd := func() {
		f()
		s.publish()
	}
	go func() {
		select {
		case s.inbox <- cmd:
		case <-s.done:
		}
	}()
}

// Do runs fn with the current match on the simulation goroutine. fn must not keep m or anything it
// returns after it returned.
func (s *Server) Do(ctx context.Context, fn func(m *game.Match) error) error {
	return s.exec(ctx, func() error { return fn(s.match) })
}

// SetOccupants records which players the engine sees inside an area's trigger volume. The list replaces
// the previous one.
func (s *Server) SetOccupants(ctx context.Context, area string, ids []int32) error {
	return s.exec(ctx, func() error {
		if _, err := s.match.Area(area); err != nil {
			return ErrUnknownArea
		}
		s.occupants[area] = append([]int32(nil), ids...)
		return nil
	})
}

// Pause freezes the simulation: no ticks, the match clock stands still and a running intermission waits.
func (s *Server) Pause(ctx context.Context) error {
	return s.exec(ctx, func() error {
		if s.ticker.Paused() {
			return nil
		}
		s.ticker.Pause()
		s.clock.Pause()
		if s.intermission != nil {
			s.intermission.Pause()
		}
		s.log.Info("paused")
		return nil
	})
}

func (s *Server) Resume(ctx context.Context) error {
	return s.exec(ctx, func() error {
		if !s.ticker.Paused() {
			return nil
		}
		s.clock.Resume()
		if s.intermission != nil {
			s.intermission.Start()
		}
		s.ticker.Resume()
		s.log.Info("resumed")
		return nil
	})
}

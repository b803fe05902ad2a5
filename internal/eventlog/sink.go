package eventlog

import (
	"context"
	"log/slog"

	"github.com/sauerbraten/frontline/internal/definitions/event"
)

// Sink receives fired events. It has the same method set as game.EventSink.
type Sink interface {
	Fire(typ event.Type, args ...interface{})
}

// SlogSink writes every event to a structured logger.
type SlogSink struct {
	logger *slog.Logger
	level  slog.Level
}

func NewSlogSink(logger *slog.Logger, level slog.Level) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, level: level}
}

func (s *SlogSink) Fire(typ event.Type, args ...interface{}) {
	s.logger.Log(context.Background(), s.level, "event", append([]interface{}{"type", typ.String()}, args...)...)
}

// Tee passes every event on to all of its sinks, in order.
type Tee []Sink

func (t Tee) Fire(typ event.Type, args ...interface{}) {
	for _, s := range t {
		s.Fire(typ, args...)
	}
}

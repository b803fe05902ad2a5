package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sauerbraten/jsonfile"

	"github.com/sauerbraten/frontline/internal/game"
	"github.com/sauerbraten/frontline/internal/maprotation"
)

// Env is the process configuration.
type Env struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	ConfigFile string     `env:"CONFIG_FILE" envDefault:"config.json"`
	UsersFile  string     `env:"USERS_FILE" envDefault:"users.json"`
	MapDir     string     `env:"MAP_DIR" envDefault:"maps"`
	TickRate   int        `env:"TICK_RATE" envDefault:"100"` // simulation ticks per second
}

func loadEnv() (*Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if e.TickRate <= 0 {
		return nil, fmt.Errorf("TICK_RATE must be positive, got %d", e.TickRate)
	}
	return &e, nil
}

func (e *Env) tickInterval() time.Duration { return time.Second / time.Duration(e.TickRate) }

// Config is read from config.json. Settings missing from the file keep their defaults.
type Config struct {
	ServerDescription   string            `json:"server_description"`
	FirstMap            string            `json:"first_map"`
	IntermissionSeconds float64           `json:"intermission_seconds"`
	EventBuffer         int               `json:"event_buffer"`
	MapPools            maprotation.Pools `json:"map_pools"`
	Settings            game.Settings     `json:"settings"`
}

func loadConfig(path string) (*Config, error) {
	conf := &Config{
		IntermissionSeconds: 10,
		Settings:            game.DefaultSettings(),
	}
	err := jsonfile.ParseFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return conf, nil
}

func (c *Config) intermission() time.Duration {
	return game.Seconds(c.IntermissionSeconds).Duration()
}

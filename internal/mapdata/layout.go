// Package mapdata reads the objective layout of a level from YAML and wires it into a match.
package mapdata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sauerbraten/frontline/internal/definitions/team"
	"github.com/sauerbraten/frontline/internal/geom"
)

// Layout is everything a level file describes. Objectives refer to each other by name.
type Layout struct {
	Map         string       `yaml:"map"`
	Points      []Point      `yaml:"points"`
	Masters     []Master     `yaml:"masters"`
	Areas       []Area       `yaml:"areas"`
	BombTargets []BombTarget `yaml:"bomb_targets"`
	GamePlay    []GamePlay   `yaml:"gameplay"`
}

type Point struct {
	Name          string `yaml:"name"`
	DefaultOwner  string `yaml:"default_owner"`
	Hidden        bool   `yaml:"hidden"`
	PointValue    int    `yaml:"point_value"`
	BombsRequired int    `yaml:"bombs_required"`
}

type Master struct {
	Name     string   `yaml:"name"`
	Inactive bool     `yaml:"inactive"`
	Points   []string `yaml:"points"` // empty means all points
	Timer    *Timer   `yaml:"timer"`
}

type Timer struct {
	Length  float64 `yaml:"length"` // seconds
	WinTeam string  `yaml:"win_team"`
}

type Area struct {
	Name     string         `yaml:"name"`
	Point    string         `yaml:"point"`
	CapTime  float64        `yaml:"cap_time"`
	Cappers  map[string]int `yaml:"cappers"`   // team -> required players
	NoCapFor []string       `yaml:"no_cap_for"` // teams that may not capture here
	Disabled bool           `yaml:"disabled"`
}

type BombTarget struct {
	Name        string      `yaml:"name"`
	Point       string      `yaml:"point"`
	BombingTeam string      `yaml:"bombing_team"`
	AddSeconds  float64     `yaml:"add_seconds"`
	Origin      geom.Vector `yaml:"origin"`
	Disabled    bool        `yaml:"disabled"`
}

type GamePlay struct {
	Name                string  `yaml:"name"`
	Master              string  `yaml:"master"`
	AlliesRespawnFactor float64 `yaml:"allies_respawn_factor"`
	AxisRespawnFactor   float64 `yaml:"axis_respawn_factor"`
}

// Load reads and validates a level file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapdata: could not read level file: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mapdata: %s: %w", filepath.Base(path), err)
	}
	return l, nil
}

// LoadMap reads <dir>/<name>.yaml.
func LoadMap(dir, name string) (*Layout, error) {
	l, err := Load(filepath.Join(dir, name+".yaml"))
	if err != nil {
		return nil, err
	}
	if l.Map == "" {
		l.Map = name
	}
	return l, nil
}

func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("could not parse level YAML: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid level: %w", err)
	}
	return &l, nil
}

func parseTeam(s string, allowNeutral bool) (team.ID, error) {
	t := team.Parse(s)
	switch {
	case t.IsPlaying():
		return t, nil
	case t == team.None && allowNeutral:
		return t, nil
	default:
		return -1, fmt.Errorf("invalid team %q", s)
	}
}

func (l *Layout) validate() error {
	names := map[string]string{}
	unique := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s without a name", kind)
		}
		key := kind + "/" + name
		if _, ok := names[key]; ok {
			return fmt.Errorf("duplicate %s %q", kind, name)
		}
		names[key] = name
		return nil
	}

	for _, p := range l.Points {
		if err := unique("point", p.Name); err != nil {
			return err
		}
		if _, err := parseTeam(p.DefaultOwner, true); err != nil {
			return fmt.Errorf("point %q: %w", p.Name, err)
		}
		if p.BombsRequired < 0 {
			return fmt.Errorf("point %q: negative bombs_required", p.Name)
		}
	}
	for _, m := range l.Masters {
		if err := unique("master", m.Name); err != nil {
			return err
		}
		if m.Timer != nil {
			if m.Timer.Length <= 0 {
				return fmt.Errorf("master %q: timer length must be positive", m.Name)
			}
			if _, err := parseTeam(m.Timer.WinTeam, false); err != nil {
				return fmt.Errorf("master %q: timer: %w", m.Name, err)
			}
		}
	}
	for _, a := range l.Areas {
		if err := unique("area", a.Name); err != nil {
			return err
		}
		if a.CapTime < 0 {
			return fmt.Errorf("area %q: negative cap_time", a.Name)
		}
		for t, n := range a.Cappers {
			if _, err := parseTeam(t, false); err != nil {
				return fmt.Errorf("area %q: cappers: %w", a.Name, err)
			}
			if n < 1 {
				return fmt.Errorf("area %q: %s needs at least one capper", a.Name, t)
			}
		}
		for _, t := range a.NoCapFor {
			if _, err := parseTeam(t, false); err != nil {
				return fmt.Errorf("area %q: no_cap_for: %w", a.Name, err)
			}
		}
	}
	for _, b := range l.BombTargets {
		if err := unique("bomb target", b.Name); err != nil {
			return err
		}
		if _, err := parseTeam(b.BombingTeam, true); err != nil {
			return fmt.Errorf("bomb target %q: %w", b.Name, err)
		}
	}
	for _, g := range l.GamePlay {
		if err := unique("gameplay", g.Name); err != nil {
			return err
		}
	}
	return nil
}

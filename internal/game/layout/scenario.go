package layout

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// Scenario is a named starting position loaded from YAML:
//
//	name: corridor
//	first: mice
//	commander_health: 10
//	rows:
//	  - "#######"
//	  - "#M...G#"
//	  - "#######"
type Scenario struct {
	Name            string   `yaml:"name"`
	First           string   `yaml:"first"`
	UnitHealth      int      `yaml:"unit_health"`
	CommanderHealth int      `yaml:"commander_health"`
	Rows            []string `yaml:"rows"`
}

// Load decodes a scenario from r
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &s, nil
}

// LoadFile reads a scenario from a YAML file
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Board parses the scenario rows
func (s *Scenario) Board() (*core.Board, error) {
	b, err := Parse(s.Rows, Options{UnitHealth: s.UnitHealth, CommanderHealth: s.CommanderHealth})
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return b, nil
}

// FirstFaction returns the faction that moves first. Mice when unset.
func (s *Scenario) FirstFaction() (core.Faction, error) {
	if s.First == "" {
		return core.Mice, nil
	}
	return core.ParseFaction(s.First)
}

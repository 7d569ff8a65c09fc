package main

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// WorldConfig describes the cubic periodic domain a demo scenario runs
// in, loaded from the [World] section of a gcfg scenario file. Its
// CheckInit idiom follows the teacher's io/config.go BoxConfig.CheckInit.
type WorldConfig struct {
	Size       float64
	MatrixSize int
}

func (c *WorldConfig) CheckInit() error {
	if c.Size <= 0 {
		return fmt.Errorf("World.Size must be positive, got %g", c.Size)
	}
	if c.MatrixSize <= 0 {
		return fmt.Errorf("World.MatrixSize must be positive, got %d", c.MatrixSize)
	}
	return nil
}

// SpeciesConfig describes one particle species: its reaction radius and
// diffusion constant, loaded from a [Species "name"] section.
type SpeciesConfig struct {
	Radius float64
	D      float64
}

func (c *SpeciesConfig) CheckInit(name string) error {
	if c.Radius < 0 {
		return fmt.Errorf("Species %q: Radius must be non-negative, got %g", name, c.Radius)
	}
	if c.D < 0 {
		return fmt.Errorf("Species %q: D must be non-negative, got %g", name, c.D)
	}
	return nil
}

// ScenarioConfig is the top-level gcfg shape: a world and a named
// collection of species to seed particles for.
type ScenarioConfig struct {
	World   WorldConfig
	Species map[string]*SpeciesConfig
}

// ReadScenarioConfig loads and validates a demo scenario file.
func ReadScenarioConfig(path string) (*ScenarioConfig, error) {
	cfg := &ScenarioConfig{}
	if err := gcfg.ReadFileInto(cfg, path); err != nil {
		return nil, fmt.Errorf("cmd/rdcore-demo: reading %s: %w", path, err)
	}
	if err := cfg.World.CheckInit(); err != nil {
		return nil, err
	}
	for name, sp := range cfg.Species {
		if err := sp.CheckInit(name); err != nil {
			return nil, err
		}
	}
	if len(cfg.Species) == 0 {
		return nil, fmt.Errorf("cmd/rdcore-demo: scenario must declare at least one [Species]")
	}
	return cfg, nil
}

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one named preset in a scenarios YAML file. Applying a
// scenario replaces the corresponding flag values wholesale.
type Scenario struct {
	Agents           int     `yaml:"agents"`
	Seed             uint32  `yaml:"seed"`
	Steps            int     `yaml:"steps"`
	DT               float32 `yaml:"dt"`
	WorldWidth       float32 `yaml:"world_width"`
	WorldHeight      float32 `yaml:"world_height"`
	MaxSpeed         float32 `yaml:"max_speed"`
	MaxForce         float32 `yaml:"max_force"`
	NeighborRadius   float32 `yaml:"neighbor_radius"`
	SeparationRadius float32 `yaml:"separation_radius"`
	InfectionRadius  float32 `yaml:"infection_radius"`
	InfectionBeta    float32 `yaml:"beta"`
	InfectiousPeriod float32 `yaml:"infectious_period"`
	InitialInfected  int     `yaml:"initial_infected"`
}

// ScenarioFile is the top-level structure of a scenarios YAML file.
type ScenarioFile struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadScenario reads a scenarios YAML file and returns the named entry.
// Parsing is strict: unknown fields are errors, so preset typos surface
// instead of silently falling back to flag defaults.
func LoadScenario(path, name string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario file: %w", err)
	}

	var file ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	sc, ok := file.Scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario %q not found in %s", name, path)
	}
	return sc, nil
}

// Apply installs the scenario's values into the shared flag variables.
func (sc Scenario) Apply() {
	agents = sc.Agents
	seed = sc.Seed
	steps = sc.Steps
	dt = sc.DT
	worldWidth = sc.WorldWidth
	worldHeight = sc.WorldHeight
	maxSpeed = sc.MaxSpeed
	maxForce = sc.MaxForce
	neighborRadius = sc.NeighborRadius
	separationRadius = sc.SeparationRadius
	infectionRadius = sc.InfectionRadius
	infectionBeta = sc.InfectionBeta
	infectiousPeriod = sc.InfectiousPeriod
	initialInfected = sc.InitialInfected
}

package sim

import "fmt"

// HealthState is an agent's epidemic compartment. Transitions are
// one-directional: Susceptible -> Infected -> Recovered, and Recovered is
// terminal (no reinfection).
type HealthState int

const (
	// Susceptible agents can contract the infection on contact.
	Susceptible HealthState = iota
	// Infected agents transmit within InfectionRadius until their
	// infectious period elapses.
	Infected
	// Recovered agents neither contract nor transmit.
	Recovered
)

// NumHealthStates is the number of compartments; it sizes the per-state
// policy array.
const NumHealthStates = 3

// AllHealthStates lists the compartments in slot order.
var AllHealthStates = [NumHealthStates]HealthState{Susceptible, Infected, Recovered}

// slot maps a health state to its policy/array index. The mapping is
// exhaustive on purpose: a new compartment that is not given a slot here
// panics on first use instead of silently sharing one.
func (h HealthState) slot() int {
	switch h {
	case Susceptible:
		return 0
	case Infected:
		return 1
	case Recovered:
		return 2
	default:
		panic(fmt.Sprintf("sim: health state %d has no slot", int(h)))
	}
}

// String returns the lowercase compartment name.
func (h HealthState) String() string {
	switch h {
	case Susceptible:
		return "susceptible"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	default:
		return fmt.Sprintf("healthstate(%d)", int(h))
	}
}

// ParseHealthState parses a compartment name as produced by String.
func ParseHealthState(s string) (HealthState, error) {
	switch s {
	case "susceptible":
		return Susceptible, nil
	case "infected":
		return Infected, nil
	case "recovered":
		return Recovered, nil
	default:
		return 0, fmt.Errorf("unknown health state %q (want susceptible, infected, or recovered)", s)
	}
}

// Counts is a point-in-time aggregate of the population by compartment.
// Derived on demand via Simulation.Counts; never persisted by the engine.
type Counts struct {
	Susceptible int
	Infected    int
	Recovered   int
}

// Total returns the population size covered by the counts.
func (c Counts) Total() int {
	return c.Susceptible + c.Infected + c.Recovered
}

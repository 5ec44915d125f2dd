// sim/simulator.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulation is the core object that owns the agent arrays, configuration,
// spatial grid, random stream, and the three per-health-state policies.
//
// Agent state is columnar (separate position/velocity/state/timer slices)
// and mutated only inside Step. The population size is fixed for the
// lifetime of a run.
//
// Single-threaded: Step runs to completion before returning, and no method
// may be called concurrently without external synchronization.
type Simulation struct {
	posX, posY   []float32
	velX, velY   []float32
	state        []HealthState
	infectedTime []float32 // seconds since entering Infected

	grid     *Grid
	cfg      Config
	rng      *LCG
	policies [NumHealthStates]*Policy

	// Pending-write buffers. Each step reads one consistent snapshot of
	// every agent before any position or state is written, so rollout
	// results do not depend on agent index order.
	accelX, accelY   []float32
	pendingInfection []bool

	// Scratch reused across Forward calls within a step.
	featureBuf []float32
	hiddenBuf  []float32

	stepCount     int
	extinctLogged bool
}

// NewSimulation creates a population of count agents placed uniformly in the
// world with randomized headings, randomizes the three policies, and seeds
// the initial infections. The entire construction consumes a single LCG
// stream derived from seed, so identical (count, cfg, seed) triples produce
// identical simulations.
func NewSimulation(count int, cfg Config, seed uint32) *Simulation {
	if count < 1 {
		count = 1
	}
	cfg.normalize()

	s := &Simulation{
		posX:             make([]float32, count),
		posY:             make([]float32, count),
		velX:             make([]float32, count),
		velY:             make([]float32, count),
		state:            make([]HealthState, count),
		infectedTime:     make([]float32, count),
		grid:             NewGrid(cfg.cellSize()),
		cfg:              cfg,
		rng:              NewLCG(seed),
		accelX:           make([]float32, count),
		accelY:           make([]float32, count),
		pendingInfection: make([]bool, count),
		featureBuf:       make([]float32, FeatureSize),
		hiddenBuf:        make([]float32, HiddenSize),
	}

	for i := 0; i < count; i++ {
		s.posX[i] = s.rng.NextFloat32() * cfg.WorldSize.X
		s.posY[i] = s.rng.NextFloat32() * cfg.WorldSize.Y
		angle := float64(s.rng.NextFloat32()) * 2 * math.Pi
		speed := cfg.MaxSpeed * (0.3 + 0.7*s.rng.NextFloat32())
		s.velX[i] = float32(math.Cos(angle)) * speed
		s.velY[i] = float32(math.Sin(angle)) * speed
		s.state[i] = Susceptible
	}

	for slot := range s.policies {
		s.policies[slot] = NewPolicy(FeatureSize, HiddenSize)
		s.policies[slot].Randomize(s.rng, 0.6)
	}

	s.seedInfections()
	return s
}

// seedInfections marks InitialInfected agents as Infected. Indices are
// drawn with replacement, so colliding draws seed fewer agents.
func (s *Simulation) seedInfections() {
	n := s.cfg.InitialInfected
	if n > len(s.posX) {
		n = len(s.posX)
	}
	for k := 0; k < n; k++ {
		idx := int(s.rng.NextFloat32() * float32(len(s.posX)))
		if idx >= len(s.posX) {
			idx = len(s.posX) - 1
		}
		s.state[idx] = Infected
		s.infectedTime[idx] = 0
	}
}

// Step advances the simulation by dt seconds in four fixed phases:
// grid rebuild, per-agent feature extraction + policy evaluation +
// infection draws, integration, and epidemic transitions. The phase order
// and the per-phase agent index order are determinism-critical.
func (s *Simulation) Step(dt float32) {
	s.rebuildGrid()

	for i := range s.accelX {
		s.accelX[i] = 0
		s.accelY[i] = 0
		s.pendingInfection[i] = false
	}

	// Rate-to-probability conversion keeps infection pressure independent
	// of the frame rate.
	infectP := 1 - exp32(-s.cfg.InfectionBeta*dt)

	for i := range s.posX {
		infectedContact := s.featuresFor(i, s.featureBuf)
		policy := s.policies[s.state[i].slot()]
		accel := policy.Forward(s.featureBuf, s.hiddenBuf).
			Scale(s.cfg.MaxForce).
			Limit(s.cfg.MaxForce)
		s.accelX[i] = accel.X
		s.accelY[i] = accel.Y
		if s.state[i] == Susceptible && infectedContact && s.rng.NextFloat32() < infectP {
			s.pendingInfection[i] = true
		}
	}

	maxSpeed := s.cfg.MaxSpeed
	for i := range s.posX {
		s.velX[i] += s.accelX[i] * dt
		s.velY[i] += s.accelY[i] * dt
		speedSq := s.velX[i]*s.velX[i] + s.velY[i]*s.velY[i]
		if speedSq > maxSpeed*maxSpeed {
			scale := maxSpeed / sqrt32(speedSq)
			s.velX[i] *= scale
			s.velY[i] *= scale
		}

		s.posX[i] += s.velX[i] * dt
		s.posY[i] += s.velY[i] * dt
		wrapped := wrapPosition(Vec2{X: s.posX[i], Y: s.posY[i]}, s.cfg.WorldSize)
		s.posX[i] = wrapped.X
		s.posY[i] = wrapped.Y
	}

	infectedLeft := 0
	for i := range s.posX {
		if s.pendingInfection[i] {
			s.state[i] = Infected
			s.infectedTime[i] = 0
		}
		if s.state[i] == Infected {
			s.infectedTime[i] += dt
			if s.infectedTime[i] >= s.cfg.InfectiousPeriod {
				s.state[i] = Recovered
			} else {
				infectedLeft++
			}
		}
	}

	s.stepCount++
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		c := s.Counts()
		logrus.Tracef("[step %06d] S/I/R %d/%d/%d", s.stepCount, c.Susceptible, c.Infected, c.Recovered)
	}
	if infectedLeft == 0 && !s.extinctLogged && s.cfg.InitialInfected > 0 {
		s.extinctLogged = true
		logrus.Debugf("[step %06d] no infected agents remain", s.stepCount)
	}
}

// rebuildGrid reinserts every agent into the grid from its current
// position. Always called before any neighbor query within the same step.
func (s *Simulation) rebuildGrid() {
	s.grid.Clear()
	for i := range s.posX {
		s.grid.Insert(i, Vec2{X: s.posX[i], Y: s.posY[i]})
	}
}

// Counts scans the population and returns the per-compartment aggregate.
func (s *Simulation) Counts() Counts {
	var c Counts
	for _, st := range s.state {
		switch st {
		case Susceptible:
			c.Susceptible++
		case Infected:
			c.Infected++
		case Recovered:
			c.Recovered++
		}
	}
	return c
}

// AgentCount returns the fixed population size.
func (s *Simulation) AgentCount() int {
	return len(s.posX)
}

// AgentPosition returns agent idx's position.
func (s *Simulation) AgentPosition(idx int) Vec2 {
	return Vec2{X: s.posX[idx], Y: s.posY[idx]}
}

// AgentVelocity returns agent idx's velocity.
func (s *Simulation) AgentVelocity(idx int) Vec2 {
	return Vec2{X: s.velX[idx], Y: s.velY[idx]}
}

// AgentState returns agent idx's health state.
func (s *Simulation) AgentState(idx int) HealthState {
	return s.state[idx]
}

// PolicyFor returns a copy of the policy driving the given health state.
func (s *Simulation) PolicyFor(state HealthState) *Policy {
	return s.policies[state.slot()].Clone()
}

// SetPolicyFor replaces the policy driving the given health state with a
// copy of p.
func (s *Simulation) SetPolicyFor(state HealthState, p *Policy) {
	s.policies[state.slot()] = p.Clone()
}

// SetWorldSize updates the toroidal world extent. Agents outside the new
// extent wrap back in on the next step.
func (s *Simulation) SetWorldSize(size Vec2) {
	s.cfg.WorldSize = size
}

// SetMotionParams updates the flocking parameters, clamping each to its
// safe minimum, and resizes the grid cells to keep neighbor queries valid.
func (s *Simulation) SetMotionParams(neighborRadius, separationRadius, maxSpeed, maxForce float32) {
	s.cfg.NeighborRadius = neighborRadius
	s.cfg.SeparationRadius = separationRadius
	s.cfg.MaxSpeed = maxSpeed
	s.cfg.MaxForce = maxForce
	s.cfg.normalize()
	s.grid.SetCellSize(s.cfg.cellSize())
}

// SetInfectionParams updates the epidemic parameters, clamping each to its
// safe minimum, and resizes the grid cells to keep contact queries valid.
func (s *Simulation) SetInfectionParams(infectionRadius, infectionBeta, infectiousPeriod float32) {
	s.cfg.InfectionRadius = infectionRadius
	s.cfg.InfectionBeta = infectionBeta
	s.cfg.InfectiousPeriod = infectiousPeriod
	s.cfg.normalize()
	s.grid.SetCellSize(s.cfg.cellSize())
}

// Config returns a copy of the active configuration after clamping.
func (s *Simulation) Config() Config {
	return s.cfg
}

// wrapPosition maps pos back into [0, size) on each axis. Positions are
// integrated by at most one world length per step, so a single add or
// subtract suffices.
func wrapPosition(pos, size Vec2) Vec2 {
	if pos.X < 0 {
		pos.X += size.X
	} else if pos.X >= size.X {
		pos.X -= size.X
	}
	if pos.Y < 0 {
		pos.Y += size.Y
	} else if pos.Y >= size.Y {
		pos.Y -= size.Y
	}
	return pos
}

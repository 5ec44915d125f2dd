package sim

// Config holds every tunable simulation parameter. Values are clamped to
// safe minimums rather than rejected: the presentation layer pushes slider
// updates per frame and must never be able to wedge the engine with a
// non-positive radius or speed.
type Config struct {
	WorldSize        Vec2    // toroidal world extent; positions wrap into [0, WorldSize)
	MaxSpeed         float32 // velocity magnitude ceiling (units/s)
	MaxForce         float32 // acceleration magnitude ceiling (units/s^2)
	NeighborRadius   float32 // flocking perception radius
	SeparationRadius float32 // short-range repulsion radius (<= NeighborRadius)
	InfectionRadius  float32 // contact distance for transmission
	InfectionBeta    float32 // transmission rate beta (1/s); converted per step to 1-exp(-beta*dt)
	InfectiousPeriod float32 // seconds spent Infected before recovery
	InitialInfected  int     // agents seeded Infected at construction
}

// normalize clamps all fields to their safe minimums.
func (c *Config) normalize() {
	if c.MaxSpeed < 1.0 {
		c.MaxSpeed = 1.0
	}
	if c.MaxForce < 1.0 {
		c.MaxForce = 1.0
	}
	if c.NeighborRadius < 1.0 {
		c.NeighborRadius = 1.0
	}
	if c.SeparationRadius > c.NeighborRadius {
		c.SeparationRadius = c.NeighborRadius
	}
	if c.SeparationRadius < 0.5 {
		c.SeparationRadius = 0.5
	}
	if c.InfectionRadius < 1.0 {
		c.InfectionRadius = 1.0
	}
	if c.InfectionBeta < 0 {
		c.InfectionBeta = 0
	}
	if c.InfectiousPeriod < 0.1 {
		c.InfectiousPeriod = 0.1
	}
	if c.InitialInfected < 0 {
		c.InitialInfected = 0
	}
}

// cellSize is the grid cell size implied by the config: the larger of the
// two query radii, so that a 3x3 cell block always covers both.
func (c *Config) cellSize() float32 {
	if c.InfectionRadius > c.NeighborRadius {
		return c.InfectionRadius
	}
	return c.NeighborRadius
}

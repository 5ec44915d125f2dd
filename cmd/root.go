package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/flock-sim/flock-sim/sim"
)

var (
	// CLI flags shared by run and train
	seed             uint32  // Seed for the simulation's random stream
	agents           int     // Population size
	steps            int     // Number of fixed-dt steps to run
	dt               float32 // Timestep in seconds
	logLevel         string  // Log verbosity level
	worldWidth       float32 // Toroidal world width
	worldHeight      float32 // Toroidal world height
	maxSpeed         float32 // Velocity magnitude ceiling
	maxForce         float32 // Acceleration magnitude ceiling
	neighborRadius   float32 // Flocking perception radius
	separationRadius float32 // Short-range repulsion radius
	infectionRadius  float32 // Contact distance for transmission
	infectionBeta    float32 // Transmission rate (1/s)
	infectiousPeriod float32 // Seconds spent Infected before recovery
	initialInfected  int     // Agents seeded Infected at construction
	scenarioFile     string  // YAML file with named scenario presets
	scenarioName     string  // Scenario to load from the file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flock-sim",
	Short: "Flocking + SIR epidemic simulator with CEM-tuned neural steering",
}

// runCmd executes a headless simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation and report the epidemic curve",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := buildConfig()

		logrus.Infof("Starting simulation with %d agents, %d steps, dt=%.4fs, seed=%d",
			agents, steps, dt, seed)
		startTime := time.Now()

		s := sim.NewSimulation(agents, cfg, seed)
		metrics := sim.NewMetrics()
		for i := 0; i < steps; i++ {
			s.Step(dt)
			metrics.Record(s.Counts())
		}

		metrics.Print()
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// setupLogging parses and installs the --log level.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildConfig assembles the simulation config from the flag values,
// applying the scenario preset first when one was requested.
func buildConfig() sim.Config {
	if scenarioFile != "" {
		sc, err := LoadScenario(scenarioFile, scenarioName)
		if err != nil {
			logrus.Fatalf("unable to load scenario: %v", err)
		}
		sc.Apply()
		logrus.Infof("Loaded scenario %q from %s", scenarioName, scenarioFile)
	}
	return sim.Config{
		WorldSize:        sim.NewVec2(worldWidth, worldHeight),
		MaxSpeed:         maxSpeed,
		MaxForce:         maxForce,
		NeighborRadius:   neighborRadius,
		SeparationRadius: separationRadius,
		InfectionRadius:  infectionRadius,
		InfectionBeta:    infectionBeta,
		InfectiousPeriod: infectiousPeriod,
		InitialInfected:  initialInfected,
	}
}

// addSimFlags registers the simulation parameter flags on a subcommand.
// Defaults match the baseline scenario (800x600 world, 1200 agents, 600
// steps at 60 Hz).
func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&seed, "seed", 1337, "Seed for the simulation's random stream")
	cmd.Flags().IntVar(&agents, "agents", 1200, "Population size")
	cmd.Flags().IntVar(&steps, "steps", 600, "Number of fixed-dt steps to run")
	cmd.Flags().Float32Var(&dt, "dt", 1.0/60.0, "Timestep in seconds")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	cmd.Flags().Float32Var(&worldWidth, "world-width", 800, "Toroidal world width")
	cmd.Flags().Float32Var(&worldHeight, "world-height", 600, "Toroidal world height")
	cmd.Flags().Float32Var(&maxSpeed, "max-speed", 160, "Velocity magnitude ceiling")
	cmd.Flags().Float32Var(&maxForce, "max-force", 80, "Acceleration magnitude ceiling")
	cmd.Flags().Float32Var(&neighborRadius, "neighbor-radius", 60, "Flocking perception radius")
	cmd.Flags().Float32Var(&separationRadius, "separation-radius", 22, "Short-range repulsion radius")
	cmd.Flags().Float32Var(&infectionRadius, "infection-radius", 18, "Contact distance for transmission")
	cmd.Flags().Float32Var(&infectionBeta, "beta", 1.2, "Transmission rate (1/s)")
	cmd.Flags().Float32Var(&infectiousPeriod, "infectious-period", 6.0, "Seconds spent Infected before recovery")
	cmd.Flags().IntVar(&initialInfected, "initial-infected", 8, "Agents seeded Infected at construction")

	cmd.Flags().StringVar(&scenarioFile, "scenario-file", "", "YAML file with named scenario presets (overrides the flags above)")
	cmd.Flags().StringVar(&scenarioName, "scenario", "baseline", "Scenario to load from --scenario-file")
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	addSimFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

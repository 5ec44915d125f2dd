package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/flock-sim/flock-sim/sim"
)

var (
	// CLI flags for the CEM trainer
	popSize     int     // Candidates drawn per refinement
	eliteCount  int     // Top candidates averaged into the new mean
	sigma       float32 // Stddev of the Gaussian perturbation
	generations int     // Refinement steps per target state
	trainSeed   uint32  // Seed for the trainer's perturbation stream
	rolloutSeed uint32  // Seed for every scoring rollout
	targetState string  // Health state to refine ("all" refines each in turn)
)

// trainCmd refines the per-health-state policies with the cross-entropy
// method, then reruns the scenario with the refined policies installed.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Refine the per-health-state steering policies with CEM",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := buildConfig()

		targets := sim.AllHealthStates[:]
		if targetState != "all" {
			state, err := sim.ParseHealthState(targetState)
			if err != nil {
				logrus.Fatalf("Invalid --target: %v", err)
			}
			targets = []sim.HealthState{state}
		}

		logrus.Infof("Starting CEM training: pop=%d elite=%d sigma=%.2f generations=%d targets=%v",
			popSize, eliteCount, sigma, generations, targets)
		startTime := time.Now()

		// The base simulation contributes the initial randomized policies.
		base := sim.NewSimulation(agents, cfg, seed)
		trainer := sim.NewTrainer(sim.TrainerConfig{
			PopSize:     popSize,
			EliteCount:  eliteCount,
			Sigma:       sigma,
			AgentCount:  agents,
			Steps:       steps,
			DT:          dt,
			RolloutSeed: rolloutSeed,
		}, cfg, [sim.NumHealthStates]*sim.Policy{
			base.PolicyFor(sim.Susceptible),
			base.PolicyFor(sim.Infected),
			base.PolicyFor(sim.Recovered),
		}, nil)

		rng := sim.NewLCG(trainSeed)
		for gen := 0; gen < generations; gen++ {
			for _, target := range targets {
				best, score := trainer.Refine(target, rng)
				trainer.SetPolicy(target, best)
				logrus.Infof("generation %d: CEM %s best score %.1f", gen+1, target, score)
			}
		}

		// Rerun the scenario with the refined policies installed.
		final := sim.NewSimulation(agents, cfg, seed)
		for _, state := range sim.AllHealthStates {
			final.SetPolicyFor(state, trainer.Policy(state))
		}
		metrics := sim.NewMetrics()
		for i := 0; i < steps; i++ {
			final.Step(dt)
			metrics.Record(final.Counts())
		}

		metrics.Print()
		logrus.Infof("Training complete in %v.", time.Since(startTime))
	},
}

// init sets up CLI flags and attaches the train subcommand
func init() {
	addSimFlags(trainCmd)

	trainCmd.Flags().IntVar(&popSize, "pop-size", 24, "Candidates drawn per refinement")
	trainCmd.Flags().IntVar(&eliteCount, "elite", 6, "Top candidates averaged into the new mean")
	trainCmd.Flags().Float32Var(&sigma, "sigma", 0.35, "Stddev of the Gaussian perturbation")
	trainCmd.Flags().IntVar(&generations, "generations", 1, "Refinement steps per target state")
	trainCmd.Flags().Uint32Var(&trainSeed, "train-seed", 4242, "Seed for the trainer's perturbation stream")
	trainCmd.Flags().Uint32Var(&rolloutSeed, "rollout-seed", 9001, "Seed for every scoring rollout")
	trainCmd.Flags().StringVar(&targetState, "target", "all", "Health state to refine (susceptible, infected, recovered, or all)")

	rootCmd.AddCommand(trainCmd)
}

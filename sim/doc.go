// Package sim provides the core agent-based simulation engine coupling
// flocking motion with a stochastic SIR epidemic, steered by small
// per-health-state neural policies.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - simulator.go: the Simulation type, agent arrays, and the
//     read-all-then-write-all Step loop
//   - features.go: the 14-element neighborhood feature vector fed to the
//     active policy each step
//   - cem.go: the cross-entropy trainer that refines one compartment's
//     policy by scoring candidates over full rollouts
//
// # Determinism
//
// Every random draw flows through the LCG in rng.go, neighbor visitation
// order is fixed by the grid (grid.go), and each Step phase reads a
// consistent snapshot before writing. Identical (count, config, seed)
// triples therefore produce bit-identical runs, which is what makes CEM
// rollout scores comparable.
//
// # Extension points
//
// The trainer's objective is a FitnessFunc; DefaultFitness reproduces the
// per-compartment final-count scores. Policies are exchanged as copies via
// Simulation.PolicyFor / SetPolicyFor.
//
// Thread-safety: none. A Simulation or Trainer must not be shared across
// goroutines without external synchronization.
package sim

package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// FitnessFunc scores a finished rollout on behalf of the health state whose
// policy is being refined. Higher is better. The final-count objective is
// deliberately pluggable: what a compartment "wants" is a modelling choice,
// not an engine invariant.
type FitnessFunc func(target HealthState, final Counts) float32

// DefaultFitness scores each compartment by its own ending:
// Susceptible policies for agents that stayed uninfected, Infected policies
// for total spread (ever-infected agents), Recovered policies for a
// population that ends healthy.
func DefaultFitness(target HealthState, final Counts) float32 {
	switch target {
	case Susceptible:
		return float32(final.Susceptible)
	case Infected:
		return float32(final.Infected + final.Recovered)
	case Recovered:
		return float32(final.Susceptible + final.Recovered)
	default:
		return float32(math.NaN())
	}
}

// TrainerConfig holds the CEM hyperparameters and the rollout shape.
type TrainerConfig struct {
	PopSize     int     // candidates drawn per refinement
	EliteCount  int     // top candidates averaged into the new mean
	Sigma       float32 // stddev of the Gaussian perturbation
	AgentCount  int     // agents per rollout
	Steps       int     // rollout length in steps
	DT          float32 // rollout timestep (seconds)
	RolloutSeed uint32  // every rollout runs from this seed, making scores comparable
}

// normalize clamps the hyperparameters to usable minimums, matching the
// engine's clamp-not-reject convention.
func (c *TrainerConfig) normalize() {
	if c.PopSize < 1 {
		c.PopSize = 1
	}
	if c.EliteCount < 1 {
		c.EliteCount = 1
	}
	if c.EliteCount > c.PopSize {
		c.EliteCount = c.PopSize
	}
	if c.Sigma < 0 {
		c.Sigma = 0
	}
	if c.AgentCount < 1 {
		c.AgentCount = 1
	}
	if c.Steps < 1 {
		c.Steps = 1
	}
	if c.DT <= 0 {
		c.DT = 1.0 / 60.0
	}
}

// Trainer refines one health state's policy at a time with a single
// cross-entropy step, holding the other two policies fixed. It keeps its
// own copies of the three policies; install refined results back into a
// live simulation via Simulation.SetPolicyFor.
//
// Each candidate is scored by a fresh, fixed-length, fixed-seed rollout,
// so fitness differences come from the candidate parameters alone.
type Trainer struct {
	cfg      TrainerConfig
	simCfg   Config
	policies [NumHealthStates]*Policy
	fitness  FitnessFunc
}

// candidate pairs a perturbed parameter vector with its rollout score.
type candidate struct {
	params []float32
	score  float32
}

// NewTrainer creates a trainer over copies of the given policies.
// A nil fitness selects DefaultFitness.
func NewTrainer(cfg TrainerConfig, simCfg Config, policies [NumHealthStates]*Policy, fitness FitnessFunc) *Trainer {
	cfg.normalize()
	simCfg.normalize()
	if fitness == nil {
		fitness = DefaultFitness
	}
	t := &Trainer{
		cfg:     cfg,
		simCfg:  simCfg,
		fitness: fitness,
	}
	for slot, p := range policies {
		t.policies[slot] = p.Clone()
	}
	return t
}

// Policy returns a copy of the trainer's current policy for state.
func (t *Trainer) Policy(state HealthState) *Policy {
	return t.policies[state.slot()].Clone()
}

// SetPolicy replaces the trainer's policy for state with a copy of p.
func (t *Trainer) SetPolicy(state HealthState, p *Policy) {
	t.policies[state.slot()] = p.Clone()
}

// Refine performs one CEM refinement step for the target state: draw
// PopSize Gaussian perturbations of the current parameter mean, score each
// with a rollout, and average the EliteCount best vectors into the new
// mean. Returns the refined policy and the best observed score.
//
// Refine does not install the result; callers decide whether to SetPolicy
// the refined mean (e.g. across repeated generations) or discard it.
func (t *Trainer) Refine(target HealthState, rng *LCG) (*Policy, float32) {
	mean := t.policies[target.slot()].ToVector()

	candidates := make([]candidate, 0, t.cfg.PopSize)
	for c := 0; c < t.cfg.PopSize; c++ {
		params := make([]float32, len(mean))
		for i := range params {
			params[i] = mean[i] + rng.NextNormal()*t.cfg.Sigma
		}
		score := t.evaluate(target, params)
		logrus.Debugf("cem %s candidate %d/%d score %.1f", target, c+1, t.cfg.PopSize, score)
		candidates = append(candidates, candidate{params: params, score: score})
	}

	rankCandidates(candidates)
	best := candidates[0].score

	// Elite averaging in float64; the accumulated mean is converted back
	// to the policy's float32 parameters once.
	acc := make([]float64, len(mean))
	buf := make([]float64, len(mean))
	for e := 0; e < t.cfg.EliteCount; e++ {
		for i, v := range candidates[e].params {
			buf[i] = float64(v)
		}
		floats.Add(acc, buf)
	}
	floats.Scale(1/float64(t.cfg.EliteCount), acc)

	refined := make([]float32, len(mean))
	for i, v := range acc {
		refined[i] = float32(v)
	}
	logrus.Infof("cem %s refined: best score %.1f over %d candidates (elite %d)",
		target, best, t.cfg.PopSize, t.cfg.EliteCount)
	return PolicyFromVector(FeatureSize, HiddenSize, refined), best
}

// Evaluate scores an arbitrary parameter vector for the target state with
// one rollout. Refine uses it internally; it is exported so drivers can
// score the unperturbed mean for comparison.
func (t *Trainer) Evaluate(target HealthState, params []float32) float32 {
	return t.evaluate(target, params)
}

func (t *Trainer) evaluate(target HealthState, params []float32) float32 {
	roll := NewSimulation(t.cfg.AgentCount, t.simCfg, t.cfg.RolloutSeed)
	for _, state := range AllHealthStates {
		roll.SetPolicyFor(state, t.policies[state.slot()])
	}
	roll.SetPolicyFor(target, PolicyFromVector(FeatureSize, HiddenSize, params))

	for i := 0; i < t.cfg.Steps; i++ {
		roll.Step(t.cfg.DT)
	}
	return t.fitness(target, roll.Counts())
}

// rankCandidates sorts by score descending with NaN scores last. A NaN
// fitness is a latent bug signal, not a reason to fail the refinement, so
// it is ranked below every finite score instead of being left unordered
// (a bare > comparator would let a NaN act as a barrier the finite
// candidates cannot cross). The sort is stable.
func rankCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := cands[i].score, cands[j].score
		if math.IsNaN(float64(si)) {
			return false
		}
		return math.IsNaN(float64(sj)) || si > sj
	})
}

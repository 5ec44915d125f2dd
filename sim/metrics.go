// Tracks the epidemic curve of a run for end-of-run reporting.

package sim

import "fmt"

// Metrics aggregates per-step compartment counts into run statistics.
// It is driver-owned: the engine derives Counts on demand and persists
// nothing, so a driver feeds Record once per step.
type Metrics struct {
	Steps          int    // number of recorded steps
	Final          Counts // counts at the last recorded step
	PeakInfected   int    // max simultaneous Infected
	PeakStep       int    // step at which PeakInfected occurred
	ExtinctionStep int    // first step with zero Infected; -1 while the epidemic is active
}

// NewMetrics creates an empty recorder.
func NewMetrics() *Metrics {
	return &Metrics{ExtinctionStep: -1}
}

// Record folds one step's counts into the aggregates.
func (m *Metrics) Record(c Counts) {
	m.Steps++
	m.Final = c
	if c.Infected > m.PeakInfected {
		m.PeakInfected = c.Infected
		m.PeakStep = m.Steps
	}
	if c.Infected == 0 && m.ExtinctionStep < 0 {
		m.ExtinctionStep = m.Steps
	}
}

// AttackSize returns the number of agents ever infected (infected +
// recovered at the last recorded step).
func (m *Metrics) AttackSize() int {
	return m.Final.Infected + m.Final.Recovered
}

// Print displays the aggregated epidemic metrics at the end of a run.
func (m *Metrics) Print() {
	fmt.Println("=== Epidemic Metrics ===")
	fmt.Printf("Steps recorded  : %d\n", m.Steps)
	fmt.Printf("Final S/I/R     : %d/%d/%d\n", m.Final.Susceptible, m.Final.Infected, m.Final.Recovered)
	if total := m.Final.Total(); total > 0 {
		fmt.Printf("Attack size     : %d (%.1f%%)\n", m.AttackSize(), 100*float64(m.AttackSize())/float64(total))
	}
	fmt.Printf("Peak infected   : %d at step %d\n", m.PeakInfected, m.PeakStep)
	if m.ExtinctionStep >= 0 {
		fmt.Printf("Extinct at step : %d\n", m.ExtinctionStep)
	} else {
		fmt.Println("Extinct at step : - (epidemic still active)")
	}
}

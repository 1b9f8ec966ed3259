// Package monitor enforces the convergence policy of a run.
//
// The monitor is a three-state machine driven purely by cycle index. During
// warm-up it only records the error. Once the settling threshold is reached
// every cycle must stay within the settling tolerance, and after the last
// cycle the final tolerance applies.
package monitor

import (
	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Stats is what the monitor has seen so far.
type Stats struct {
	Observed        int
	LastError       int64
	MaxWarmingError uint64
	MaxSettlingErr  uint64
}

type Monitor struct {
	policy Policy
	stats  Stats
}

func New(policy Policy) *Monitor {
	return &Monitor{policy: policy}
}

func (m *Monitor) Stats() Stats { return m.stats }

// Observe evaluates one cycle. It returns a settling violation as soon as a
// cycle in the settling window exceeds its tolerance.
func (m *Monitor) Observe(cycle int, setpoint, feedback signal.Value) error {
	errv := signal.Diff(setpoint, feedback)
	mag := signal.AbsDiff(setpoint, feedback)

	m.stats.Observed++
	m.stats.LastError = errv

	switch m.policy.PhaseAt(cycle) {
	case bench.PhaseWarming:
		m.stats.MaxWarmingError = max(m.stats.MaxWarmingError, mag)
		return nil
	case bench.PhaseSettling:
		m.stats.MaxSettlingErr = max(m.stats.MaxSettlingErr, mag)
		if mag > m.policy.ToleranceDuringSettling {
			return &bench.Violation{
				Phase:     bench.PhaseSettling,
				Cycle:     cycle,
				Setpoint:  setpoint,
				Feedback:  feedback,
				Deviation: errv,
				Magnitude: mag,
				Tolerance: m.policy.ToleranceDuringSettling,
			}
		}
	}
	return nil
}

// Finish applies the final tolerance to the state left after the last cycle.
func (m *Monitor) Finish(setpoint, feedback signal.Value) error {
	errv := signal.Diff(setpoint, feedback)
	m.stats.LastError = errv
	if signal.AbsDiff(setpoint, feedback) > m.policy.ToleranceFinal {
		return &bench.Violation{
			Phase:     bench.PhaseFinal,
			Cycle:     m.policy.TotalCycles,
			Setpoint:  setpoint,
			Feedback:  feedback,
			Deviation: errv,
			Magnitude: signal.AbsDiff(setpoint, feedback),
			Tolerance: m.policy.ToleranceFinal,
		}
	}
	return nil
}

// Reset clears accumulated statistics.
func (m *Monitor) Reset() {
	m.stats = Stats{}
}

package monitor

import (
	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
)

// Policy is the convergence contract for one run. Tolerances are absolute
// error bounds; cycles in [SettlingCycleThreshold, TotalCycles) are held to
// ToleranceDuringSettling and the state after the last cycle to
// ToleranceFinal.
type Policy struct {
	ToleranceDuringSettling uint64 `yaml:"tolerance_during_settling" json:"tolerance_during_settling"`
	ToleranceFinal          uint64 `yaml:"tolerance_final" json:"tolerance_final"`
	SettlingCycleThreshold  int    `yaml:"settling_cycle_threshold" json:"settling_cycle_threshold"`
	TotalCycles             int    `yaml:"total_cycles" json:"total_cycles"`
}

func DefaultPolicy() Policy {
	return Policy{
		ToleranceDuringSettling: 5,
		ToleranceFinal:          2,
		SettlingCycleThreshold:  90,
		TotalCycles:             100,
	}
}

func (p Policy) Validate() error {
	if p.TotalCycles <= 0 {
		return errors.Wrapf(bench.ErrInvalidPolicy, "total cycles must be positive, got %d", p.TotalCycles)
	}
	if p.SettlingCycleThreshold < 0 {
		return errors.Wrapf(bench.ErrInvalidPolicy, "settling threshold must not be negative, got %d", p.SettlingCycleThreshold)
	}
	if p.SettlingCycleThreshold > p.TotalCycles {
		return errors.Wrapf(bench.ErrInvalidPolicy, "settling threshold %d beyond total cycles %d",
			p.SettlingCycleThreshold, p.TotalCycles)
	}
	return nil
}

// PhaseAt maps a cycle index to its policy phase.
func (p Policy) PhaseAt(cycle int) bench.Phase {
	switch {
	case cycle < p.SettlingCycleThreshold:
		return bench.PhaseWarming
	case cycle < p.TotalCycles:
		return bench.PhaseSettling
	default:
		return bench.PhaseFinal
	}
}

package bench

import (
	"fmt"

	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Phase is the convergence policy state a cycle falls into.
type Phase int

const (
	PhaseWarming Phase = iota
	PhaseSettling
	PhaseFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseWarming:
		return "warming"
	case PhaseSettling:
		return "settling"
	case PhaseFinal:
		return "final"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase is the inverse of Phase.String for the named phases.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseWarming; p <= PhaseFinal; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// CycleRecord is what the loop looked like right after a cycle completed.
// Feedback is the value written back to the device this cycle and Error is
// Setpoint - Feedback.
type CycleRecord struct {
	Cycle         int
	Setpoint      signal.Value
	Feedback      signal.Value
	ControlOutput signal.Value
	Error         int64
	Phase         Phase
}

func (r CycleRecord) String() string {
	return fmt.Sprintf("Cycle %d: Setpoint=%d, Feedback=%d, Control Signal=%d, Error=%d",
		r.Cycle, r.Setpoint, r.Feedback, r.ControlOutput, r.Error)
}

type Observer interface {
	OnCycle(rec CycleRecord)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(rec CycleRecord)

func (f ObserverFunc) OnCycle(rec CycleRecord) { f(rec) }

type Metric interface {
	Name() string
	Observe(rec CycleRecord)
	Value() float64
	Reset()
}

type Outcome int

const (
	OutcomeConverged Outcome = iota
	OutcomeFailed
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result summarizes a scenario run.
type Result struct {
	Outcome       Outcome
	CyclesRun     int
	Setpoint      signal.Value
	FinalFeedback signal.Value
	FinalError    int64
	Metrics       map[string]float64
	Violation     *Violation
}

func (r *Result) Passed() bool {
	return r != nil && r.Outcome == OutcomeConverged
}

package bench

import (
	"errors"
	"testing"
)

func TestCycleRecordString(t *testing.T) {
	rec := CycleRecord{Cycle: 3, Setpoint: 128, Feedback: 83, ControlOutput: 128, Error: 45}
	expected := "Cycle 3: Setpoint=128, Feedback=83, Control Signal=128, Error=45"
	if rec.String() != expected {
		t.Errorf("String() = %q, want %q", rec.String(), expected)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseWarming, "warming"},
		{PhaseSettling, "settling"},
		{PhaseFinal, "final"},
		{Phase(7), "phase(7)"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for _, p := range []Phase{PhaseWarming, PhaseSettling, PhaseFinal} {
		got, err := ParsePhase(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePhase("cooling"); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestViolationUnwrap(t *testing.T) {
	settling := &Violation{Phase: PhaseSettling, Cycle: 90, Setpoint: 128, Feedback: 200, Deviation: -72, Tolerance: 5}
	if !errors.Is(settling, ErrSettlingViolation) {
		t.Error("settling violation should match ErrSettlingViolation")
	}
	if errors.Is(settling, ErrFinalConvergence) {
		t.Error("settling violation should not match ErrFinalConvergence")
	}

	final := &Violation{Phase: PhaseFinal, Cycle: 100, Setpoint: 128, Feedback: 124, Deviation: 4, Tolerance: 2}
	if !errors.Is(final, ErrFinalConvergence) {
		t.Error("final violation should match ErrFinalConvergence")
	}
}

func TestViolationError(t *testing.T) {
	tests := []struct {
		name     string
		v        *Violation
		expected string
	}{
		{
			"settling",
			&Violation{Phase: PhaseSettling, Cycle: 90, Setpoint: 128, Feedback: 200, Deviation: -72, Magnitude: 72, Tolerance: 5},
			"bench: feedback did not converge while settling: cycle 90 feedback=200 setpoint=128 |error|=72 exceeds tolerance 5",
		},
		{
			"final",
			&Violation{Phase: PhaseFinal, Cycle: 100, Setpoint: 128, Feedback: 124, Deviation: 4, Magnitude: 4, Tolerance: 2},
			"bench: controller did not reach setpoint adequately: cycle 100 feedback=124 setpoint=128 |error|=4 exceeds final tolerance 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResultPassed(t *testing.T) {
	var nilResult *Result
	if nilResult.Passed() {
		t.Error("nil result should not pass")
	}
	if !(&Result{Outcome: OutcomeConverged}).Passed() {
		t.Error("converged result should pass")
	}
	if (&Result{Outcome: OutcomeFailed}).Passed() {
		t.Error("failed result should not pass")
	}
}

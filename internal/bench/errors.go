package bench

import (
	"errors"
	"fmt"

	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Domain errors for verification runs.
var (
	// ErrSettlingViolation indicates the error exceeded the settling tolerance
	// after the settling deadline.
	ErrSettlingViolation = errors.New("bench: feedback did not converge while settling")

	// ErrFinalConvergence indicates the error exceeded the final tolerance
	// once the cycle budget was spent.
	ErrFinalConvergence = errors.New("bench: controller did not reach setpoint adequately")

	// ErrInvalidPolicy indicates an inconsistent convergence policy.
	ErrInvalidPolicy = errors.New("bench: invalid convergence policy")

	// ErrOutOfRange indicates a value that does not fit the port width.
	ErrOutOfRange = errors.New("bench: value out of port range")

	// ErrCanceled indicates the run was interrupted before its cycle budget.
	ErrCanceled = errors.New("bench: run canceled by context")

	// ErrUnknownModel indicates a device model name missing from the registry.
	ErrUnknownModel = errors.New("bench: unknown device model")
)

// Violation is a convergence failure. It carries the cycle that broke the
// policy (TotalCycles for the final check) and the values measured there.
// Magnitude is the exact |setpoint - feedback|; Deviation is its signed form,
// saturated on 64-bit ports.
type Violation struct {
	Phase     Phase
	Cycle     int
	Setpoint  signal.Value
	Feedback  signal.Value
	Deviation int64
	Magnitude uint64
	Tolerance uint64
}

func (v *Violation) Error() string {
	kind := "tolerance"
	if v.Phase == PhaseFinal {
		kind = "final tolerance"
	}
	return fmt.Sprintf("%s: cycle %d feedback=%d setpoint=%d |error|=%d exceeds %s %d",
		v.Unwrap(), v.Cycle, v.Feedback, v.Setpoint, v.Magnitude, kind, v.Tolerance)
}

func (v *Violation) Unwrap() error {
	if v.Phase == PhaseFinal {
		return ErrFinalConvergence
	}
	return ErrSettlingViolation
}

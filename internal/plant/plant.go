// Package plant models the simulated physical process the controller acts on.
//
// The model is a rate-limited first-order tracker: each cycle the feedback
// moves toward the controller output by at most maxStep. It stands in for
// plant inertia and nothing more, so it is deterministic and never fails.
package plant

import "github.com/dsatizabal/pid-controller/internal/signal"

// DefaultMaxStep is the per-cycle rate limit of the reference scenario.
const DefaultMaxStep = 2

// Step returns the feedback one cycle after current, driven by control.
func Step(current, control signal.Value, maxStep uint64) signal.Value {
	switch {
	case current < control:
		return current + signal.Value(min(uint64(control-current), maxStep))
	case current > control:
		return current - signal.Value(min(uint64(current-control), maxStep))
	default:
		return current
	}
}

// Model holds the plant state for the duration of one run.
type Model struct {
	feedback signal.Value
	maxStep  uint64
	steps    int
}

func New(initial signal.Value, maxStep uint64) *Model {
	return &Model{feedback: initial, maxStep: maxStep}
}

func (m *Model) Feedback() signal.Value { return m.feedback }
func (m *Model) MaxStep() uint64        { return m.maxStep }

// Steps counts the cycles in which the feedback actually moved.
func (m *Model) Steps() int { return m.steps }

// Advance evolves the plant by one cycle and returns the new feedback.
func (m *Model) Advance(control signal.Value) signal.Value {
	next := Step(m.feedback, control, m.maxStep)
	if next != m.feedback {
		m.steps++
	}
	m.feedback = next
	return next
}

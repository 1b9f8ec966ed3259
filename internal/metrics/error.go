package metrics

import "github.com/dsatizabal/pid-controller/internal/bench"

type MaxError struct {
	name string
	max  int64
}

func NewMaxError() *MaxError {
	return &MaxError{name: "max_abs_error"}
}

func (m *MaxError) Name() string { return m.name }

func (m *MaxError) Observe(rec bench.CycleRecord) {
	m.max = max(m.max, abs(rec.Error))
}

func (m *MaxError) Value() float64 { return float64(m.max) }

func (m *MaxError) Reset() { m.max = 0 }

// Overshoot is the largest excursion past the setpoint, measured against the
// side the feedback started from.
type Overshoot struct {
	name      string
	started   bool
	fromBelow bool
	peak      int64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(rec bench.CycleRecord) {
	if !o.started {
		o.started = true
		o.fromBelow = rec.Error >= 0
	}
	past := -rec.Error
	if !o.fromBelow {
		past = rec.Error
	}
	o.peak = max(o.peak, past)
}

func (o *Overshoot) Value() float64 { return float64(o.peak) }

func (o *Overshoot) Reset() {
	o.started = false
	o.fromBelow = false
	o.peak = 0
}

// SettleCycle reports the first cycle from which the error stayed within
// band for the rest of the run, or -1 if the last cycle is still outside.
type SettleCycle struct {
	name    string
	band    int64
	settled int
}

func NewSettleCycle(band uint64) *SettleCycle {
	return &SettleCycle{name: "settle_cycle", band: int64(band), settled: -1}
}

func (s *SettleCycle) Name() string { return s.name }

func (s *SettleCycle) Observe(rec bench.CycleRecord) {
	if abs(rec.Error) > s.band {
		s.settled = -1
		return
	}
	if s.settled < 0 {
		s.settled = rec.Cycle
	}
}

func (s *SettleCycle) Value() float64 { return float64(s.settled) }

func (s *SettleCycle) Reset() {
	s.settled = -1
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

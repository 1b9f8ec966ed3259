package dut

import "github.com/dsatizabal/pid-controller/internal/signal"

// PIDGains are fixed-point coefficients: the weighted sum is shifted right by
// Shift before saturation.
type PIDGains struct {
	Kp            int64
	Ki            int64
	Kd            int64
	Shift         uint
	IntegralLimit int64
}

func DefaultPIDGains() PIDGains {
	return PIDGains{
		Kp:            8,
		Ki:            1,
		Kd:            2,
		Shift:         3,
		IntegralLimit: 4096,
	}
}

type PID struct {
	PIDGains
	width    signal.Width
	integral int64
	prevErr  int64
}

func NewPID(gains PIDGains, width signal.Width) *PID {
	return &PID{PIDGains: gains, width: width}
}

func (p *PID) Compute(setpoint, feedback signal.Value) signal.Value {
	err := signal.Diff(setpoint, feedback)

	p.integral += err
	if p.integral > p.IntegralLimit {
		p.integral = p.IntegralLimit
	} else if p.integral < -p.IntegralLimit {
		p.integral = -p.IntegralLimit
	}

	derivative := err - p.prevErr
	p.prevErr = err

	u := (p.Kp*err + p.Ki*p.integral + p.Kd*derivative) >> p.Shift
	return p.width.Clamp(u)
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns the gains keyed by name.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":             float64(p.Kp),
		"ki":             float64(p.Ki),
		"kd":             float64(p.Kd),
		"shift":          float64(p.Shift),
		"integral_limit": float64(p.IntegralLimit),
	}
}

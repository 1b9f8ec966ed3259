package dut

import "github.com/dsatizabal/pid-controller/internal/signal"

// Constant ignores its inputs and always drives the same output.
type Constant struct {
	out signal.Value
}

func NewConstant(out signal.Value) *Constant {
	return &Constant{out: out}
}

func (c *Constant) Compute(setpoint, feedback signal.Value) signal.Value {
	return c.out
}

func (c *Constant) Reset() {}

// Alternating steps through outs, one entry per cycle, wrapping around.
type Alternating struct {
	outs []signal.Value
	next int
}

func NewAlternating(outs ...signal.Value) *Alternating {
	return &Alternating{outs: outs}
}

func (a *Alternating) Compute(setpoint, feedback signal.Value) signal.Value {
	if len(a.outs) == 0 {
		return 0
	}
	v := a.outs[a.next]
	a.next = (a.next + 1) % len(a.outs)
	return v
}

func (a *Alternating) Reset() { a.next = 0 }

package dut

import (
	"github.com/dsatizabal/pid-controller/internal/clock"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

type Controller interface {
	Compute(setpoint, feedback signal.Value) signal.Value
	Reset()
}

// Block is a Controller clocked by the kernel.
type Block struct {
	name  string
	ports *Ports
	ctrl  Controller
}

func NewBlock(name string, ports *Ports, ctrl Controller) *Block {
	return &Block{name: name, ports: ports, ctrl: ctrl}
}

func (b *Block) Name() string { return b.name }

func (b *Block) OnEdge(ev clock.Event) {
	if ev.Edge != clock.Rising {
		return
	}

	if !b.ports.RstN.High() {
		b.ctrl.Reset()
		_ = b.ports.Control.Drive(0)
		return
	}

	out := b.ctrl.Compute(b.ports.Setpoint.Value(), b.ports.Feedback.Value())
	if w := b.ports.Width(); !w.Contains(out) {
		out = w.Max()
	}
	_ = b.ports.Control.Drive(out)
}

package dut

import (
	"github.com/dsatizabal/pid-controller/internal/kernel"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Net names of the controller's pin layout.
const (
	NetReset    = "rst_n"
	NetSetpoint = "setpoint"
	NetFeedback = "feedback"
	NetControl  = "control_signal"
)

// Ports are the controller's signals as seen by the kernel.
type Ports struct {
	RstN     *kernel.Net
	Setpoint *kernel.Net
	Feedback *kernel.Net
	Control  *kernel.Net
}

// NewPorts registers the controller nets on k with the given data width.
func NewPorts(k *kernel.Kernel, width signal.Width) *Ports {
	return &Ports{
		RstN:     k.AddNet(kernel.NewNet(NetReset, 1)),
		Setpoint: k.AddNet(kernel.NewNet(NetSetpoint, width)),
		Feedback: k.AddNet(kernel.NewNet(NetFeedback, width)),
		Control:  k.AddNet(kernel.NewNet(NetControl, width)),
	}
}

func (p *Ports) Width() signal.Width { return p.Control.Width() }

// Package device is the harness's view of the controller-under-test.
//
// The harness never touches kernel nets directly. It holds a [Device] and
// drives the controller through five operations: the three input writes, the
// output read and the edge wait that advances simulated time.
package device

//go:generate mockgen -destination mock_device.go -package device github.com/dsatizabal/pid-controller/internal/device Device

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/kernel"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Device is a signal-level handle on a synchronous controller.
//
// Writes take effect before the controller samples its inputs at the next
// rising edge. ReadControlOutput returns what the controller drove at the
// most recent rising edge, so it must only be called once AwaitNextEdge has
// returned.
type Device interface {
	SetReset(active bool) error
	SetSetpoint(v signal.Value) error
	SetFeedback(v signal.Value) error
	ReadControlOutput() signal.Value
	AwaitNextEdge(ctx context.Context) error
	Width() signal.Width
}

// Sim is a Device backed by the simulation kernel.
type Sim struct {
	k     *kernel.Kernel
	ports *dut.Ports
}

func NewSim(k *kernel.Kernel, ports *dut.Ports) *Sim {
	return &Sim{k: k, ports: ports}
}

// SetReset drives rst_n, which is active-low.
func (s *Sim) SetReset(active bool) error {
	return s.ports.RstN.DriveBool(!active)
}

func (s *Sim) SetSetpoint(v signal.Value) error {
	return s.ports.Setpoint.Drive(v)
}

func (s *Sim) SetFeedback(v signal.Value) error {
	return s.ports.Feedback.Drive(v)
}

func (s *Sim) ReadControlOutput() signal.Value {
	return s.ports.Control.Value()
}

func (s *Sim) AwaitNextEdge(ctx context.Context) error {
	if _, err := s.k.AwaitRising(ctx); err != nil {
		return errors.Wrapf(bench.ErrCanceled, "awaiting edge: %v", err)
	}
	return nil
}

func (s *Sim) Width() signal.Width { return s.ports.Width() }

// Kernel exposes the simulation behind the device, mostly for reporting.
func (s *Sim) Kernel() *kernel.Kernel { return s.k }

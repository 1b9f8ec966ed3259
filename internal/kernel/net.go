package kernel

import (
	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Net is a named, fixed-width signal held by the kernel. Whoever drives a net
// last wins; the kernel does not arbitrate between drivers.
type Net struct {
	name  string
	width signal.Width
	value signal.Value
}

func NewNet(name string, width signal.Width) *Net {
	return &Net{name: name, width: width}
}

func (n *Net) Name() string        { return n.name }
func (n *Net) Width() signal.Width { return n.width }
func (n *Net) Value() signal.Value { return n.value }
func (n *Net) High() bool          { return n.value != 0 }

// Drive sets the net value, rejecting values the net cannot carry.
func (n *Net) Drive(v signal.Value) error {
	if !n.width.Contains(v) {
		return errors.Wrapf(bench.ErrOutOfRange, "%s: %d does not fit %v", n.name, v, n.width)
	}
	n.value = v
	return nil
}

// DriveBool drives a one-bit net.
func (n *Net) DriveBool(b bool) error {
	if b {
		return n.Drive(1)
	}
	return n.Drive(0)
}

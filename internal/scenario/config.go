package scenario

import (
	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/monitor"
	"github.com/dsatizabal/pid-controller/internal/plant"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// Config fixes everything a run depends on besides the device itself.
type Config struct {
	Setpoint        signal.Value
	InitialFeedback signal.Value
	MaxStep         uint64
	Policy          monitor.Policy
}

// DefaultConfig is the reference step-response scenario.
func DefaultConfig() Config {
	return Config{
		Setpoint:        128,
		InitialFeedback: 75,
		MaxStep:         plant.DefaultMaxStep,
		Policy:          monitor.DefaultPolicy(),
	}
}

// Validate checks the config against the width of the device it will drive.
func (c Config) Validate(width signal.Width) error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if !width.Contains(c.Setpoint) {
		return errors.Wrapf(bench.ErrOutOfRange, "setpoint %d on %v port", c.Setpoint, width)
	}
	if !width.Contains(c.InitialFeedback) {
		return errors.Wrapf(bench.ErrOutOfRange, "initial feedback %d on %v port", c.InitialFeedback, width)
	}
	return nil
}

// Package experiment assembles a runnable bench from a scenario config: the
// clock, the kernel, the controller model on its ports and the device handle
// the driver talks to.
package experiment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/clock"
	"github.com/dsatizabal/pid-controller/internal/config"
	"github.com/dsatizabal/pid-controller/internal/device"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/kernel"
	"github.com/dsatizabal/pid-controller/internal/metrics"
	"github.com/dsatizabal/pid-controller/internal/scenario"
	"github.com/dsatizabal/pid-controller/internal/signal"
	"github.com/dsatizabal/pid-controller/internal/storage"
)

// tunable is implemented by models that expose their gains.
type tunable interface {
	GetParams() map[string]float64
}

type Experiment struct {
	cfg    *config.Config
	kernel *kernel.Kernel
	ctrl   dut.Controller
	device *device.Sim
	driver *scenario.Driver
}

func New(cfg *config.Config, registry *Registry, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	unit, err := clock.ParseUnit(cfg.Clock.Unit)
	if err != nil {
		return nil, err
	}
	clk, err := clock.New(clock.Time(cfg.Clock.Period), unit)
	if err != nil {
		return nil, err
	}

	ctrl, err := registry.GetModel(cfg.Device.Model, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build device model")
	}

	k := kernel.New(clk, logger.With("component", "kernel"))
	ports := dut.NewPorts(k, signal.Width(cfg.Device.Width))
	k.Attach(dut.NewBlock(cfg.Device.Model, ports, ctrl))

	drv := scenario.New(logger.With("scenario", cfg.Name))
	for _, m := range metrics.Defaults(cfg.Policy.ToleranceFinal) {
		drv.AddMetric(m)
	}

	return &Experiment{
		cfg:    cfg,
		kernel: k,
		ctrl:   ctrl,
		device: device.NewSim(k, ports),
		driver: drv,
	}, nil
}

func (e *Experiment) Config() *config.Config   { return e.cfg }
func (e *Experiment) Kernel() *kernel.Kernel   { return e.kernel }
func (e *Experiment) Device() device.Device    { return e.device }
func (e *Experiment) Driver() *scenario.Driver { return e.driver }

// Run executes the scenario once.
func (e *Experiment) Run(ctx context.Context) (*bench.Result, error) {
	return e.driver.Run(ctx, e.device, e.cfg.ScenarioConfig())
}

// Metadata describes a finished run for storage and reporting: the outcome
// fields from the driver plus the clock and, for tunable models, the gains.
func (e *Experiment) Metadata(result *bench.Result, runErr error) *storage.RunMetadata {
	meta := storage.NewRunMetadata(e.cfg.Name, e.cfg.Device.Model, e.cfg.Scenario.InitialFeedback,
		e.cfg.Policy, result, runErr)

	clk := e.kernel.Clock()
	meta.Clock = clk.Format(clk.Period())
	meta.ClockHz = clk.Freq()
	if t, ok := e.ctrl.(tunable); ok {
		meta.Gains = t.GetParams()
	}
	return meta
}

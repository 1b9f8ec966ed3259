// Package scenario drives a closed-loop verification run.
//
// A [Driver] resets the device, then for every cycle of the policy waits for
// a clock edge, reads the controller output, advances the plant, writes the
// new feedback and lets the convergence monitor judge the result. The first
// violation ends the run.
package scenario

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/device"
	"github.com/dsatizabal/pid-controller/internal/monitor"
	"github.com/dsatizabal/pid-controller/internal/plant"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

type Driver struct {
	logger    *slog.Logger
	metrics   []bench.Metric
	observers []bench.Observer
}

func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		logger:    logger,
		metrics:   make([]bench.Metric, 0),
		observers: make([]bench.Observer, 0),
	}
}

func (d *Driver) AddMetric(m bench.Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o bench.Observer) { d.observers = append(d.observers, o) }

// Run executes one scenario against dev. On a convergence failure the
// returned error is a *bench.Violation and the result's Outcome is
// OutcomeFailed; the result is never nil once the device has been reset.
func (d *Driver) Run(ctx context.Context, dev device.Device, cfg Config) (*bench.Result, error) {
	if err := cfg.Validate(dev.Width()); err != nil {
		return nil, err
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	if err := d.reset(ctx, dev, cfg); err != nil {
		return nil, err
	}

	pl := plant.New(cfg.InitialFeedback, cfg.MaxStep)
	mon := monitor.New(cfg.Policy)
	result := &bench.Result{
		Setpoint:      cfg.Setpoint,
		FinalFeedback: cfg.InitialFeedback,
		FinalError:    signal.Diff(cfg.Setpoint, cfg.InitialFeedback),
		Metrics:       make(map[string]float64),
	}

	d.logger.Info("scenario started",
		"setpoint", cfg.Setpoint,
		"feedback", cfg.InitialFeedback,
		"cycles", cfg.Policy.TotalCycles,
		"settling_threshold", cfg.Policy.SettlingCycleThreshold)

	for cycle := 0; cycle < cfg.Policy.TotalCycles; cycle++ {
		if err := dev.AwaitNextEdge(ctx); err != nil {
			return d.abort(result, mon, err)
		}

		out := dev.ReadControlOutput()
		feedback := pl.Advance(out)
		if err := dev.SetFeedback(feedback); err != nil {
			return d.abort(result, mon, errors.Wrapf(err, "cycle %d", cycle))
		}

		result.CyclesRun = cycle + 1
		result.FinalFeedback = feedback
		result.FinalError = signal.Diff(cfg.Setpoint, feedback)

		verdict := mon.Observe(cycle, cfg.Setpoint, feedback)
		d.emit(bench.CycleRecord{
			Cycle:         cycle,
			Setpoint:      cfg.Setpoint,
			Feedback:      feedback,
			ControlOutput: out,
			Error:         result.FinalError,
			Phase:         cfg.Policy.PhaseAt(cycle),
		})

		if verdict != nil {
			return d.fail(result, mon, verdict)
		}
	}

	if err := mon.Finish(cfg.Setpoint, pl.Feedback()); err != nil {
		return d.fail(result, mon, err)
	}

	d.collect(result, mon)
	result.Outcome = bench.OutcomeConverged
	d.logger.Info("scenario converged",
		"cycles", result.CyclesRun,
		"feedback", result.FinalFeedback,
		"error", result.FinalError,
		"plant_steps", pl.Steps())
	return result, nil
}

func (d *Driver) reset(ctx context.Context, dev device.Device, cfg Config) error {
	if err := dev.SetSetpoint(cfg.Setpoint); err != nil {
		return errors.Wrap(err, "drive setpoint")
	}
	if err := dev.SetFeedback(cfg.InitialFeedback); err != nil {
		return errors.Wrap(err, "drive initial feedback")
	}
	if err := dev.SetReset(true); err != nil {
		return errors.Wrap(err, "assert reset")
	}
	if err := dev.AwaitNextEdge(ctx); err != nil {
		return err
	}
	if err := dev.SetReset(false); err != nil {
		return errors.Wrap(err, "release reset")
	}
	return nil
}

func (d *Driver) emit(rec bench.CycleRecord) {
	d.logger.Info("cycle",
		"cycle", rec.Cycle,
		"setpoint", rec.Setpoint,
		"feedback", rec.Feedback,
		"control", rec.ControlOutput,
		"error", rec.Error,
		"phase", rec.Phase.String())

	for _, m := range d.metrics {
		m.Observe(rec)
	}
	for _, o := range d.observers {
		o.OnCycle(rec)
	}
}

// collect fills the result's metrics, including the monitor's worst error
// in each judged phase.
func (d *Driver) collect(result *bench.Result, mon *monitor.Monitor) {
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	stats := mon.Stats()
	result.Metrics["max_warming_error"] = float64(stats.MaxWarmingError)
	result.Metrics["max_settling_error"] = float64(stats.MaxSettlingErr)
}

func (d *Driver) fail(result *bench.Result, mon *monitor.Monitor, err error) (*bench.Result, error) {
	d.collect(result, mon)
	result.Outcome = bench.OutcomeFailed
	var v *bench.Violation
	if errors.As(err, &v) {
		result.Violation = v
	}
	d.logger.Error("scenario failed", "err", err)
	return result, err
}

func (d *Driver) abort(result *bench.Result, mon *monitor.Monitor, err error) (*bench.Result, error) {
	d.collect(result, mon)
	result.Outcome = bench.OutcomeAborted
	d.logger.Warn("scenario aborted", "cycles", result.CyclesRun, "err", err)
	return result, err
}

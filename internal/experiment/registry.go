package experiment

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/config"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

// ModelFactory builds a controller model from the device section of a config.
type ModelFactory func(cfg *config.Config) (dut.Controller, error)

type Registry struct {
	models map[string]ModelFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]ModelFactory),
	}

	r.models["pid"] = func(cfg *config.Config) (dut.Controller, error) {
		gains := cfg.PIDGains()
		if gains.IntegralLimit <= 0 {
			return nil, errors.Errorf("pid integral limit must be positive, got %d", gains.IntegralLimit)
		}
		return dut.NewPID(gains, signal.Width(cfg.Device.Width)), nil
	}
	r.models["constant"] = func(cfg *config.Config) (dut.Controller, error) {
		return dut.NewConstant(signal.Value(cfg.Device.Output)), nil
	}
	r.models["alternating"] = func(cfg *config.Config) (dut.Controller, error) {
		if len(cfg.Device.Outputs) == 0 {
			return nil, errors.New("alternating model needs at least one output")
		}
		outs := make([]signal.Value, len(cfg.Device.Outputs))
		for i, v := range cfg.Device.Outputs {
			outs[i] = signal.Value(v)
		}
		return dut.NewAlternating(outs...), nil
	}

	return r
}

// Register adds or replaces a model.
func (r *Registry) Register(name string, fn ModelFactory) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string, cfg *config.Config) (dut.Controller, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, errors.Wrapf(bench.ErrUnknownModel, "%q (available: %v)", name, r.ListModels())
	}
	return fn(cfg)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

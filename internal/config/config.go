package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dsatizabal/pid-controller/internal/clock"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/monitor"
	"github.com/dsatizabal/pid-controller/internal/plant"
	"github.com/dsatizabal/pid-controller/internal/scenario"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

const (
	DefaultModel           = "pid"
	DefaultWidth           = 8
	DefaultPeriod          = 10
	DefaultUnit            = "ns"
	DefaultSetpoint        = 128
	DefaultInitialFeedback = 75
)

type Config struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Expect      string         `yaml:"expect,omitempty"`
	Device      DeviceConfig   `yaml:"device"`
	Clock       ClockConfig    `yaml:"clock"`
	Scenario    ScenarioConfig `yaml:"scenario"`
	Policy      monitor.Policy `yaml:"policy"`
}

// DeviceConfig selects the controller model behind the device ports.
// Output is used by the constant model and Outputs by the alternating one.
type DeviceConfig struct {
	Model   string    `yaml:"model"`
	Width   uint8     `yaml:"width"`
	Gains   PIDConfig `yaml:"gains"`
	Output  uint64    `yaml:"output,omitempty"`
	Outputs []uint64  `yaml:"outputs,omitempty"`
}

type PIDConfig struct {
	Kp            int64 `yaml:"kp"`
	Ki            int64 `yaml:"ki"`
	Kd            int64 `yaml:"kd"`
	Shift         uint  `yaml:"shift"`
	IntegralLimit int64 `yaml:"integral_limit"`
}

type ClockConfig struct {
	Period uint64 `yaml:"period"`
	Unit   string `yaml:"unit"`
}

type ScenarioConfig struct {
	Setpoint        uint64 `yaml:"setpoint"`
	InitialFeedback uint64 `yaml:"initial_feedback"`
	MaxStep         uint64 `yaml:"max_step"`
}

func DefaultConfig() *Config {
	gains := dut.DefaultPIDGains()
	return &Config{
		Name: "reference",
		Device: DeviceConfig{
			Model: DefaultModel,
			Width: DefaultWidth,
			Gains: PIDConfig{
				Kp:            gains.Kp,
				Ki:            gains.Ki,
				Kd:            gains.Kd,
				Shift:         gains.Shift,
				IntegralLimit: gains.IntegralLimit,
			},
		},
		Clock: ClockConfig{
			Period: DefaultPeriod,
			Unit:   DefaultUnit,
		},
		Scenario: ScenarioConfig{
			Setpoint:        DefaultSetpoint,
			InitialFeedback: DefaultInitialFeedback,
			MaxStep:         plant.DefaultMaxStep,
		},
		Policy: monitor.DefaultPolicy(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked without leaking.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Device.Outputs = append([]uint64(nil), c.Device.Outputs...)
	return &cp
}

func (c *Config) Validate() error {
	width := signal.Width(c.Device.Width)
	if !width.Valid() {
		return errors.Errorf("device width must be between 1 and %d, got %d", signal.MaxWidth, c.Device.Width)
	}
	if c.Clock.Period < 2 {
		return errors.Errorf("clock period must be at least 2, got %d", c.Clock.Period)
	}
	if _, err := clock.ParseUnit(c.Clock.Unit); err != nil {
		return err
	}
	switch c.Expect {
	case "", "converged", "failed":
	default:
		return errors.Errorf("expect must be converged or failed, got %q", c.Expect)
	}
	return c.ScenarioConfig().Validate(width)
}

// ExpectedOutcome is the outcome a regression run should produce.
func (c *Config) ExpectedOutcome() string {
	if c.Expect == "" {
		return "converged"
	}
	return c.Expect
}

// ScenarioConfig converts the file representation into driver settings.
func (c *Config) ScenarioConfig() scenario.Config {
	return scenario.Config{
		Setpoint:        signal.Value(c.Scenario.Setpoint),
		InitialFeedback: signal.Value(c.Scenario.InitialFeedback),
		MaxStep:         c.Scenario.MaxStep,
		Policy:          c.Policy,
	}
}

func (c *Config) PIDGains() dut.PIDGains {
	return dut.PIDGains{
		Kp:            c.Device.Gains.Kp,
		Ki:            c.Device.Gains.Ki,
		Kd:            c.Device.Gains.Kd,
		Shift:         c.Device.Gains.Shift,
		IntegralLimit: c.Device.Gains.IntegralLimit,
	}
}

package config

import "sort"

// Presets are the named scenarios shipped with the bench. Each entry only
// lists what differs from DefaultConfig.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {
		c.Description = "reference PID design, 75 -> 128 step response"
	},
	"monotonic": func(c *Config) {
		c.Description = "constant output at the setpoint, feedback ramps up monotonically"
		c.Device.Model = "constant"
		c.Device.Output = 128
	},
	"boundary": func(c *Config) {
		c.Description = "feedback starts at the setpoint, nothing to settle"
		c.Device.Model = "constant"
		c.Device.Output = 128
		c.Scenario.InitialFeedback = 128
	},
	"oscillating": func(c *Config) {
		c.Description = "output alternates 100/156 around the setpoint"
		c.Device.Model = "alternating"
		c.Device.Outputs = []uint64{100, 156}
		c.Expect = "failed"
	},
	"ripple": func(c *Config) {
		c.Description = "output alternates 124/132, ripple stays inside both tolerances"
		c.Device.Model = "alternating"
		c.Device.Outputs = []uint64{124, 132}
	},
	"unreachable": func(c *Config) {
		c.Description = "output pinned at 200, feedback overshoots the setpoint for good"
		c.Device.Model = "constant"
		c.Device.Output = 200
		c.Expect = "failed"
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

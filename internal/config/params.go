package config

import (
	"fmt"
	"sort"
)

var tunables = map[string]func(*Config) *float64{
	"rpm":                  func(c *Config) *float64 { return &c.Speed.Initial },
	"step_degrees":         func(c *Config) *float64 { return &c.Speed.StepDegrees },
	"crank_radius":         func(c *Config) *float64 { return &c.Geometry.CrankRadius },
	"conrod_length":        func(c *Config) *float64 { return &c.Geometry.ConrodLength },
	"clearance_volume":     func(c *Config) *float64 { return &c.Thermo.ClearanceVolume },
	"swept_volume_scale":   func(c *Config) *float64 { return &c.Thermo.SweptVolumeScale },
	"compression_exponent": func(c *Config) *float64 { return &c.Thermo.CompressionExponent },
	"power_exponent":       func(c *Config) *float64 { return &c.Thermo.PowerExponent },
	"max_pressure_power":   func(c *Config) *float64 { return &c.Thermo.MaxPressurePower },
	"ignition_start":       func(c *Config) *float64 { return &c.Cycle.IgnitionStart },
	"ignition_end":         func(c *Config) *float64 { return &c.Cycle.IgnitionEnd },
}

// TunableParams names the scalar parameters SetParam accepts.
func TunableParams() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets one named scalar. The result is not validated; engine
// construction does that.
func (c *Config) SetParam(name string, v float64) error {
	field, ok := tunables[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (tunable: %v)", name, TunableParams())
	}
	*field(c) = v
	return nil
}

func (c *Config) GetParam(name string) (float64, bool) {
	field, ok := tunables[name]
	if !ok {
		return 0, false
	}
	return *field(c), true
}

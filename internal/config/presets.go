package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"idle": preset(func(c *Config) {
		c.Speed.Initial = 20
	}),
	"redline": preset(func(c *Config) {
		c.Speed.Initial = 900
		c.HistoryCapacity = 60
	}),
	"long-stroke": preset(func(c *Config) {
		c.Geometry.CrankRadius = 90
		c.Geometry.ConrodLength = 200
	}),
	"high-compression": preset(func(c *Config) {
		c.Thermo.ClearanceVolume = 8
		c.Thermo.MaxPressureCompression = 25
		c.Thermo.MaxPressurePower = 70
	}),
	"manual": preset(func(c *Config) {
		c.Speed.StepDegrees = 1
		c.HistoryCapacity = 720
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	c, ok := Presets[name]
	if !ok {
		return nil
	}
	return c.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"os"

	"github.com/san-kum/enginesim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRPM         = 60.0
	DefaultMinRPM      = 10.0
	DefaultMaxRPM      = 1000.0
	DefaultStepDegrees = 2.0
	DefaultHistory     = 150
	DefaultParticles   = 150
)

// Config is the full, immutable parameter set of one engine. Every constant
// the core uses lives here; nothing is read from package state.
type Config struct {
	Geometry        GeometryConfig `yaml:"geometry"`
	Thermo          ThermoConfig   `yaml:"thermo"`
	Cycle           CycleConfig    `yaml:"cycle"`
	Particles       ParticleConfig `yaml:"particles"`
	Speed           SpeedConfig    `yaml:"speed"`
	HistoryCapacity int            `yaml:"history_capacity"`
	Seed            int64          `yaml:"seed"`
}

// GeometryConfig is the cylinder layout in screen pixels (y grows downward).
type GeometryConfig struct {
	CylinderCenterX float64 `yaml:"cylinder_center_x"`
	CylinderTopY    float64 `yaml:"cylinder_top_y"`
	CylinderWidth   float64 `yaml:"cylinder_width"`
	PistonHeight    float64 `yaml:"piston_height"`
	CrankRadius     float64 `yaml:"crank_radius"`
	ConrodLength    float64 `yaml:"conrod_length"`
}

type ThermoConfig struct {
	ClearanceVolume        float64 `yaml:"clearance_volume"`
	SweptVolumeScale       float64 `yaml:"swept_volume_scale"`
	MinPressure            float64 `yaml:"min_pressure"`
	MaxPressureCompression float64 `yaml:"max_pressure_compression"`
	MaxPressurePower       float64 `yaml:"max_pressure_power"`
	CompressionExponent    float64 `yaml:"compression_exponent"`
	PowerExponent          float64 `yaml:"power_exponent"`
}

// CycleConfig holds the ignition window (degrees) and the frame counters of
// the spark and the combustion decay.
type CycleConfig struct {
	IgnitionStart   float64 `yaml:"ignition_start"`
	IgnitionEnd     float64 `yaml:"ignition_end"`
	SparkDuration   int     `yaml:"spark_duration"`
	CombustionDecay int     `yaml:"combustion_decay"`
	CombustionFlash int     `yaml:"combustion_flash"`
}

type ParticleConfig struct {
	Count                     int     `yaml:"count"`
	Radius                    float64 `yaml:"radius"`
	MaxSpeed                  float64 `yaml:"max_speed"`
	AccelJitter               float64 `yaml:"accel_jitter"`
	ExpansionAccel            float64 `yaml:"expansion_accel"`
	Friction                  float64 `yaml:"friction"`
	CombustionSpeedMultiplier float64 `yaml:"combustion_speed_multiplier"`
	WallRestitution           float64 `yaml:"wall_restitution"`
	PistonRestitutionHard     float64 `yaml:"piston_restitution_hard"`
	PistonRestitutionSoft     float64 `yaml:"piston_restitution_soft"`
	PistonKick                float64 `yaml:"piston_kick"`
}

type SpeedConfig struct {
	Initial     float64 `yaml:"initial"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	StepDegrees float64 `yaml:"step_degrees"`
}

func DefaultConfig() *Config {
	return &Config{
		Geometry: GeometryConfig{
			CylinderCenterX: 300,
			CylinderTopY:    100,
			CylinderWidth:   100,
			PistonHeight:    40,
			CrankRadius:     75,
			ConrodLength:    180,
		},
		Thermo: ThermoConfig{
			ClearanceVolume:        15.0,
			SweptVolumeScale:       0.5,
			MinPressure:            0.8,
			MaxPressureCompression: 15.0,
			MaxPressurePower:       50.0,
			CompressionExponent:    1.4,
			PowerExponent:          1.3,
		},
		Cycle: CycleConfig{
			IgnitionStart:   170,
			IgnitionEnd:     180,
			SparkDuration:   5,
			CombustionDecay: 40,
			CombustionFlash: 8,
		},
		Particles: ParticleConfig{
			Count:                     DefaultParticles,
			Radius:                    2.5,
			MaxSpeed:                  2.5,
			AccelJitter:               0.05,
			ExpansionAccel:            0.08,
			Friction:                  0.99,
			CombustionSpeedMultiplier: 2.5,
			WallRestitution:           0.8,
			PistonRestitutionHard:     0.9,
			PistonRestitutionSoft:     0.5,
			PistonKick:                0.1,
		},
		Speed: SpeedConfig{
			Initial:     DefaultRPM,
			Min:         DefaultMinRPM,
			Max:         DefaultMaxRPM,
			StepDegrees: DefaultStepDegrees,
		},
		HistoryCapacity: DefaultHistory,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy. Config holds no reference types, so a value
// copy is enough.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// CrankCenter places the crankshaft so that the piston top reaches the
// cylinder head exactly at top dead center.
func (g GeometryConfig) CrankCenter() dynamo.Vec2 {
	return dynamo.Vec2{
		X: g.CylinderCenterX,
		Y: g.CylinderTopY + g.PistonHeight/2 + g.ConrodLength + g.CrankRadius,
	}
}

// StrokeLength is the piston travel between dead centers.
func (g GeometryConfig) StrokeLength() float64 {
	return 2 * g.CrankRadius
}

// CompressionRatio is max volume over clearance volume.
func (c *Config) CompressionRatio() float64 {
	swept := c.Geometry.StrokeLength() * c.Thermo.SweptVolumeScale
	return (c.Thermo.ClearanceVolume + swept) / c.Thermo.ClearanceVolume
}

// Package thermo approximates chamber volume and gas pressure. It is not a
// gas-law solver: pressure follows a polytropic curve per stroke with hard
// caps, enough to draw a convincing PV loop.
package thermo

import (
	"math"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
)

// Epsilon floors every ratio denominator.
const Epsilon = 0.1

// Sample is one point of the PV diagram.
type Sample struct {
	Volume   float64
	Pressure float64
}

// Chamber converts piston position into volume and pressure. It is
// immutable after NewChamber.
type Chamber struct {
	cfg          config.ThermoConfig
	tdcY         float64
	strokePixels float64
	swept        float64
}

// NewChamber builds a chamber whose piston travels strokePixels below
// tdcY.
func NewChamber(cfg config.ThermoConfig, tdcY, strokePixels float64) Chamber {
	return Chamber{
		cfg:          cfg,
		tdcY:         tdcY,
		strokePixels: strokePixels,
		swept:        strokePixels * cfg.SweptVolumeScale,
	}
}

func (c Chamber) MinVolume() float64   { return c.cfg.ClearanceVolume }
func (c Chamber) MaxVolume() float64   { return c.cfg.ClearanceVolume + c.swept }
func (c Chamber) SweptVolume() float64 { return c.swept }

// Volume maps a piston crown y onto [MinVolume, MaxVolume].
func (c Chamber) Volume(pistonY float64) float64 {
	frac := (pistonY - c.tdcY) / math.Max(Epsilon, c.strokePixels)
	frac = dynamo.Clamp(frac, 0, 1)
	return c.cfg.ClearanceVolume + c.swept*frac
}

// Pressure is the model pressure for a stroke at volume v. The ignition
// override is applied by the caller on the spark frame.
func (c Chamber) Pressure(s cycle.Stroke, v float64) float64 {
	v = math.Max(Epsilon, v)
	switch s {
	case cycle.Compression:
		p := c.cfg.MinPressure * 1.1 * math.Pow(c.MaxVolume()/v, c.cfg.CompressionExponent)
		return math.Min(c.cfg.MaxPressureCompression, p)
	case cycle.Power:
		p := c.cfg.MaxPressurePower * math.Pow(c.MinVolume()/v, c.cfg.PowerExponent)
		return math.Max(c.cfg.MinPressure, p)
	case cycle.Exhaust:
		return c.cfg.MinPressure * 1.05
	default:
		return c.cfg.MinPressure
	}
}

// IgnitionPressure is the pressure forced on the frame the spark fires.
func (c Chamber) IgnitionPressure() float64 {
	return c.cfg.MaxPressurePower
}

// Sample evaluates volume and pressure together.
func (c Chamber) Sample(s cycle.Stroke, pistonY float64) Sample {
	v := c.Volume(pistonY)
	return Sample{Volume: v, Pressure: c.Pressure(s, v)}
}

// VolumeRange is the plotting range of the volume axis.
func (c Chamber) VolumeRange() (lo, hi float64) {
	return c.MinVolume(), c.MaxVolume()
}

// PressureRange is the plotting range of the pressure axis, with a margin
// below intake pressure and headroom above the ignition peak.
func (c Chamber) PressureRange() (lo, hi float64) {
	return c.cfg.MinPressure * 0.8, c.cfg.MaxPressurePower * 1.1
}

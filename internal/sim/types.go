// Package sim drives an engine headlessly at a fixed timestep and records
// what it did.
package sim

import (
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/engine"
)

// Frame is one recorded recompute pass.
type Frame struct {
	Index    int
	Angle    float64
	Stroke   cycle.Stroke
	Volume   float64
	Pressure float64
}

func FrameOf(s engine.Snapshot) Frame {
	return Frame{
		Index:    s.Frames,
		Angle:    s.Angle,
		Stroke:   s.Stroke,
		Volume:   s.Volume,
		Pressure: s.Pressure,
	}
}

type Observer interface {
	OnFrame(s engine.Snapshot)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(engine.Snapshot)

func (f ObserverFunc) OnFrame(s engine.Snapshot) { f(s) }

type Config struct {
	Dt     float64 `json:"dt"`
	Cycles int     `json:"cycles"`
	// RPM overrides the engine's current speed when positive.
	RPM float64 `json:"rpm"`
}

type Result struct {
	Frames    []Frame
	Metrics   map[string]float64
	Cycles    int
	Ignitions int
	Duration  float64
}

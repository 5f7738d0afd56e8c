package engine

import (
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/kinematics"
	"github.com/san-kum/enginesim/internal/particles"
	"github.com/san-kum/enginesim/internal/thermo"
)

func (e *Engine) Snapshot() Snapshot {
	st := e.machine.State()
	return Snapshot{
		Angle:           e.angle,
		RPM:             e.rpm,
		Paused:          e.paused,
		Stroke:          st.Stroke,
		Valves:          st.Valves,
		SparkFiring:     st.SparkFiring,
		SparkTimer:      st.SparkTimer,
		CombustionTimer: st.CombustionTimer,
		Linkage:         e.linkage,
		Volume:          e.sample.Volume,
		Pressure:        e.sample.Pressure,
		Frames:          e.frames,
		Cycles:          e.cycles,
		Ignitions:       e.machine.Ignitions(),
	}
}

func (e *Engine) Angle() float64 { return e.angle }
func (e *Engine) RPM() float64   { return e.rpm }
func (e *Engine) Paused() bool   { return e.paused }

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *config.Config { return e.cfg.Clone() }

// Solver exposes the kinematic solver for drawing dead-center markers.
func (e *Engine) Solver() kinematics.Solver { return e.solver }

func (e *Engine) Geometry() config.GeometryConfig { return e.cfg.Geometry }

func (e *Engine) VolumeRange() (lo, hi float64)   { return e.chamber.VolumeRange() }
func (e *Engine) PressureRange() (lo, hi float64) { return e.chamber.PressureRange() }

// History returns the PV trace, oldest first.
func (e *Engine) History() []thermo.Sample { return e.hist.Samples() }

// CurrentSample is the point drawn as the live marker on the PV diagram.
func (e *Engine) CurrentSample() thermo.Sample { return e.sample }

func (e *Engine) Particles() []particles.Particle { return e.gas.Particles() }

// ChamberBounds is the gas region for the current piston position.
func (e *Engine) ChamberBounds() dynamo.Rect { return e.boundsAt(e.linkage.PistonY) }

// FlashAlpha is the combustion flash overlay intensity in [0,1].
func (e *Engine) FlashAlpha() float64 {
	return cycle.FlashAlpha(e.machine.State().CombustionTimer, e.cfg.Cycle)
}

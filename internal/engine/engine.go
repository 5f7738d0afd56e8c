// Package engine ties the kinematic, cycle, pressure and particle models
// into one frame-driven simulation. An Engine is not safe for concurrent
// use; drive it from a single update loop.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/history"
	"github.com/san-kum/enginesim/internal/kinematics"
	"github.com/san-kum/enginesim/internal/particles"
	"github.com/san-kum/enginesim/internal/thermo"
)

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Angle           float64
	RPM             float64
	Paused          bool
	Stroke          cycle.Stroke
	Valves          cycle.Valves
	SparkFiring     bool
	SparkTimer      int
	CombustionTimer int
	Linkage         kinematics.Linkage
	Volume          float64
	Pressure        float64
	Frames          int
	Cycles          int
	Ignitions       int
}

type Engine struct {
	cfg     *config.Config
	log     zerolog.Logger
	solver  kinematics.Solver
	chamber thermo.Chamber
	machine *cycle.Machine
	hist    *history.Ring
	gas     *particles.Ensemble

	angle   float64
	rpm     float64
	paused  bool
	linkage kinematics.Linkage
	sample  thermo.Sample
	frames  int
	cycles  int
}

// New validates cfg and returns an engine in its reset state. The engine
// keeps its own copy of cfg.
func New(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	cfg = cfg.Clone()

	solver := kinematics.New(cfg.Geometry)
	e := &Engine{
		cfg:     cfg,
		log:     log.With().Str("component", "engine").Logger(),
		solver:  solver,
		chamber: thermo.NewChamber(cfg.Thermo, solver.TDC().PistonY, solver.StrokePixels()),
		machine: cycle.NewMachine(cfg.Cycle),
		hist:    history.New(cfg.HistoryCapacity),
	}
	e.Reset()
	return e, nil
}

// Reset returns to angle 0, paused, at the configured initial speed, with
// fresh particles and an empty history.
func (e *Engine) Reset() {
	e.angle = 0
	e.rpm = e.cfg.Speed.Initial
	e.paused = true
	e.frames = 0
	e.cycles = 0
	e.machine.Reset(0)
	e.hist.Reset()

	bounds := e.boundsAt(e.solver.Solve(0).PistonY)
	if e.gas == nil {
		e.gas = particles.New(e.cfg.Particles, e.cfg.Cycle, e.cfg.Seed, bounds)
	} else {
		e.gas.Scatter(bounds)
	}
	e.recompute(0, false)
	e.log.Debug().Float64("rpm", e.rpm).Msg("engine reset")
}

// Advance moves the crank by rpm·6·dt degrees. It does nothing while
// paused or for a dt that is not a finite positive number.
func (e *Engine) Advance(dt float64) {
	if e.paused || !(dt > 0) || !dynamo.IsFinite(dt) {
		return
	}
	from := e.angle
	e.rotate(e.rpm * 360 / 60 * dt)
	e.recompute(from, true)
}

// Step moves the crank by the configured step size. It only works while
// paused.
func (e *Engine) Step() {
	if !e.paused {
		return
	}
	from := e.angle
	e.rotate(e.cfg.Speed.StepDegrees)
	e.recompute(from, true)
}

// SetRotationalSpeed clamps rpm into the configured range. The new speed
// takes effect on the next Advance.
func (e *Engine) SetRotationalSpeed(rpm float64) {
	if !dynamo.IsFinite(rpm) {
		return
	}
	e.rpm = dynamo.Clamp(rpm, e.cfg.Speed.Min, e.cfg.Speed.Max)
}

// Seek places the crank at angleDeg without recording a sample, moving the
// gas or advancing the combustion timers.
func (e *Engine) Seek(angleDeg float64) {
	if !dynamo.IsFinite(angleDeg) {
		return
	}
	e.angle = kinematics.ReduceDegrees(angleDeg, cycle.CycleDegrees)
	e.recompute(e.angle, false)
}

func (e *Engine) TogglePause() {
	e.paused = !e.paused
}

func (e *Engine) rotate(delta float64) {
	a := e.angle + delta
	if a >= cycle.CycleDegrees {
		e.cycles += int(a / cycle.CycleDegrees)
	}
	e.angle = kinematics.ReduceDegrees(a, cycle.CycleDegrees)
}

// recompute derives every dependent quantity from the current angle.
// Active passes also run the cycle machine over the arc swept from from,
// record history and move the gas.
func (e *Engine) recompute(from float64, active bool) {
	e.linkage = e.solver.Solve(e.angle)
	ignited := false
	if active {
		ignited = e.machine.Update(from, e.angle)
	} else {
		e.machine.Seek(e.angle)
	}
	stroke := e.machine.Stroke()

	e.sample = e.chamber.Sample(stroke, e.linkage.PistonY)
	if ignited {
		e.sample.Pressure = e.chamber.IgnitionPressure()
		e.log.Debug().
			Float64("angle", e.angle).
			Int("ignition", e.machine.Ignitions()).
			Msg("spark")
	}

	if !active {
		e.gas.Recolor(stroke, e.machine.State().CombustionTimer)
		return
	}
	e.frames++
	e.hist.Append(e.sample)
	e.gas.Tick(e.boundsAt(e.linkage.PistonY), stroke, e.machine.State().CombustionTimer)
}

// boundsAt is the gas chamber: cylinder walls, head, and the piston crown.
func (e *Engine) boundsAt(pistonY float64) dynamo.Rect {
	g := e.cfg.Geometry
	top := g.CylinderTopY
	return dynamo.Rect{
		Left:   g.CylinderCenterX - g.CylinderWidth/2,
		Top:    top,
		Right:  g.CylinderCenterX + g.CylinderWidth/2,
		Bottom: max(top, pistonY),
	}
}

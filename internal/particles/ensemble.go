// Package particles animates the gas inside the cylinder. The particles are
// decoration: they react to stroke and combustion state but never feed back
// into pressure.
package particles

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
)

var (
	IntakeColor     = color.RGBA{173, 216, 230, 255}
	CompressedColor = color.RGBA{100, 149, 237, 255}
	ExhaustColor    = color.RGBA{169, 169, 169, 255}
	BurnStartColor  = color.RGBA{255, 255, 0, 255}
	BurnMidColor    = color.RGBA{255, 100, 0, 255}
)

type Particle struct {
	Pos   dynamo.Vec2
	Vel   dynamo.Vec2
	Color color.RGBA
}

// Ensemble is a fixed-size set of particles. Its size is set in New and
// never changes.
type Ensemble struct {
	cfg   config.ParticleConfig
	cycle config.CycleConfig
	rng   *rand.Rand
	ps    []Particle
}

// New scatters cfg.Count particles uniformly inside bounds. A zero seed
// draws one from the clock.
func New(cfg config.ParticleConfig, cyc config.CycleConfig, seed int64, bounds dynamo.Rect) *Ensemble {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Ensemble{
		cfg:   cfg,
		cycle: cyc,
		rng:   rand.New(rand.NewSource(seed)),
		ps:    make([]Particle, max(0, cfg.Count)),
	}
	e.Scatter(bounds)
	return e
}

// Scatter re-seeds every particle position and velocity inside bounds.
func (e *Ensemble) Scatter(bounds dynamo.Rect) {
	band := e.inset(bounds)
	half := e.cfg.MaxSpeed / 2
	for i := range e.ps {
		e.ps[i] = Particle{
			Pos: dynamo.Vec2{
				X: e.uniform(band.Left, band.Right),
				Y: e.uniform(band.Top, band.Bottom),
			},
			Vel: dynamo.Vec2{
				X: e.uniform(-half, half),
				Y: e.uniform(-half, half),
			},
			Color: IntakeColor,
		}
	}
}

// Tick advances every particle one frame inside bounds, the chamber as of
// this frame.
func (e *Ensemble) Tick(bounds dynamo.Rect, s cycle.Stroke, combustionTimer int) {
	flash := cycle.InFlash(combustionTimer, e.cycle)
	limit := e.cfg.MaxSpeed
	if flash {
		limit *= e.cfg.CombustionSpeedMultiplier
	}
	band := e.inset(bounds)
	c := Color(s, combustionTimer, e.cycle)

	for i := range e.ps {
		p := &e.ps[i]

		p.Vel.X += e.uniform(-e.cfg.AccelJitter, e.cfg.AccelJitter)
		p.Vel.Y += e.uniform(-e.cfg.AccelJitter, e.cfg.AccelJitter)
		if s.Expanding() {
			p.Vel.Y += e.cfg.ExpansionAccel
		}

		if speed := p.Vel.Len(); speed > limit {
			p.Vel = p.Vel.Scale(limit / speed)
		}
		p.Vel = p.Vel.Scale(e.cfg.Friction)
		p.Pos = p.Pos.Add(p.Vel)

		e.collide(p, band, s)
		p.Color = c
	}
}

// Recolor sets every particle to the gas color for s and combustionTimer
// without moving anything.
func (e *Ensemble) Recolor(s cycle.Stroke, combustionTimer int) {
	c := Color(s, combustionTimer, e.cycle)
	for i := range e.ps {
		e.ps[i].Color = c
	}
}

func (e *Ensemble) collide(p *Particle, band dynamo.Rect, s cycle.Stroke) {
	if p.Pos.X < band.Left {
		p.Pos.X = band.Left
		p.Vel.X *= -e.cfg.WallRestitution
	} else if p.Pos.X > band.Right {
		p.Pos.X = band.Right
		p.Vel.X *= -e.cfg.WallRestitution
	}

	if p.Pos.Y < band.Top {
		p.Pos.Y = band.Top
		p.Vel.Y *= -e.cfg.WallRestitution
	} else if p.Pos.Y > band.Bottom {
		// piston face
		p.Pos.Y = band.Bottom
		rest := e.cfg.PistonRestitutionSoft
		if s.PistonRising() {
			rest = e.cfg.PistonRestitutionHard
		}
		p.Vel.Y *= -rest
		p.Vel.Y -= e.cfg.PistonKick
	}
}

// inset shrinks bounds by the particle radius. When the chamber is thinner
// than a particle the band collapses onto its midline.
func (e *Ensemble) inset(b dynamo.Rect) dynamo.Rect {
	r := e.cfg.Radius
	out := dynamo.Rect{Left: b.Left + r, Top: b.Top + r, Right: b.Right - r, Bottom: b.Bottom - r}
	if out.Right < out.Left {
		mid := (b.Left + b.Right) / 2
		out.Left, out.Right = mid, mid
	}
	if out.Bottom < out.Top {
		mid := (b.Top + b.Bottom) / 2
		out.Top, out.Bottom = mid, mid
	}
	return out
}

func (e *Ensemble) uniform(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *Ensemble) Len() int { return len(e.ps) }

// Particles returns a copy of the current particles.
func (e *Ensemble) Particles() []Particle {
	out := make([]Particle, len(e.ps))
	copy(out, e.ps)
	return out
}

// SpeedLimit is the largest speed a particle can have after a tick.
func (e *Ensemble) SpeedLimit() float64 {
	return e.cfg.MaxSpeed * math.Max(1, e.cfg.CombustionSpeedMultiplier)
}

// Color is the gas color for a stroke and combustion timer.
func Color(s cycle.Stroke, combustionTimer int, cyc config.CycleConfig) color.RGBA {
	switch s {
	case cycle.Intake:
		return IntakeColor
	case cycle.Compression:
		return CompressedColor
	case cycle.Exhaust:
		return ExhaustColor
	}
	if combustionTimer <= 0 {
		return BurnMidColor
	}
	if cycle.InFlash(combustionTimer, cyc) {
		return BurnStartColor
	}
	return lerp(BurnMidColor, BurnStartColor, cycle.FadeRatio(combustionTimer, cyc))
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), 255}
}

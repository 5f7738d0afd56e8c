// Package kinematics solves the crank-slider linkage of a single cylinder.
package kinematics

import (
	"math"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
)

// Linkage is the solved position of every moving joint for one crank angle.
type Linkage struct {
	CrankPin  dynamo.Vec2
	PistonPin dynamo.Vec2
	// PistonY is the y of the piston crown (top face).
	PistonY float64
}

// Solver maps a crank angle to linkage positions. It is a value type with
// no mutable state; the dead-center positions are solved once in New.
type Solver struct {
	r, l        float64
	halfPiston  float64
	center      dynamo.Vec2
	tdc, bdc    Linkage
	strokePixel float64
}

// New builds a solver for g and solves both dead centers. g is assumed
// valid; see config.Validate.
func New(g config.GeometryConfig) Solver {
	s := Solver{
		r:          g.CrankRadius,
		l:          g.ConrodLength,
		halfPiston: g.PistonHeight / 2,
		center:     g.CrankCenter(),
	}
	// With the crank pin at cy + r·cosθ, θ = 0 hangs the pin below the
	// crank center (piston lowest) and θ = 180 raises it to the top.
	s.bdc = s.Solve(0)
	s.tdc = s.Solve(180)
	s.strokePixel = s.bdc.PistonY - s.tdc.PistonY
	return s
}

// Solve returns the linkage for angleDeg; only angleDeg mod 360 matters.
func (s Solver) Solve(angleDeg float64) Linkage {
	theta := ReduceDegrees(angleDeg, 360) * math.Pi / 180
	sin, cos := math.Sincos(theta)

	pin := dynamo.Vec2{
		X: s.center.X + s.r*sin,
		Y: s.center.Y + s.r*cos,
	}

	// Floating-point error near 90 and 270 degrees can push the radicand
	// just below zero.
	offset := s.r * sin
	radicand := math.Max(0, s.l*s.l-offset*offset)
	pinY := pin.Y - math.Sqrt(radicand)

	return Linkage{
		CrankPin:  pin,
		PistonPin: dynamo.Vec2{X: s.center.X, Y: pinY},
		PistonY:   pinY - s.halfPiston,
	}
}

func (s Solver) TDC() Linkage             { return s.tdc }
func (s Solver) BDC() Linkage             { return s.bdc }
func (s Solver) CrankCenter() dynamo.Vec2 { return s.center }
func (s Solver) StrokePixels() float64    { return s.strokePixel }

// ReduceDegrees maps angle into [0, period).
func ReduceDegrees(angle, period float64) float64 {
	a := math.Mod(angle, period)
	if a < 0 {
		a += period
	}
	// math.Mod of a tiny negative can round back up to period.
	if a >= period {
		a = 0
	}
	return a
}

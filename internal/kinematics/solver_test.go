package kinematics

import (
	"math"
	"testing"

	"github.com/san-kum/enginesim/internal/config"
)

func TestDeadCenters(t *testing.T) {
	g := config.DefaultConfig().Geometry
	s := New(g)

	if math.Abs(s.TDC().PistonY-g.CylinderTopY) > 1e-9 {
		t.Errorf("expected piston crown at cylinder top %f at TDC, got %f", g.CylinderTopY, s.TDC().PistonY)
	}
	if math.Abs(s.BDC().PistonY-250) > 1e-9 {
		t.Errorf("expected piston crown at 250 at BDC, got %f", s.BDC().PistonY)
	}
	if math.Abs(s.StrokePixels()-g.StrokeLength()) > 1e-9 {
		t.Errorf("expected stroke %f, got %f", g.StrokeLength(), s.StrokePixels())
	}
}

func TestSolveKnownAngles(t *testing.T) {
	g := config.DefaultConfig().Geometry
	s := New(g)
	c := g.CrankCenter()

	tests := []struct {
		angle   float64
		pinX    float64
		pinY    float64
		pistonY float64
	}{
		{0, c.X, c.Y + 75, 250},
		{180, c.X, c.Y - 75, 100},
		{90, c.X + 75, c.Y, c.Y - math.Sqrt(180*180-75*75) - 20},
		{270, c.X - 75, c.Y, c.Y - math.Sqrt(180*180-75*75) - 20},
		{360, c.X, c.Y + 75, 250},
		{540, c.X, c.Y - 75, 100},
	}

	for _, tt := range tests {
		l := s.Solve(tt.angle)
		if math.Abs(l.CrankPin.X-tt.pinX) > 1e-9 || math.Abs(l.CrankPin.Y-tt.pinY) > 1e-9 {
			t.Errorf("angle %.0f: expected pin (%f, %f), got (%f, %f)", tt.angle, tt.pinX, tt.pinY, l.CrankPin.X, l.CrankPin.Y)
		}
		if math.Abs(l.PistonY-tt.pistonY) > 1e-9 {
			t.Errorf("angle %.0f: expected piston %f, got %f", tt.angle, tt.pistonY, l.PistonY)
		}
		if l.PistonPin.X != c.X {
			t.Errorf("angle %.0f: piston pin left the bore axis: %f", tt.angle, l.PistonPin.X)
		}
	}
}

func TestPistonStaysBetweenDeadCenters(t *testing.T) {
	s := New(config.DefaultConfig().Geometry)
	top, bottom := s.TDC().PistonY, s.BDC().PistonY

	for a := -720.0; a <= 1440.0; a += 0.25 {
		y := s.Solve(a).PistonY
		if math.IsNaN(y) {
			t.Fatalf("angle %.2f: NaN piston position", a)
		}
		if y < top-1e-9 || y > bottom+1e-9 {
			t.Fatalf("angle %.2f: piston %f outside [%f, %f]", a, y, top, bottom)
		}
	}
}

func TestRadicandGuard(t *testing.T) {
	g := config.DefaultConfig().Geometry
	g.ConrodLength = g.CrankRadius * (1 + 1e-15)
	s := New(g)

	for _, a := range []float64{89.9999999, 90, 90.0000001, 270, 269.9999999} {
		l := s.Solve(a)
		if math.IsNaN(l.PistonPin.Y) {
			t.Errorf("angle %f: radicand produced NaN", a)
		}
	}
}

func TestReduceDegrees(t *testing.T) {
	tests := []struct {
		in, period, want float64
	}{
		{0, 720, 0},
		{719, 720, 719},
		{720, 720, 0},
		{725, 720, 5},
		{-10, 720, 710},
		{-1e-18, 720, 0},
		{370, 360, 10},
	}
	for _, tt := range tests {
		if got := ReduceDegrees(tt.in, tt.period); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ReduceDegrees(%f, %f) = %f, want %f", tt.in, tt.period, got, tt.want)
		}
	}
}

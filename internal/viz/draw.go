package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/particles"
	"github.com/san-kum/enginesim/internal/scene"
	"github.com/san-kum/enginesim/internal/thermo"
)

// Projector maps world pixels onto canvas sub-pixels with one scale for
// both axes, centred in the canvas.
type Projector struct {
	world  dynamo.Rect
	scale  float64
	ox, oy float64
}

func NewProjector(world dynamo.Rect, subW, subH int) Projector {
	ww, wh := math.Max(world.Width(), 1), math.Max(world.Height(), 1)
	s := math.Min(float64(subW-1)/ww, float64(subH-1)/wh)
	return Projector{
		world: world,
		scale: s,
		ox:    (float64(subW-1) - ww*s) / 2,
		oy:    (float64(subH-1) - wh*s) / 2,
	}
}

func (p Projector) Point(v dynamo.Vec2) (int, int) {
	x := p.ox + (v.X-p.world.Left)*p.scale
	y := p.oy + (v.Y-p.world.Top)*p.scale
	return int(math.Round(x)), int(math.Round(y))
}

// Length scales a world distance, never below one sub-pixel.
func (p Projector) Length(l float64) int {
	return max(1, int(math.Round(l*p.scale)))
}

func StrokeColor(th Theme, s cycle.Stroke) lipgloss.Color {
	switch s {
	case cycle.Intake:
		return th.Intake
	case cycle.Compression:
		return th.Compression
	case cycle.Power:
		return th.Power
	default:
		return th.Exhaust
	}
}

func partColor(th Theme, p scene.Part) lipgloss.Color {
	switch p {
	case scene.Head:
		return th.Head
	case scene.Piston, scene.Ring:
		return th.Piston
	case scene.Rod, scene.Pin:
		return th.Rod
	case scene.IntakeValve:
		return th.Intake
	case scene.ExhaustValve:
		return th.Exhaust
	case scene.Stem, scene.SparkPlug:
		return th.Valve
	case scene.Spark:
		return th.Spark
	default:
		return th.Metal
	}
}

// DrawScene renders the gas and the mechanism. The combustion flash is a
// checkerboard over the chamber, denser as the flash is brighter.
func DrawScene(c *Canvas, p Projector, l scene.Layout, gas []particles.Particle, th Theme) {
	if l.Flash > 0 {
		c.Pen(th.Power)
		x0, y0 := p.Point(dynamo.Vec2{X: l.Chamber.Left, Y: l.Chamber.Top})
		x1, y1 := p.Point(dynamo.Vec2{X: l.Chamber.Right, Y: l.Chamber.Bottom})
		stride := 2
		if l.Flash < 0.5 {
			stride = 4
		}
		for y := y0; y <= y1; y++ {
			for x := x0 + y%stride; x <= x1; x += stride {
				c.Set(x, y)
			}
		}
	}
	for _, g := range gas {
		c.Pen(RGBAColor(g.Color))
		c.Set(p.Point(g.Pos))
	}

	if len(l.Counterweight) > 2 {
		pts := make([][2]int, len(l.Counterweight))
		for i, v := range l.Counterweight {
			pts[i][0], pts[i][1] = p.Point(v)
		}
		c.Pen(th.Metal)
		c.DrawPolyline(pts, true)
	}

	var sparks []scene.Segment
	for _, s := range l.Segments {
		if s.Part == scene.Spark {
			sparks = append(sparks, s)
			continue
		}
		drawSegment(c, p, s, th)
	}
	for _, b := range l.Boxes {
		c.Pen(partColor(th, b.Part))
		x0, y0 := p.Point(dynamo.Vec2{X: b.Rect.Left, Y: b.Rect.Top})
		x1, y1 := p.Point(dynamo.Vec2{X: b.Rect.Right, Y: b.Rect.Bottom})
		if b.Filled {
			c.FillRect(x0, y0, x1, y1)
		} else {
			c.DrawRect(x0, y0, x1, y1)
		}
	}
	for _, ci := range l.Circles {
		c.Pen(partColor(th, ci.Part))
		x, y := p.Point(ci.Center)
		c.DrawCircle(x, y, p.Length(ci.Radius), ci.Filled)
	}
	for _, s := range sparks {
		drawSegment(c, p, s, th)
	}
}

// DrawAnnotations draws each leader line and then its label, centred on
// the text anchor.
func DrawAnnotations(c *Canvas, p Projector, l scene.Layout, th Theme) {
	c.Pen(th.Muted)
	for _, a := range l.Annotations {
		x0, y0 := p.Point(a.Text)
		x1, y1 := p.Point(a.Point)
		c.DrawLine(x0, y0, x1, y1)
	}
	c.Pen(th.Text)
	for _, a := range l.Annotations {
		x, y := p.Point(a.Text)
		n := len([]rune(a.Label))
		c.Text(x-n, y, a.Label)
	}
}

func drawSegment(c *Canvas, p Projector, s scene.Segment, th Theme) {
	c.Pen(partColor(th, s.Part))
	x0, y0 := p.Point(s.A)
	x1, y1 := p.Point(s.B)
	c.DrawThickLine(x0, y0, x1, y1, p.Length(s.Width))
}

// DrawPV plots the trace with axes along the left and bottom edges and a
// small circle on the current sample.
func DrawPV(c *Canvas, axes analysis.PVAxes, trace []thermo.Sample, current thermo.Sample, th Theme) {
	w, h := c.Width*2-1, c.Height*4-1
	axes.Plot = dynamo.Rect{Left: 2, Top: 1, Right: float64(w), Bottom: float64(h - 2)}

	c.Pen(th.Muted)
	c.DrawLine(1, 0, 1, h)
	c.DrawLine(1, h-1, w, h-1)

	c.Pen(th.Primary)
	pts := make([][2]int, 0, len(trace))
	for _, s := range trace {
		v := axes.Scale(s)
		pts = append(pts, [2]int{int(math.Round(v.X)), int(math.Round(v.Y))})
	}
	c.DrawPolyline(pts, false)

	c.Pen(th.Accent)
	v := axes.Scale(current)
	c.DrawCircle(int(math.Round(v.X)), int(math.Round(v.Y)), 2, true)
}

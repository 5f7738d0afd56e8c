// Package scene lays out the engine drawing in world (screen-pixel)
// coordinates. Both the terminal view and the window draw from the same
// Layout, each with its own primitives.
package scene

import (
	"math"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/engine"
)

const (
	ValveSize     = 15.0
	ValveLift     = 12.0
	WallThickness = 8.0
	HeadDepth     = 30.0
	SparkDrop     = 5.0
	SparkRise     = 15.0
	PinRadius     = 6.0
	CrankPinR     = 8.0
	JournalR      = 15.0
)

// Part names a component so renderers can pick a color per part.
type Part int

const (
	Cylinder Part = iota
	Head
	Piston
	Ring
	Rod
	Crank
	Counterweight
	Pin
	IntakeValve
	ExhaustValve
	Stem
	SparkPlug
	Spark
)

type Segment struct {
	A, B  dynamo.Vec2
	Width float64
	Part  Part
}

type Box struct {
	Rect   dynamo.Rect
	Part   Part
	Filled bool
	Open   bool
}

type Circle struct {
	Center dynamo.Vec2
	Radius float64
	Part   Part
	Filled bool
}

// Annotation labels a component: Label is drawn centred on Text, with a
// leader line from Text to Point on the part.
type Annotation struct {
	Label string
	Text  dynamo.Vec2
	Point dynamo.Vec2
}

// Layout is every primitive for one frame, back to front. Annotations go
// on top of everything.
type Layout struct {
	World         dynamo.Rect
	Chamber       dynamo.Rect
	Flash         float64
	Boxes         []Box
	Segments      []Segment
	Circles       []Circle
	Counterweight []dynamo.Vec2
	Annotations   []Annotation
}

// Builder holds the frame-independent parts of the drawing.
type Builder struct {
	geo  config.GeometryConfig
	bdcY float64
}

// NewBuilder takes the geometry and the bottom-dead-center piston crown
// y, which sets how far the cylinder walls reach.
func NewBuilder(geo config.GeometryConfig, bdcPistonY float64) Builder {
	return Builder{geo: geo, bdcY: bdcPistonY}
}

// World is the region a renderer should fit on screen.
func (b Builder) World() dynamo.Rect {
	g := b.geo
	crank := g.CrankCenter()
	return dynamo.Rect{
		Left:   g.CylinderCenterX - 1.5*g.CylinderWidth,
		Top:    b.valveY() - ValveLift - 20,
		Right:  g.CylinderCenterX + 1.5*g.CylinderWidth,
		Bottom: crank.Y + g.CrankRadius + 20,
	}
}

func (b Builder) valveY() float64 {
	return b.geo.CylinderTopY - ValveSize - 5
}

// IntakeX and ExhaustX are the valve centerlines.
func (b Builder) IntakeX() float64  { return b.geo.CylinderCenterX - b.geo.CylinderWidth/4 }
func (b Builder) ExhaustX() float64 { return b.geo.CylinderCenterX + b.geo.CylinderWidth/4 }

// Build lays out one frame. chamber is the current gas region and flash
// the combustion flash intensity in [0,1].
func (b Builder) Build(s engine.Snapshot, chamber dynamo.Rect, flash float64) Layout {
	g := b.geo
	left := g.CylinderCenterX - g.CylinderWidth/2
	right := g.CylinderCenterX + g.CylinderWidth/2
	wallBottom := b.bdcY + g.PistonHeight + 10
	crank := g.CrankCenter()

	l := Layout{
		World:   b.World(),
		Chamber: chamber,
		Flash:   flash,
	}

	// head and walls
	l.Boxes = append(l.Boxes, Box{
		Rect: dynamo.Rect{
			Left:   left - WallThickness,
			Top:    g.CylinderTopY - HeadDepth,
			Right:  right + WallThickness,
			Bottom: g.CylinderTopY,
		},
		Part:   Head,
		Filled: true,
	})
	l.Segments = append(l.Segments,
		Segment{A: dynamo.Vec2{X: left, Y: g.CylinderTopY}, B: dynamo.Vec2{X: left, Y: wallBottom}, Width: WallThickness, Part: Cylinder},
		Segment{A: dynamo.Vec2{X: right, Y: g.CylinderTopY}, B: dynamo.Vec2{X: right, Y: wallBottom}, Width: WallThickness, Part: Cylinder},
	)

	// crankshaft: counterweight opposite the pin, journal, web
	l.Counterweight = counterweightArc(crank, g.CrankRadius*0.9, s.Angle)
	l.Circles = append(l.Circles, Circle{Center: crank, Radius: JournalR, Part: Crank, Filled: true})
	l.Segments = append(l.Segments, Segment{A: crank, B: s.Linkage.CrankPin, Width: 12, Part: Crank})
	l.Circles = append(l.Circles, Circle{Center: s.Linkage.CrankPin, Radius: CrankPinR, Part: Pin, Filled: true})

	l.Segments = append(l.Segments, Segment{A: s.Linkage.PistonPin, B: s.Linkage.CrankPin, Width: 10, Part: Rod})

	// piston with three rings
	pistonTop := s.Linkage.PistonY
	l.Boxes = append(l.Boxes, Box{
		Rect:   dynamo.Rect{Left: left, Top: pistonTop, Right: right, Bottom: pistonTop + g.PistonHeight},
		Part:   Piston,
		Filled: true,
	})
	ringY := pistonTop + g.PistonHeight*0.15
	for i := 0; i < 3; i++ {
		y := ringY + float64(i)*5
		l.Boxes = append(l.Boxes, Box{
			Rect:   dynamo.Rect{Left: left + 2, Top: y, Right: right - 2, Bottom: y + 2},
			Part:   Ring,
			Filled: true,
		})
	}
	l.Circles = append(l.Circles, Circle{Center: s.Linkage.PistonPin, Radius: PinRadius, Part: Pin, Filled: true})

	l.addValve(b.IntakeX(), b.valveY(), s.Valves.Intake, IntakeValve)
	l.addValve(b.ExhaustX(), b.valveY(), s.Valves.Exhaust, ExhaustValve)

	plugTop := dynamo.Vec2{X: g.CylinderCenterX, Y: g.CylinderTopY - SparkRise}
	tip := dynamo.Vec2{X: g.CylinderCenterX, Y: g.CylinderTopY - SparkDrop}
	l.Segments = append(l.Segments, Segment{A: plugTop, B: tip, Width: 4, Part: SparkPlug})
	if s.SparkFiring {
		l.Segments = append(l.Segments, sparkStar(dynamo.Vec2{X: tip.X, Y: tip.Y + 7})...)
	}
	l.Annotations = b.annotations(s)
	return l
}

// annotations places the component labels. The piston and rod labels
// follow the linkage; the rest are fixed to the block.
func (b Builder) annotations(s engine.Snapshot) []Annotation {
	g := b.geo
	cx, top := g.CylinderCenterX, g.CylinderTopY
	left := cx - g.CylinderWidth/2
	crank := g.CrankCenter()
	plug := dynamo.Vec2{X: cx, Y: top - SparkRise}
	valveTop := b.valveY() - 5
	pistonMid := s.Linkage.PistonY + g.PistonHeight/2
	rodMid := dynamo.Vec2{
		X: (s.Linkage.PistonPin.X + s.Linkage.CrankPin.X) / 2,
		Y: (s.Linkage.PistonPin.Y + s.Linkage.CrankPin.Y) / 2,
	}
	at := func(x, y float64) dynamo.Vec2 { return dynamo.Vec2{X: x, Y: y} }

	return []Annotation{
		{Label: "Spark Plug", Text: at(plug.X+10, plug.Y-15), Point: plug},
		{Label: "Intake Valve", Text: at(b.IntakeX()-60, b.valveY()-30), Point: at(b.IntakeX(), valveTop)},
		{Label: "Exhaust Valve", Text: at(b.ExhaustX()+50, b.valveY()-30), Point: at(b.ExhaustX(), valveTop)},
		{Label: "Combustion Chamber", Text: at(cx-100, top+20), Point: at(left+5, top+10)},
		{Label: "Piston", Text: at(cx-70, pistonMid), Point: at(left+5, pistonMid)},
		{Label: "Connecting Rod", Text: at(cx-80, rodMid.Y), Point: rodMid},
		{Label: "Crankshaft", Text: at(crank.X+50, crank.Y+40), Point: at(crank.X+5, crank.Y+5)},
	}
}

// addValve places a valve head, lifted into the chamber when open, with
// its stem above.
func (l *Layout) addValve(x, y float64, open bool, part Part) {
	if open {
		y -= ValveLift
	}
	l.Boxes = append(l.Boxes, Box{
		Rect:   dynamo.Rect{Left: x - ValveSize/2, Top: y, Right: x + ValveSize/2, Bottom: y + ValveSize},
		Part:   part,
		Filled: true,
		Open:   open,
	})
	l.Segments = append(l.Segments, Segment{
		A:     dynamo.Vec2{X: x, Y: y},
		B:     dynamo.Vec2{X: x, Y: y - 15},
		Width: 3,
		Part:  Stem,
	})
}

// counterweightArc is a half-disc polygon centred opposite the crank pin.
func counterweightArc(center dynamo.Vec2, radius, angleDeg float64) []dynamo.Vec2 {
	const steps = 16
	mid := (math.Mod(angleDeg, 360) + 180) * math.Pi / 180
	pts := make([]dynamo.Vec2, 0, steps+2)
	pts = append(pts, center)
	for i := 0; i <= steps; i++ {
		a := mid - math.Pi/2 + math.Pi*float64(i)/steps
		// Same convention as the crank pin: x uses sin, y uses cos.
		pts = append(pts, dynamo.Vec2{
			X: center.X + radius*math.Sin(a),
			Y: center.Y + radius*math.Cos(a),
		})
	}
	return pts
}

// sparkStar is fourteen rays alternating long and short.
func sparkStar(c dynamo.Vec2) []Segment {
	const points = 7
	out := make([]Segment, 0, points*2)
	for i := 0; i < points*2; i++ {
		r := 12.0
		if i%2 == 1 {
			r = 5
		}
		a := 2*math.Pi*float64(i)/(points*2) - math.Pi/2
		out = append(out, Segment{
			A:     c,
			B:     dynamo.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)},
			Width: 2,
			Part:  Spark,
		})
	}
	return out
}

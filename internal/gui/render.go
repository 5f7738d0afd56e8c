package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/particles"
	"github.com/san-kum/enginesim/internal/scene"
)

var partColors = map[scene.Part]color.RGBA{
	scene.Cylinder:      rl.NewColor(150, 150, 150, 255),
	scene.Head:          rl.NewColor(100, 100, 100, 255),
	scene.Piston:        rl.NewColor(190, 190, 190, 255),
	scene.Ring:          rl.NewColor(80, 80, 80, 255),
	scene.Rod:           rl.NewColor(160, 160, 160, 255),
	scene.Crank:         rl.NewColor(120, 120, 120, 255),
	scene.Counterweight: rl.NewColor(90, 90, 90, 255),
	scene.Pin:           rl.NewColor(60, 60, 60, 255),
	scene.IntakeValve:   rl.NewColor(100, 149, 237, 255),
	scene.ExhaustValve:  rl.NewColor(150, 150, 150, 255),
	scene.Stem:          rl.NewColor(210, 180, 140, 255),
	scene.SparkPlug:     rl.NewColor(230, 230, 230, 255),
	scene.Spark:         rl.NewColor(255, 255, 0, 255),
}

var strokeColors = map[cycle.Stroke]color.RGBA{
	cycle.Intake:      particles.IntakeColor,
	cycle.Compression: particles.CompressedColor,
	cycle.Power:       particles.BurnStartColor,
	cycle.Exhaust:     particles.ExhaustColor,
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode2D(a.camera)
	a.drawEngine()
	rl.EndMode2D()

	a.drawPV()
	a.drawControls()
	a.drawHUD()
	// No shade while the speed slider is dragged.
	if a.eng.Paused() && !a.dragging {
		a.drawPausedOverlay()
	}

	rl.EndDrawing()
}

func (a *App) drawEngine() {
	snap := a.eng.Snapshot()
	l := a.builder.Build(snap, a.eng.ChamberBounds(), a.eng.FlashAlpha())

	rl.DrawRectangleRec(rect(l.Chamber), rl.NewColor(25, 25, 25, 255))
	radius := float32(a.eng.Config().Particles.Radius)
	for _, p := range a.eng.Particles() {
		rl.DrawCircleV(vec(p.Pos), radius, p.Color)
	}
	if l.Flash > 0 {
		rl.DrawRectangleRec(rect(l.Chamber), rl.ColorAlpha(particles.BurnStartColor, float32(l.Flash)*0.6))
	}

	fillFan(l.Counterweight, partColors[scene.Counterweight])
	var sparks []scene.Segment
	for _, s := range l.Segments {
		if s.Part == scene.Spark {
			sparks = append(sparks, s)
			continue
		}
		rl.DrawLineEx(vec(s.A), vec(s.B), float32(s.Width), partColors[s.Part])
	}
	for _, b := range l.Boxes {
		if b.Filled {
			rl.DrawRectangleRec(rect(b.Rect), partColors[b.Part])
		} else {
			rl.DrawRectangleLinesEx(rect(b.Rect), 2, partColors[b.Part])
		}
	}
	for _, c := range l.Circles {
		if c.Filled {
			rl.DrawCircleV(vec(c.Center), float32(c.Radius), partColors[c.Part])
		} else {
			rl.DrawCircleLines(int32(c.Center.X), int32(c.Center.Y), float32(c.Radius), partColors[c.Part])
		}
	}
	for _, s := range sparks {
		rl.DrawLineEx(vec(s.A), vec(s.B), float32(s.Width), partColors[scene.Spark])
	}
	a.drawAnnotations(l.Annotations)
}

// drawAnnotations runs in world coordinates, so labels scale with the
// engine drawing.
func (a *App) drawAnnotations(labels []scene.Annotation) {
	const size = 14
	for _, an := range labels {
		rl.DrawLineV(vec(an.Text), vec(an.Point), ColLabel)
		w := rl.MeasureTextEx(a.font, an.Label, size, 1)
		at := rl.NewVector2(float32(an.Text.X)-w.X/2, float32(an.Text.Y)-w.Y/2-1)
		rl.DrawTextEx(a.font, an.Label, at, size, 1, ColLabel)
	}
}

func (a *App) drawPausedOverlay() {
	rl.DrawRectangle(0, 0, screenW, screenH, ColShade)
	w := rl.MeasureTextEx(a.font, "PAUSED", 48, 1)
	x := int(enginePanel.Left+enginePanel.Width()/2) - int(w.X/2)
	a.drawText("PAUSED", x, 20, 48, ColPaused)
}

// drawPV plots the history with the live point, volume along x.
func (a *App) drawPV() {
	vlo, vhi := a.eng.VolumeRange()
	plo, phi := a.eng.PressureRange()
	axes := analysis.PVAxes{VMin: vlo, VMax: vhi, PMin: plo, PMax: phi, Plot: pvPanel}

	rl.DrawRectangleLinesEx(rect(pvPanel), 1, ColGrid)
	a.drawText("P-V Diagram", int(pvPanel.Left), int(pvPanel.Top)-28, 20, ColText)
	a.drawText("Volume", int(pvPanel.Right)-70, int(pvPanel.Bottom)+6, 14, ColTextDim)
	a.drawText("Pressure", int(pvPanel.Left)+6, int(pvPanel.Top)+6, 14, ColTextDim)

	hist := a.eng.History()
	if len(hist) > 1 {
		pts := make([]rl.Vector2, len(hist))
		for i, s := range hist {
			pts[i] = vec(axes.Scale(s))
		}
		rl.DrawLineStrip(pts, ColTrace)
	}
	rl.DrawCircleV(vec(axes.Scale(a.eng.CurrentSample())), 5, ColMarker)
}

func (a *App) drawControls() {
	mouse := rl.GetMousePosition()
	pt := dynamo.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}
	for _, b := range a.buttons {
		fill, edge, text := ColGrid, ColAccent, ColSelect
		switch {
		case !b.active(a.eng):
			fill, edge, text = ColBg, ColGrid, ColTextDim
		case b.rect.Contains(pt):
			fill = ColTextDim
		}
		rl.DrawRectangleRec(rect(b.rect), fill)
		rl.DrawRectangleLinesEx(rect(b.rect), 1, edge)
		a.drawText(b.label, int(b.rect.Left)+12, int(b.rect.Top)+11, 18, text)
	}

	cfg := a.eng.Config()
	f := analysis.SliderFraction(a.eng.RPM(), cfg.Speed.Min, cfg.Speed.Max)
	rl.DrawRectangleRec(rect(sliderRect), ColGrid)
	knobX := sliderRect.Left + f*sliderRect.Width()
	rl.DrawRectangleRec(rect(dynamo.Rect{
		Left:   knobX - 6,
		Top:    sliderRect.Top - 6,
		Right:  knobX + 6,
		Bottom: sliderRect.Bottom + 6,
	}), ColAccent)
	a.drawText(fmt.Sprintf("RPM %.0f", a.eng.RPM()), int(sliderRect.Right)+20, int(sliderRect.Top)-2, 18, ColText)
}

func (a *App) drawHUD() {
	snap := a.eng.Snapshot()
	a.drawText("enginesim", 30, 20, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	if snap.Paused {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 20, 16, col)

	a.drawText(snap.Stroke.String(), 600, 495, 22, strokeColors[snap.Stroke])
	a.drawText(snap.Stroke.Description(), 760, 500, 14, ColText)
	a.drawText(fmt.Sprintf("angle %5.1f   V %6.1f   P %5.2f   cycles %d   ignitions %d",
		snap.Angle, snap.Volume, snap.Pressure, snap.Cycles, snap.Ignitions), 600, 650, 14, ColTextDim)
	if snap.SparkFiring {
		a.drawText("SPARK", 1150, 45, 16, partColors[scene.Spark])
	}

	a.drawText("[SPACE] PAUSE  [S] STEP  [N] NEXT STROKE  [R] RESET  [UP/DOWN] RPM  [Q] QUIT", 600, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// fillFan fills a polygon given as a center followed by its rim. Both
// windings are drawn since raylib culls one of them.
func fillFan(pts []dynamo.Vec2, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	c := vec(pts[0])
	for i := 1; i+1 < len(pts); i++ {
		p, q := vec(pts[i]), vec(pts[i+1])
		rl.DrawTriangle(c, p, q, col)
		rl.DrawTriangle(c, q, p, col)
	}
}

func vec(v dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func rect(r dynamo.Rect) rl.Rectangle {
	return rl.NewRectangle(float32(r.Left), float32(r.Top), float32(r.Width()), float32(r.Height()))
}

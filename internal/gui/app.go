package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/scene"
)

const (
	screenW = 1280
	screenH = 720
	rpmStep = 10.0
)

// Panel placement in screen pixels.
var (
	enginePanel = dynamo.Rect{Left: 20, Top: 60, Right: 520, Bottom: 640}
	pvPanel     = dynamo.Rect{Left: 600, Top: 80, Right: 1240, Bottom: 480}
	sliderRect  = dynamo.Rect{Left: 600, Top: 600, Right: 1000, Bottom: 616}
)

// Theme Colors
var (
	ColBg      = rl.NewColor(40, 40, 40, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(110, 110, 110, 255)
	ColGrid    = rl.NewColor(60, 60, 60, 255)
	ColTrace   = rl.NewColor(100, 149, 237, 255)
	ColMarker  = rl.NewColor(255, 255, 0, 255)
	ColLabel   = rl.NewColor(150, 170, 255, 255)
	ColPaused  = rl.NewColor(255, 60, 60, 255)
	ColShade   = rl.NewColor(0, 0, 0, 128)
)

// button is a clickable action. A nil enabled means always enabled.
type button struct {
	label   string
	rect    dynamo.Rect
	action  func(*engine.Engine)
	enabled func(*engine.Engine) bool
}

func (b button) active(eng *engine.Engine) bool {
	return b.enabled == nil || b.enabled(eng)
}

type App struct {
	eng      *engine.Engine
	log      zerolog.Logger
	builder  scene.Builder
	font     rl.Font
	camera   rl.Camera2D
	buttons  []button
	dragging bool
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "enginesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed, otherwise raylib's
// built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(eng *engine.Engine, log zerolog.Logger) *App {
	b := scene.NewBuilder(eng.Geometry(), eng.Solver().BDC().PistonY)
	a := &App{
		eng:     eng,
		log:     log.With().Str("component", "gui").Logger(),
		builder: b,
		font:    loadFont(),
		camera:  fitCamera(b.World(), enginePanel),
	}
	x, y := 600.0, 530.0
	for _, btn := range []button{
		{label: "Play/Pause", action: (*engine.Engine).TogglePause},
		{label: "Step", action: (*engine.Engine).Step, enabled: (*engine.Engine).Paused},
		{label: "Reset", action: (*engine.Engine).Reset},
	} {
		btn.rect = dynamo.Rect{Left: x, Top: y, Right: x + 130, Bottom: y + 40}
		a.buttons = append(a.buttons, btn)
		x += 145
	}
	return a
}

// fitCamera scales world into panel, keeping the aspect and centring it.
func fitCamera(world, panel dynamo.Rect) rl.Camera2D {
	zoom := math.Min(panel.Width()/world.Width(), panel.Height()/world.Height())
	ox := panel.Left + (panel.Width()-world.Width()*zoom)/2
	oy := panel.Top + (panel.Height()-world.Height()*zoom)/2
	return rl.NewCamera2D(
		rl.NewVector2(float32(ox), float32(oy)),
		rl.NewVector2(float32(world.Left), float32(world.Top)),
		0,
		float32(zoom),
	)
}

// Run opens the window and blocks until it is closed.
func Run(eng *engine.Engine, log zerolog.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(eng, log)
	app.log.Info().Msg("window open")
	app.RunLoop()
	app.log.Info().Int("frames", eng.Snapshot().Frames).Msg("window closed")
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the engine by the frame time. It
// reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.eng.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyS) || rl.IsKeyPressed(rl.KeyRight) {
		a.eng.Step()
	}
	if rl.IsKeyPressed(rl.KeyN) && a.eng.Paused() {
		a.eng.Seek((math.Floor(a.eng.Angle()/180) + 1) * 180)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.eng.Reset()
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.eng.SetRotationalSpeed(a.eng.RPM() + rpmStep)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.eng.SetRotationalSpeed(a.eng.RPM() - rpmStep)
	}

	mouse := rl.GetMousePosition()
	pt := dynamo.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for _, b := range a.buttons {
			if b.rect.Contains(pt) && b.active(a.eng) {
				b.action(a.eng)
				a.log.Debug().Str("button", b.label).Msg("pressed")
			}
		}
		if grow(sliderRect, 6).Contains(pt) {
			a.dragging = true
		}
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.dragging = false
	}
	if a.dragging {
		cfg := a.eng.Config()
		f := (pt.X - sliderRect.Left) / sliderRect.Width()
		a.eng.SetRotationalSpeed(analysis.RPMFromFraction(f, cfg.Speed.Min, cfg.Speed.Max))
	}

	a.eng.Advance(float64(rl.GetFrameTime()))
	return false
}

func grow(r dynamo.Rect, by float64) dynamo.Rect {
	return dynamo.Rect{Left: r.Left - by, Top: r.Top - by, Right: r.Right + by, Bottom: r.Bottom + by}
}

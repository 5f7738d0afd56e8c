package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/engine"
)

func TestCanvasSetAndUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if !c.IsSet(0, 0) || !c.IsSet(3, 3) || c.IsSet(1, 0) {
		t.Fatal("wrong pixels set")
	}
	if c.Grid[0][0] != 0x2801 || c.Grid[0][1] != 0x2880 {
		t.Fatalf("grid = %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("unset left %U", c.Grid[0][0])
	}
	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasPenColorsCells(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Pen("#ff0000")
	c.Set(0, 0)
	c.Pen("")
	c.Set(4, 0)
	if c.Colors[0][0] != "#ff0000" {
		t.Errorf("cell 0 color = %q", c.Colors[0][0])
	}
	if c.Colors[0][2] != "" {
		t.Errorf("cell 2 should keep the default color, got %q", c.Colors[0][2])
	}
	c.Clear()
	if c.Colors[0][0] != "" || c.IsSet(0, 0) {
		t.Error("clear left state behind")
	}
}

func TestFillRectAndCircle(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(3, 5, 1, 2)
	for y := 2; y <= 5; y++ {
		for x := 1; x <= 3; x++ {
			if !c.IsSet(x, y) {
				t.Fatalf("(%d,%d) not filled", x, y)
			}
		}
	}
	c.Clear()
	c.DrawCircle(4, 4, 3, false)
	if c.IsSet(4, 4) {
		t.Error("outline circle filled its center")
	}
	if !c.IsSet(7, 4) || !c.IsSet(4, 1) {
		t.Error("circle missing its extreme points")
	}
}

func TestRenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Pen("#00ff00")
	c.DrawLine(0, 0, 5, 7)
	braille := func(s string) (n int) {
		for _, r := range s {
			if r > blank && r <= 0x28ff {
				n++
			}
		}
		return n
	}
	plain, styled := c.String(), c.Render()
	if strings.Count(styled, "\n") != c.Height {
		t.Fatalf("expected %d rows", c.Height)
	}
	if braille(plain) == 0 || braille(plain) != braille(styled) {
		t.Errorf("styled output has %d dot cells, plain %d", braille(styled), braille(plain))
	}
}

func TestProjectorKeepsAspect(t *testing.T) {
	p := NewProjector(dynamo.Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}, 201, 201)
	x0, y0 := p.Point(dynamo.Vec2{X: 0, Y: 0})
	x1, y1 := p.Point(dynamo.Vec2{X: 100, Y: 50})
	if x0 != 0 || x1 != 200 {
		t.Errorf("x span = %d..%d", x0, x1)
	}
	if y1-y0 != 100 {
		t.Errorf("y span = %d, want half the x span", y1-y0)
	}
	if p.Length(0.001) != 1 {
		t.Error("lengths should not vanish")
	}
}

func TestStrokeColors(t *testing.T) {
	th := ThemeWorkshop
	want := map[cycle.Stroke]lipgloss.Color{
		cycle.Intake:      th.Intake,
		cycle.Compression: th.Compression,
		cycle.Power:       th.Power,
		cycle.Exhaust:     th.Exhaust,
	}
	for s, c := range want {
		if got := StrokeColor(th, s); got != c {
			t.Errorf("%v: got %q want %q", s, got, c)
		}
	}
}

func TestNextThemeWraps(t *testing.T) {
	defer SetTheme(ThemeWorkshop.Name)
	SetTheme(Themes[len(Themes)-1].Name)
	NextTheme()
	if CurrentTheme.Name != Themes[0].Name {
		t.Errorf("expected wrap to %s, got %s", Themes[0].Name, CurrentTheme.Name)
	}
	if GetTheme("nope").Name != ThemeWorkshop.Name {
		t.Error("unknown theme should fall back to the default")
	}
}

func TestColorRoundTrip(t *testing.T) {
	c := toRGBA(RGBAColor(toRGBA("#ff8000")))
	if c.R != 0xff || c.G != 0x80 || c.B != 0 || c.A != 255 {
		t.Errorf("got %+v", c)
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	eng, err := engine.New(config.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(eng, zerolog.Nop(), Options{GIFPath: t.TempDir() + "/out.gif"})
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m := newModel(t)
	if !m.eng.Paused() {
		t.Fatal("engine should start paused")
	}

	m = press(m, "s")
	if m.eng.Angle() != 2 {
		t.Errorf("step: angle = %v", m.eng.Angle())
	}
	m = press(m, "n")
	if m.eng.Angle() != 180 {
		t.Errorf("next stroke: angle = %v", m.eng.Angle())
	}
	m = press(m, "+")
	if m.eng.RPM() != 70 {
		t.Errorf("rpm = %v", m.eng.RPM())
	}
	m = press(m, "[")
	if m.eng.RPM() != 10 {
		t.Errorf("rpm should clamp at the minimum, got %v", m.eng.RPM())
	}
	m = press(m, " ")
	if m.eng.Paused() {
		t.Error("space should resume")
	}
	m = press(m, "r")
	if m.eng.Angle() != 0 || !m.eng.Paused() {
		t.Error("reset should rewind and pause")
	}
}

func TestModelTickAdvances(t *testing.T) {
	m := newModel(t)
	m = press(m, " ")
	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if m.eng.Angle() <= 0 {
		t.Errorf("angle did not advance: %v", m.eng.Angle())
	}
	view := m.View()
	for _, want := range []string{"RUNNING", "P-V DIAGRAM", "COMPRESSION"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestRecordingWritesGIF(t *testing.T) {
	m := newModel(t)
	m = press(m, "g")
	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if len(m.frames) != 3 {
		t.Fatalf("captured %d frames", len(m.frames))
	}
	m = press(m, "g")
	if m.recording || m.frames != nil {
		t.Error("recording should stop")
	}
	if !strings.HasPrefix(m.notice, "saved") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(6, 2)
	c.Pen("#ff0000")
	c.Text(2, 5, "piston")
	if got, want := string(c.Grid[1]), string(rune(blank))+"pisto"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
	if c.Colors[1][1] != "#ff0000" {
		t.Errorf("text color = %q", c.Colors[1][1])
	}
	c.Text(0, 100, "off")
	if strings.Contains(c.String(), "off") {
		t.Error("text below the canvas should be dropped")
	}
}

func TestLabelsToggle(t *testing.T) {
	m := newModel(t)
	if strings.Contains(m.canvas.String(), "Piston") {
		t.Fatal("labels should start hidden")
	}
	m = press(m, "l")
	m.draw()
	out := m.canvas.String()
	for _, label := range []string{"Piston", "Crankshaft", "Spark Plug"} {
		if !strings.Contains(out, label) {
			t.Errorf("missing label %q", label)
		}
	}
	m = press(m, "l")
	m.draw()
	if strings.Contains(m.canvas.String(), "Piston") {
		t.Error("second press should hide labels")
	}
}

func TestStylesGauge(t *testing.T) {
	st := NewStyles(ThemeWorkshop)
	if got := strings.Count(st.Gauge(0.5, 10), "█"); got != 5 {
		t.Errorf("half gauge filled %d cells", got)
	}
	if got := strings.Count(st.Gauge(3, 10), "█"); got != 10 {
		t.Errorf("gauge should clamp, filled %d", got)
	}
	if got := strings.Count(st.Gauge(-1, 10), "░"); got != 10 {
		t.Errorf("negative gauge should be empty, got %d blanks", got)
	}
	if st.heat(0) != ThemeWorkshop.Intake || st.heat(1) != ThemeWorkshop.Power {
		t.Errorf("heat ends = %q, %q", st.heat(0), st.heat(1))
	}
	if st.Spark(false) != "" || !strings.Contains(st.Spark(true), "SPARK") {
		t.Error("spark badge only while firing")
	}
}

func TestStylesValves(t *testing.T) {
	st := NewStyles(ThemeWorkshop)
	out := st.Valves(cycle.Valves{Intake: true})
	if !strings.Contains(out, "IN open") || !strings.Contains(out, "EX shut") {
		t.Errorf("valves = %q", out)
	}
}

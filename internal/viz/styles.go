package viz

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/enginesim/internal/cycle"
)

// Styles are the lipgloss styles of the info panel, derived from a Theme so
// that cycling themes recolors the whole view.
type Styles struct {
	theme     Theme
	Panel     lipgloss.Style
	Muted     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Hint      lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
}

func NewStyles(th Theme) Styles {
	bold := lipgloss.NewStyle().Bold(true)
	return Styles{
		theme:     th,
		Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Muted).Padding(1, 2),
		Muted:     lipgloss.NewStyle().Foreground(th.Muted),
		Label:     lipgloss.NewStyle().Foreground(th.Muted).Width(12),
		Value:     bold.Foreground(th.Secondary),
		Hint:      lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		Running:   bold.Foreground(th.Success),
		Paused:    bold.Foreground(th.Warning),
		Recording: bold.Foreground(th.Error).Blink(true),
	}
}

// Stroke is the heading style for a stroke, in that stroke's trace color.
func (st Styles) Stroke(s cycle.Stroke) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(StrokeColor(st.theme, s))
}

// Valves reports both valves, an open one in the color of the stroke that
// opens it.
func (st Styles) Valves(v cycle.Valves) string {
	valve := func(name string, open bool, col lipgloss.Color) string {
		if open {
			return lipgloss.NewStyle().Foreground(col).Render(name + " open")
		}
		return st.Muted.Render(name + " shut")
	}
	return valve("IN", v.Intake, st.theme.Intake) + "  " + valve("EX", v.Exhaust, st.theme.Exhaust)
}

// Spark is the ignition badge, empty while the plug is idle.
func (st Styles) Spark(firing bool) string {
	if !firing {
		return ""
	}
	return lipgloss.NewStyle().Bold(true).Foreground(st.theme.Spark).Render("⚡ SPARK")
}

// Gauge is a bar filled to frac in [0,1]. Its color runs from the intake
// color when empty to the power color when full.
func (st Styles) Gauge(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(st.heat(frac)).Render(bar)
}

// Trace is a one-line sparkline of values sampled down to width, each
// column colored by its height.
func (st Styles) Trace(values []float64, width int) string {
	if len(values) == 0 {
		return st.Muted.Render(strings.Repeat("─", width))
	}
	const levels = "▁▂▃▄▅▆▇█"
	glyphs := []rune(levels)

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	stride := max(1, len(values)/width)

	var b strings.Builder
	for i := 0; i < width && i*stride < len(values); i++ {
		t := (values[i*stride] - lo) / span
		g := glyphs[min(int(t*float64(len(glyphs)-1)), len(glyphs)-1)]
		b.WriteString(lipgloss.NewStyle().Foreground(st.heat(t)).Render(string(g)))
	}
	return b.String()
}

// Rule is a horizontal divider with a crank-pin mark in the middle.
func (st Styles) Rule(width int) string {
	side := max(0, width/2-2)
	return st.Muted.Render(strings.Repeat("─", side) + " ◉ " + strings.Repeat("─", side))
}

func (st Styles) heat(t float64) lipgloss.Color {
	if t < 0.5 {
		return mix(st.theme.Intake, st.theme.Compression, t*2)
	}
	return mix(st.theme.Compression, st.theme.Power, (t-0.5)*2)
}

// GradientText colors each rune of text along the line from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(mix(start, end, t)).Render(string(r)))
	}
	return b.String()
}

// Spinner is the running indicator, one braille frame per tick.
func Spinner(frame int) string {
	const frames = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	rs := []rune(frames)
	return string(rs[frame%len(rs)])
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func mix(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, cb := toRGBA(a), toRGBA(b)
	ch := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return RGBAColor(color.RGBA{R: ch(ca.R, cb.R), G: ch(ca.G, cb.G), B: ch(ca.B, cb.B), A: 255})
}

// RGBAColor converts an image color to a terminal color.
func RGBAColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// toRGBA is the inverse of RGBAColor; anything but #rrggbb becomes white.
func toRGBA(c lipgloss.Color) color.RGBA {
	var r, g, b uint8
	if len(c) != 7 {
		return white
	}
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return white
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

package export

import (
	"strings"
	"testing"

	"github.com/san-kum/enginesim/internal/thermo"
	"github.com/san-kum/enginesim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Fatal("nil canvas should give an empty document")
	}
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2, "#ff0000")
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("fill color missing")
	}
}

func TestPVToSVG(t *testing.T) {
	if PVToSVG([]thermo.Sample{{Volume: 1, Pressure: 1}}, 400, 300, "#0f0") != "" {
		t.Fatal("a single sample has no path")
	}
	samples := []thermo.Sample{
		{Volume: 50, Pressure: 1},
		{Volume: 15, Pressure: 15},
		{Volume: 15, Pressure: 50},
		{Volume: 50, Pressure: 3},
	}
	svg := PVToSVG(samples, 400, 300, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete document")
	}
	if !strings.Contains(svg, " Z\"/>") {
		t.Error("loop path is not closed")
	}
	if got := strings.Count(svg, " L"); got != len(samples)-1 {
		t.Errorf("expected %d line segments, got %d", len(samples)-1, got)
	}
	for _, label := range []string{"Volume", "Pressure"} {
		if !strings.Contains(svg, label) {
			t.Errorf("missing axis label %q", label)
		}
	}
}

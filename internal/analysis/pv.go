package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/thermo"
)

// PVAxes is the data range of a PV plot and the rectangle it is drawn in.
type PVAxes struct {
	VMin, VMax float64
	PMin, PMax float64
	Plot       dynamo.Rect
}

// Scale maps a sample into plot coordinates. Volume runs left to right,
// pressure bottom to top; points outside the data range stick to the edge.
func (a PVAxes) Scale(s thermo.Sample) dynamo.Vec2 {
	vr := math.Max(a.VMax-a.VMin, thermo.Epsilon)
	pr := math.Max(a.PMax-a.PMin, thermo.Epsilon)
	fx := dynamo.Clamp((s.Volume-a.VMin)/vr, 0, 1)
	fy := dynamo.Clamp((s.Pressure-a.PMin)/pr, 0, 1)
	return dynamo.Vec2{
		X: a.Plot.Left + fx*a.Plot.Width(),
		Y: a.Plot.Bottom - fy*a.Plot.Height(),
	}
}

// IndicatedWork integrates P dV around the loop, closing it from the last
// sample back to the first.
func IndicatedWork(samples []thermo.Sample) float64 {
	n := len(samples)
	if n < 3 {
		return 0
	}
	w := 0.0
	for i := 0; i < n; i++ {
		a, b := samples[i], samples[(i+1)%n]
		w += (a.Pressure + b.Pressure) / 2 * (b.Volume - a.Volume)
	}
	return w
}

// Bounds returns the extents of the samples. ok is false for an empty set.
func Bounds(samples []thermo.Sample) (minV, maxV, minP, maxP float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, 0, 0, false
	}
	minV, maxV = samples[0].Volume, samples[0].Volume
	minP, maxP = samples[0].Pressure, samples[0].Pressure
	for _, s := range samples[1:] {
		minV = math.Min(minV, s.Volume)
		maxV = math.Max(maxV, s.Volume)
		minP = math.Min(minP, s.Pressure)
		maxP = math.Max(maxP, s.Pressure)
	}
	return minV, maxV, minP, maxP, true
}

// Summary collects the figures reported after a run.
type Summary struct {
	Samples     int     `json:"samples"`
	MinVolume   float64 `json:"min_volume"`
	MaxVolume   float64 `json:"max_volume"`
	PeakPress   float64 `json:"peak_pressure"`
	MinPress    float64 `json:"min_pressure"`
	LoopWork    float64 `json:"loop_work"`
	VolumeRatio float64 `json:"volume_ratio"`
}

func Summarize(samples []thermo.Sample) Summary {
	minV, maxV, minP, maxP, ok := Bounds(samples)
	if !ok {
		return Summary{}
	}
	s := Summary{
		Samples:   len(samples),
		MinVolume: minV,
		MaxVolume: maxV,
		PeakPress: maxP,
		MinPress:  minP,
		LoopWork:  IndicatedWork(samples),
	}
	if minV > 0 {
		s.VolumeRatio = maxV / minV
	}
	return s
}

// PVToASCII renders samples on a width×height character grid, pressure up.
func PVToASCII(samples []thermo.Sample, width, height int) string {
	minV, maxV, _, maxP, ok := Bounds(samples)
	if !ok || width < 2 || height < 2 {
		return ""
	}

	axes := PVAxes{
		VMin: minV, VMax: maxV,
		PMin: 0, PMax: maxP * 1.1,
		Plot: dynamo.Rect{Right: float64(width - 1), Bottom: float64(height - 1)},
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for col := 0; col < width; col++ {
		canvas[height-1][col] = '─'
	}
	for row := 0; row < height; row++ {
		canvas[row][0] = '│'
	}
	canvas[height-1][0] = '└'

	for _, s := range samples {
		p := axes.Scale(s)
		row, col := int(math.Round(p.Y)), int(math.Round(p.X))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

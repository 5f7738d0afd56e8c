package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/thermo"
	"github.com/san-kum/enginesim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG, one dot per set sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, fill)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !canvas.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					cx := float64(col*2+dx)*scale + scale/2
					cy := float64(row*4+dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PVToSVG draws a PV trace as a closed path with volume and pressure axes.
// The data range comes from the samples with ten percent padding.
func PVToSVG(samples []thermo.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}
	minV, maxV, minP, maxP, _ := analysis.Bounds(samples)
	padV := max((maxV-minV)*0.1, thermo.Epsilon)
	padP := max((maxP-minP)*0.1, thermo.Epsilon)

	const margin = 40.0
	axes := analysis.PVAxes{
		VMin: minV - padV,
		VMax: maxV + padV,
		PMin: minP - padP,
		PMax: maxP + padP,
	}
	axes.Plot.Left = margin
	axes.Plot.Top = 10
	axes.Plot.Right = float64(width) - 10
	axes.Plot.Bottom = float64(height) - margin

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke="#888888" stroke-width="1" fill="none">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
<g fill="#888888" font-family="monospace" font-size="12">
<text x="%.1f" y="%.1f" text-anchor="middle">Volume</text>
<text x="12" y="%.1f" transform="rotate(-90 12 %.1f)" text-anchor="middle">Pressure</text>
</g>
`, width, height, width, height, background,
		axes.Plot.Left, axes.Plot.Bottom, axes.Plot.Right, axes.Plot.Bottom,
		axes.Plot.Left, axes.Plot.Top, axes.Plot.Left, axes.Plot.Bottom,
		(axes.Plot.Left+axes.Plot.Right)/2, float64(height)-12,
		(axes.Plot.Top+axes.Plot.Bottom)/2, (axes.Plot.Top+axes.Plot.Bottom)/2)

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, s := range samples {
		p := axes.Scale(s)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString(` Z"/>
</svg>`)
	return sb.String()
}

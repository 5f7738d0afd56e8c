package viz

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
)

const charW, charH = 8, 16

// captureFrame rasterises the engine canvas, one block per Braille dot in
// the cell's color.
func (m *Model) captureFrame() {
	c := m.canvas
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	bg := uint8(img.Palette.Index(toRGBA(CurrentTheme.Background)))
	for i := range img.Pix {
		img.Pix[i] = bg
	}
	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Grid[row][col] == blank {
				continue
			}
			fg := CurrentTheme.Text
			if cc := c.Colors[row][col]; cc != "" {
				fg = cc
			}
			idx := uint8(img.Palette.Index(toRGBA(fg)))
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !c.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	delay := max(1, 100/m.opts.FPS)
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

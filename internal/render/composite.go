package render

import (
	"image"
	"image/color"

	"github.com/example/layerpaint/internal/canvas"
)

var background = color.RGBA{255, 255, 255, 255}

// Composite recomputes dst from the ordered layer list and the buffers in
// the store. Index 0 is the topmost layer, so iteration runs from the end of
// the list upward; each visible layer is source-over blended at its opacity
// onto an opaque white background. The result depends only on the inputs.
func Composite(dst *image.RGBA, layers []*canvas.Layer, store *canvas.Store) {
	b := dst.Bounds()
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = background.R
		dst.Pix[i+1] = background.G
		dst.Pix[i+2] = background.B
		dst.Pix[i+3] = background.A
	}
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		buf, ok := store.Buffer(l.ID)
		if !ok {
			continue
		}
		drawLayer(dst, buf, b, l.Opacity)
	}
}

func drawLayer(dst, src *image.RGBA, b image.Rectangle, opacity float64) {
	if opacity > 1 {
		opacity = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			sa := src.Pix[i+3]
			if sa == 0 {
				continue
			}
			a := float64(sa) / 255 * opacity
			if a <= 0 {
				continue
			}
			j := dst.PixOffset(x, y)
			if a >= 1 {
				dst.Pix[j] = src.Pix[i]
				dst.Pix[j+1] = src.Pix[i+1]
				dst.Pix[j+2] = src.Pix[i+2]
				dst.Pix[j+3] = 255
				continue
			}
			inv := 1 - a
			dst.Pix[j] = uint8(float64(src.Pix[i])*a + float64(dst.Pix[j])*inv + 0.5)
			dst.Pix[j+1] = uint8(float64(src.Pix[i+1])*a + float64(dst.Pix[j+1])*inv + 0.5)
			dst.Pix[j+2] = uint8(float64(src.Pix[i+2])*a + float64(dst.Pix[j+2])*inv + 0.5)
			dst.Pix[j+3] = 255
		}
	}
}

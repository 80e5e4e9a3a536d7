// Package render implements the pixel-level drawing operations of the
// editor: brush strokes, tolerance flood fill with edge softening, and
// layer compositing. Buffers are *image.RGBA whose Pix bytes are treated
// as straight (non-premultiplied) RGBA throughout.
package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrOutOfRange reports a point outside the buffer bounds.
var ErrOutOfRange = errors.New("point outside canvas bounds")

func pixelAt(buf *image.RGBA, x, y int) color.RGBA {
	i := buf.PixOffset(x, y)
	return color.RGBA{buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]}
}

func setPixel(buf *image.RGBA, x, y int, c color.RGBA) {
	i := buf.PixOffset(x, y)
	buf.Pix[i] = c.R
	buf.Pix[i+1] = c.G
	buf.Pix[i+2] = c.B
	buf.Pix[i+3] = c.A
}

// blendOver source-over composites src onto the pixel at (x, y) using
// straight-alpha arithmetic.
func blendOver(buf *image.RGBA, x, y int, src color.RGBA) {
	if src.A == 255 {
		setPixel(buf, x, y, src)
		return
	}
	if src.A == 0 {
		return
	}
	dst := pixelAt(buf, x, y)
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255 * (1 - sa)
	outA := sa + da
	if outA == 0 {
		setPixel(buf, x, y, color.RGBA{})
		return
	}
	mix := func(s, d uint8) uint8 {
		return uint8((float64(s)*sa+float64(d)*da)/outA + 0.5)
	}
	setPixel(buf, x, y, color.RGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(outA*255 + 0.5),
	})
}

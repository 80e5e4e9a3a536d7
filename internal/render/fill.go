package render

import (
	"image"
	"image/color"
)

const (
	// FillTolerance is the per-channel distance within which a pixel is
	// considered part of the seed region.
	FillTolerance = 24

	// softenPasses is how many one-pixel rings the fill boundary is blended
	// outward after the hard fill.
	softenPasses = 3
)

// FloodFill replaces the 4-connected region around the seed point whose
// pixels lie within FillTolerance of the seed color, then softens the region
// boundary. It reports whether any pixel changed; filling a seed pixel that
// already matches the fill color at full opacity is a no-op. The seed must
// lie inside the buffer or ErrOutOfRange is returned.
func FloodFill(buf *image.RGBA, x, y int, col color.RGBA) (bool, error) {
	b := buf.Bounds()
	if !image.Pt(x, y).In(b) {
		return false, ErrOutOfRange
	}
	w := b.Dx()
	h := b.Dy()
	fill := color.RGBA{col.R, col.G, col.B, 255}
	seed := pixelAt(buf, x, y)
	if seed == fill {
		return false, nil
	}

	// Hard-boundary region growth.
	visited := make([]bool, w*h)
	region := make([]bool, w*h)
	at := func(px, py int) int { return (py-b.Min.Y)*w + (px - b.Min.X) }
	stack := []image.Point{{X: x, Y: y}}
	visited[at(x, y)] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := pixelAt(buf, p.X, p.Y)
		if !withinTolerance(c, seed) {
			continue
		}
		setPixel(buf, p.X, p.Y, fill)
		region[at(p.X, p.Y)] = true
		for _, n := range [4]image.Point{{p.X - 1, p.Y}, {p.X + 1, p.Y}, {p.X, p.Y - 1}, {p.X, p.Y + 1}} {
			if !n.In(b) {
				continue
			}
			if i := at(n.X, n.Y); !visited[i] {
				visited[i] = true
				stack = append(stack, n)
			}
		}
	}

	softenEdges(buf, region, seed, fill)
	return true, nil
}

func withinTolerance(c, ref color.RGBA) bool {
	return absDiff(c.R, ref.R) <= FillTolerance &&
		absDiff(c.G, ref.G) <= FillTolerance &&
		absDiff(c.B, ref.B) <= FillTolerance &&
		absDiff(c.A, ref.A) <= FillTolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// softenEdges grows the filled region outward by softenPasses one-pixel
// rings, blending each ring toward the fill color in proportion to how close
// the underlying pixel was to the seed color. Each pass works against a
// snapshot of the previous pass's membership so a ring never feeds on pixels
// touched within the same pass.
func softenEdges(buf *image.RGBA, expanded []bool, seed, fill color.RGBA) {
	b := buf.Bounds()
	w := b.Dx()
	h := b.Dy()
	prev := make([]bool, len(expanded))
	for pass := 0; pass < softenPasses; pass++ {
		copy(prev, expanded)
		for py := 0; py < h; py++ {
			for px := 0; px < w; px++ {
				i := py*w + px
				if prev[i] {
					continue
				}
				if !adjacentIn(prev, px, py, w, h) {
					continue
				}
				cx := b.Min.X + px
				cy := b.Min.Y + py
				c := pixelAt(buf, cx, cy)
				d := maxChannelDiff(c, seed)
				a := 1 - float64(d)/255
				if a > 0 {
					setPixel(buf, cx, cy, lerp(c, fill, a))
				}
				expanded[i] = true
			}
		}
	}
}

func adjacentIn(mask []bool, px, py, w, h int) bool {
	if px > 0 && mask[py*w+px-1] {
		return true
	}
	if px < w-1 && mask[py*w+px+1] {
		return true
	}
	if py > 0 && mask[(py-1)*w+px] {
		return true
	}
	if py < h-1 && mask[(py+1)*w+px] {
		return true
	}
	return false
}

func maxChannelDiff(c, ref color.RGBA) int {
	d := absDiff(c.R, ref.R)
	if v := absDiff(c.G, ref.G); v > d {
		d = v
	}
	if v := absDiff(c.B, ref.B); v > d {
		d = v
	}
	if v := absDiff(c.A, ref.A); v > d {
		d = v
	}
	return d
}

func lerp(from, to color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-t) + float64(b)*t + 0.5)
	}
	return color.RGBA{
		R: mix(from.R, to.R),
		G: mix(from.G, to.G),
		B: mix(from.B, to.B),
		A: mix(from.A, to.A),
	}
}

package render

import (
	"image"
	"image/color"
)

// Dot stamps a filled circular brush mark centred at (x, y). When erase is
// set the covered pixels are cleared to full transparency instead of being
// painted over.
func Dot(buf *image.RGBA, x, y int, radius float64, col color.RGBA, erase bool) {
	if radius <= 0 {
		radius = 0.5
	}
	r := int(radius + 0.5)
	rr := radius * radius
	b := buf.Bounds()
	for dy := -r; dy <= r; dy++ {
		py := y + dy
		if py < b.Min.Y || py >= b.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			px := x + dx
			if px < b.Min.X || px >= b.Max.X {
				continue
			}
			if float64(dx*dx+dy*dy) > rr {
				continue
			}
			if erase {
				setPixel(buf, px, py, color.RGBA{})
			} else {
				blendOver(buf, px, py, col)
			}
		}
	}
}

// Segment draws a round-capped, round-joined line from (x0, y0) to (x1, y1)
// by stamping the circular brush along a Bresenham walk of the segment.
func Segment(buf *image.RGBA, x0, y0, x1, y1 int, radius float64, col color.RGBA, erase bool) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		Dot(buf, x0, y0, radius, col, erase)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

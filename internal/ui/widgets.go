package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/layerpaint/internal/theme"
)

// currentTheme colors every piece of editor chrome. Swapped once at startup
// via WithTheme, before the event loop runs.
var currentTheme = theme.Default()

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

func buttonFill(state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return currentTheme.ButtonBackgroundHover
	case StatePressed:
		return currentTheme.ButtonBackgroundPress
	}
	return currentTheme.ButtonBackground
}

// ToolButton selects a drawing tool from the toolbar.
type ToolButton struct {
	label    string
	rect     image.Rectangle
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, tb.rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(currentTheme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) {
	if r != tb.rect {
		tb.rect = r
	}
}

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// LayerButton draws one layer entry in the header bar.
type LayerButton struct {
	label    string
	hidden   bool
	rect     image.Rectangle
	onSelect func()
}

func (lb *LayerButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, lb.rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
	src := currentTheme.Foreground
	if lb.hidden {
		src = currentTheme.MutedText
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(src), Face: basicfont.Face7x13,
		Dot: fixed.P(lb.rect.Min.X+4, lb.rect.Min.Y+16)}
	d.DrawString(lb.label)
}

func (lb *LayerButton) Rect() image.Rectangle { return lb.rect }

func (lb *LayerButton) SetRect(r image.Rectangle) {
	if r != lb.rect {
		lb.rect = r
	}
}

func (lb *LayerButton) Activate() {
	if lb.onSelect != nil {
		lb.onSelect()
	}
}

// Shortcut is one clickable action label in the bottom bar.
type Shortcut struct {
	label  string
	action func()
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, currentTheme.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(currentTheme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) {
	if r != s.rect {
		s.rect = r
	}
}

func (s *Shortcut) Activate() {
	if s.action != nil {
		s.action()
	}
}

// backdropCache holds a cached checkerboard backdrop.
var backdropCache *image.RGBA

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// drawBackdrop fills dst with a cached checkerboard pattern.
func drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	if backdropCache == nil || backdropCache.Bounds() != b {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, backdropCache.Bounds(), 8, currentTheme.CheckerLight, currentTheme.CheckerDark)
	}
	draw.Draw(dst, b, backdropCache, image.Point{}, draw.Src)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
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
		setThickPixel(img, x0, y0, thick, col)
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

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(img.Bounds()) {
					img.Set(px, py, col)
				}
			}
		}
	}
}

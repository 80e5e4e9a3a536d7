package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/layerpaint/internal/canvas"
	"github.com/example/layerpaint/internal/editor"
)

const (
	layerBarHeight = 24
	bottomHeight   = 24
)

var toolbarWidth = 56

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

var brushSizes = []int{1, 2, 4, 8, 16, 32}

var layerButtons []LayerButton
var toolButtons []*ToolButton
var shortcutRects []Shortcut
var paletteRects []image.Rectangle
var sizeRects []image.Rectangle

var hoverLayer = -1
var hoverTool = -1
var hoverPalette = -1
var hoverSize = -1
var hoverShortcut = -1

func fitZoom(imgW, imgH, winW, winH int) float64 {
	availW := winW - toolbarWidth
	availH := winH - layerBarHeight - bottomHeight
	zx := float64(availW) / float64(imgW)
	zy := float64(availH) / float64(imgH)
	z := zx
	if zy < z {
		z = zy
	}
	if z > 1 {
		z = 1
	}
	return z
}

// canvasRect returns the destination rectangle for the scaled canvas,
// anchored below the layer bar and right of the toolbar.
func canvasRect(imgW, imgH int, zoom float64) image.Rectangle {
	w := int(float64(imgW) * zoom)
	h := int(float64(imgH) * zoom)
	return image.Rect(toolbarWidth, layerBarHeight, toolbarWidth+w, layerBarHeight+h)
}

type paintState struct {
	width, height  int
	display        *image.RGBA
	zoom           float64
	layers         []*canvas.Layer
	activeID       string
	tool           editor.Tool
	colorIdx       int
	sizeIdx        int
	message        string
	messageUntil   time.Time
	handleShortcut func(string)
	palette        []color.RGBA
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	drawBackdrop(b.RGBA())
	if ctx.Err() != nil {
		return
	}

	dst := canvasRect(st.display.Bounds().Dx(), st.display.Bounds().Dy(), st.zoom)
	xdraw.NearestNeighbor.Scale(b.RGBA(), dst, st.display, st.display.Bounds(), draw.Over, nil)
	if ctx.Err() != nil {
		return
	}

	drawLayerBar(b.RGBA(), st.layers, st.activeID)
	drawToolbar(b.RGBA(), st.tool, st.colorIdx, st.sizeIdx, st.palette)
	drawShortcuts(b.RGBA(), st.width, st.height, st.zoom, st.handleShortcut)

	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: b.RGBA(), Src: image.NewUniform(currentTheme.Foreground), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(b.RGBA(), rect, &image.Uniform{currentTheme.MessageBackground}, image.Point{}, draw.Over)
		drawRect(b.RGBA(), rect, currentTheme.MessageBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawLayerBar(dst *image.RGBA, layers []*canvas.Layer, activeID string) {
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, layerBarHeight),
		&image.Uniform{currentTheme.Background}, image.Point{}, draw.Src)

	title := &font.Drawer{Dst: dst, Src: image.NewUniform(currentTheme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString("LayerPaint")

	layerButtons = layerButtons[:0]
	x := toolbarWidth
	for i, l := range layers {
		label := l.Name
		if !l.Visible {
			label = "(" + label + ")"
		}
		lb := LayerButton{label: label, hidden: !l.Visible}
		lb.SetRect(image.Rect(x, 0, x+96, layerBarHeight))
		state := StateDefault
		if l.ID == activeID {
			state = StatePressed
		} else if i == hoverLayer {
			state = StateHover
		}
		lb.Draw(dst, state)
		layerButtons = append(layerButtons, lb)
		x += 96
	}
	// fill remainder of bar
	draw.Draw(dst, image.Rect(x, 0, dst.Bounds().Dx(), layerBarHeight),
		&image.Uniform{currentTheme.Background}, image.Point{}, draw.Src)
}

func drawToolbar(dst *image.RGBA, tool editor.Tool, colorIdx, sizeIdx int, palette []color.RGBA) {
	draw.Draw(dst, image.Rect(0, layerBarHeight, toolbarWidth, dst.Bounds().Dy()-bottomHeight),
		&image.Uniform{currentTheme.Background}, image.Point{}, draw.Src)

	y := layerBarHeight
	for i, tb := range toolButtons {
		r := image.Rect(0, y, toolbarWidth, y+24)
		tb.SetRect(r)
		state := StateDefault
		if tb.label == toolLabel(tool) {
			state = StatePressed
		} else if i == hoverTool {
			state = StateHover
		}
		tb.Draw(dst, state)
		y += 24
	}

	// color swatches below tools
	y += 4
	x := 4
	paletteRects = paletteRects[:0]
	for i, p := range palette {
		rect := image.Rect(x, y, x+16, y+16)
		draw.Draw(dst, rect, &image.Uniform{p}, image.Point{}, draw.Src)
		if i == hoverPalette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == colorIdx {
			drawRect(dst, rect, color.White, 1)
		}
		paletteRects = append(paletteRects, rect)
		x += 18
		if x+16 > toolbarWidth {
			x = 4
			y += 18
		}
	}
	if x != 4 {
		y += 18
	}

	if tool == editor.ToolPen || tool == editor.ToolEraser {
		y += 4
		col := color.RGBA{A: 255}
		if colorIdx >= 0 && colorIdx < len(palette) {
			col = palette[colorIdx]
		}
		sizeRects = sizeRects[:0]
		for i, sz := range brushSizes {
			rect := image.Rect(0, y, toolbarWidth, y+20)
			state := StateDefault
			if i == sizeIdx {
				state = StatePressed
			} else if i == hoverSize {
				state = StateHover
			}
			draw.Draw(dst, rect, &image.Uniform{buttonFill(state)}, image.Point{}, draw.Src)
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(currentTheme.Foreground), Face: basicfont.Face7x13, Dot: fixed.P(4, y+14)}
			d.DrawString(fmt.Sprintf("%d", sz))
			r := sz / 2
			if r > 8 {
				r = 8
			}
			if r < 1 {
				r = 1
			}
			drawFilledCircle(dst, toolbarWidth-12, y+10, r, col)
			sizeRects = append(sizeRects, rect)
			y += 20
		}
	}
}

func toolLabel(t editor.Tool) string {
	switch t {
	case editor.ToolPen:
		return "P:Pen"
	case editor.ToolEraser:
		return "E:Erase"
	case editor.ToolFill:
		return "F:Fill"
	}
	return ""
}

func drawShortcuts(dst *image.RGBA, width, height int, zoom float64, trigger func(string)) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{currentTheme.Background}, image.Point{}, draw.Src)
	shortcutRects = shortcutRects[:0]
	zoomStr := fmt.Sprintf("+/-:zoom (%.0f%%)", zoom*100)
	shortcuts := []Shortcut{
		{label: "^Z:undo", action: func() { trigger("undo") }},
		{label: "^Y:redo", action: func() { trigger("redo") }},
		{label: "^N:layer", action: func() { trigger("addlayer") }},
		{label: "^D:delete", action: func() { trigger("deletelayer") }},
		{label: "V:show/hide", action: func() { trigger("visibility") }},
		{label: "^S:save", action: func() { trigger("save") }},
		{label: "^E:export", action: func() { trigger("export") }},
		{label: "^C:copy", action: func() { trigger("copy") }},
		{label: "^V:paste", action: func() { trigger("paste") }},
		{label: zoomStr, action: func() { trigger("zoom") }},
		{label: "Q:quit", action: func() { trigger("quit") }},
	}
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		state := StateDefault
		if i == hoverShortcut {
			state = StateHover
		}
		sc.Draw(dst, state)
		shortcutRects = append(shortcutRects, *sc)
		x = sc.rect.Max.X + 8
	}
}

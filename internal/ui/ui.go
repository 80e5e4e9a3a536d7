// Package ui implements the interactive editor window. It renders the
// composited canvas with a toolbar, a layer bar and a shortcut bar, and maps
// pointer and keyboard input onto editor operations.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/export"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/project"
	"github.com/example/layerpaint/internal/theme"
)

// UI owns the window state for one editing session.
type UI struct {
	Editor      *editor.Editor
	ProjectPath string
	Notifier    *notify.Notifier
	Palette     []color.RGBA

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies a UI during creation.
type Option func(*UI)

// WithProjectPath sets the file the save action writes the project to.
func WithProjectPath(path string) Option { return func(u *UI) { u.ProjectPath = path } }

// WithNotifier sets the notifier used for save, export and copy events.
func WithNotifier(n *notify.Notifier) Option { return func(u *UI) { u.Notifier = n } }

// WithPalette replaces the default toolbar swatches.
func WithPalette(cols []color.RGBA) Option {
	return func(u *UI) {
		if len(cols) > 0 {
			u.Palette = cols
		}
	}
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(u *UI) { u.onClose = fn } }

// WithTheme recolors the editor chrome. Must be applied before Run.
func WithTheme(th *theme.Theme) Option {
	return func(u *UI) {
		if th != nil {
			currentTheme = th
			backdropCache = nil
		}
	}
}

func defaultPalette() []color.RGBA {
	return []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{128, 0, 0, 255},
		{0, 128, 0, 255},
		{0, 0, 128, 255},
		{128, 128, 0, 255},
		{0, 128, 128, 255},
		{128, 0, 128, 255},
		{192, 192, 192, 255},
		{128, 128, 128, 255},
	}
}

// New creates a UI bound to the editor. The editor's redraw hook is pointed
// at this UI so mutations from any goroutine schedule a repaint.
func New(ed *editor.Editor, opts ...Option) *UI {
	u := &UI{
		Editor:   ed,
		Palette:  defaultPalette(),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(u)
	}
	ed.SetRedraw(u.NotifyCanvasChanged)
	return u
}

// NotifyCanvasChanged requests a repaint when the composite mutates.
func (u *UI) NotifyCanvasChanged() {
	if u.updateCh == nil {
		return
	}
	select {
	case u.updateCh <- struct{}{}:
	default:
	}
}

func (u *UI) notifyClose() {
	u.closeOnce.Do(func() {
		if u.onClose != nil {
			u.onClose()
		}
	})
}

// exportPath derives the export target from the project path.
func (u *UI) exportPath(ext string) string {
	base := u.ProjectPath
	if base == "" {
		base = "drawing"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// Run executes the UI loop using shiny's driver.
func (u *UI) Run() { driver.Main(u.Main) }

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// keyboardAction maps a keyboard shortcut to the action name.
var keyboardAction = map[KeyShortcut]string{}

func (u *UI) Main(s screen.Screen) {
	ed := u.Editor
	imgW, imgH := ed.Size()

	// Ensure the toolbar is wide enough to fit the program title and all
	// tool button labels so the UI contents are not clipped on start up.
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("LayerPaint").Ceil() + 8
	toolLabels := []string{"P:Pen", "E:Erase", "F:Fill"}
	for _, lbl := range toolLabels {
		w := d.MeasureString(lbl).Ceil() + 8
		if w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}

	width := imgW + toolbarWidth
	height := imgH + layerBarHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer u.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-u.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	zoom := fitZoom(imgW, imgH, width, height)
	colorIdx := paletteIndex(u.Palette, ed.Color())
	sizeIdx := sizeIndex(ed.BrushSize())
	var message string
	var messageUntil time.Time
	var confirmDelete bool
	var stroking bool

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	show := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	keyboardAction = map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	toolButtons = []*ToolButton{
		{label: "P:Pen", onSelect: func() { ed.SetTool(editor.ToolPen) }},
		{label: "E:Erase", onSelect: func() { ed.SetTool(editor.ToolEraser) }},
		{label: "F:Fill", onSelect: func() { ed.SetTool(editor.ToolFill) }},
	}

	register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !ed.Undo() {
			show("nothing to undo")
		}
	})
	register("redo", shortcutList{{Rune: 'y', Modifiers: key.ModControl}}, func() {
		if !ed.Redo() {
			show("nothing to redo")
		}
	})
	register("addlayer", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() {
		l := ed.AddLayer()
		show(fmt.Sprintf("added %s", l.Name))
	})
	register("deletelayer", shortcutList{{Rune: 'd', Modifiers: key.ModControl}}, func() {
		if err := ed.DeleteLayer(ed.ActiveLayerID()); err != nil {
			show(fmt.Sprintf("delete layer: %v", err))
		}
	})
	register("visibility", shortcutList{{Rune: 'v'}}, func() {
		id := ed.ActiveLayerID()
		for _, l := range ed.Layers() {
			if l.ID == id {
				if err := ed.SetLayerVisibility(id, !l.Visible); err != nil {
					log.Printf("visibility: %v", err)
				}
				return
			}
		}
	})
	register("clearlayer", shortcutList{{Rune: 'x', Modifiers: key.ModControl}}, func() {
		if err := ed.ClearActiveLayer(); err != nil {
			show(fmt.Sprintf("clear layer: %v", err))
		}
	})
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if u.ProjectPath == "" {
			show("no project file; start with a path to enable saving")
			return
		}
		doc, err := ed.ExportProject()
		if err != nil {
			show(fmt.Sprintf("save: %v", err))
			return
		}
		data, err := project.Marshal(doc)
		if err != nil {
			show(fmt.Sprintf("save: %v", err))
			return
		}
		if err := os.WriteFile(u.ProjectPath, data, 0o644); err != nil {
			show(fmt.Sprintf("save: %v", err))
			return
		}
		show(fmt.Sprintf("saved %s", u.ProjectPath))
		u.Notifier.Save(u.ProjectPath)
	})
	register("export", shortcutList{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		path := u.exportPath(".png")
		if err := export.WritePNG(path, ed.CompositedImage()); err != nil {
			show(fmt.Sprintf("export: %v", err))
			return
		}
		show(fmt.Sprintf("exported %s", path))
		u.Notifier.Export(path)
	})
	register("exportpdf", shortcutList{{Rune: 'p', Modifiers: key.ModControl}}, func() {
		path := u.exportPath(".pdf")
		if err := export.WritePDF(path, ed.CompositedImage()); err != nil {
			show(fmt.Sprintf("export: %v", err))
			return
		}
		show(fmt.Sprintf("exported %s", path))
		u.Notifier.Export(path)
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		img := ed.CompositedImage()
		if err := clipboard.WriteImage(img); err != nil {
			show(fmt.Sprintf("copy: %v", err))
			return
		}
		show("image copied to clipboard")
		u.Notifier.Copy("image", img)
	})
	register("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, func() {
		img, err := clipboard.ReadImage()
		if err != nil {
			show(fmt.Sprintf("paste: %v", err))
			return
		}
		l := ed.AddLayerFromImage(img)
		show(fmt.Sprintf("pasted as %s", l.Name))
	})
	register("zoom", nil, func() {
		zoom *= 1.25
		if zoom > 8 {
			zoom = 8
		}
	})

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	// canvasPoint maps a window coordinate to a canvas pixel.
	canvasPoint := func(ex, ey float32) (int, int) {
		dst := canvasRect(imgW, imgH, zoom)
		mx := int((float64(ex) - float64(dst.Min.X)) / zoom)
		my := int((float64(ey) - float64(dst.Min.Y)) / zoom)
		return mx, my
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			// Losing focus mid-stroke drops pointer capture; the release
			// never arrives, so the stroke commits here.
			if stroking && e.To < lifecycle.StageFocused {
				ed.DrawEnd()
				stroking = false
			}
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := paintState{
				width:          width,
				height:         height,
				display:        ed.Display(),
				zoom:           zoom,
				layers:         ed.Layers(),
				activeID:       ed.ActiveLayerID(),
				tool:           ed.Tool(),
				colorIdx:       colorIdx,
				sizeIdx:        sizeIdx,
				message:        message,
				messageUntil:   messageUntil,
				handleShortcut: handleShortcut,
				palette:        u.Palette,
			}
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if int(e.Y) >= height-bottomHeight {
				p := image.Point{int(e.X), int(e.Y)}
				hoverShortcut = -1
				for i, sc := range shortcutRects {
					if p.In(sc.rect) {
						hoverShortcut = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							sc.Activate()
						}
						break
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}
			if int(e.Y) < layerBarHeight {
				hoverLayer = -1
				p := image.Point{int(e.X), int(e.Y)}
				layers := ed.Layers()
				for i, lb := range layerButtons {
					if p.In(lb.rect) {
						hoverLayer = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && i < len(layers) {
							if err := ed.SelectLayer(layers[i].ID); err != nil {
								log.Printf("select layer: %v", err)
							}
							w.Send(paint.Event{})
						}
						break
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}
			if int(e.X) < toolbarWidth {
				pos := int(e.Y) - layerBarHeight
				idx := pos / 24
				if idx < len(toolButtons) {
					if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						toolButtons[idx].Activate()
						w.Send(paint.Event{})
					}
					hoverTool = idx
					if e.Direction == mouse.DirNone {
						w.Send(paint.Event{})
					}
					continue
				}
				hoverTool = -1
				hoverPalette = -1
				hoverSize = -1
				p := image.Point{int(e.X), int(e.Y)}
				handled := false
				for i, r := range paletteRects {
					if p.In(r) {
						hoverPalette = i
						if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
							colorIdx = i
							ed.SetColor(u.Palette[i])
							w.Send(paint.Event{})
						}
						handled = true
						break
					}
				}
				if !handled {
					for i, r := range sizeRects {
						if p.In(r) {
							hoverSize = i
							if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
								sizeIdx = i
								ed.SetBrushSize(brushSizes[i])
								w.Send(paint.Event{})
							}
							break
						}
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}

			mx, my := canvasPoint(e.X, e.Y)
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				switch ed.Tool() {
				case editor.ToolFill:
					if err := ed.Fill(mx, my, ed.Color()); err != nil {
						log.Printf("fill: %v", err)
					}
				case editor.ToolPen, editor.ToolEraser:
					err := ed.DrawStart(mx, my, ed.Tool(), ed.Color(), ed.BrushSize(), 1)
					if err == nil {
						stroking = true
					}
				}
			}
			if stroking && e.Direction == mouse.DirNone {
				// Off-canvas moves fail the segment but keep the stroke
				// active so re-entering the canvas continues it.
				_ = ed.DrawMove(mx, my, 1)
			}
			if stroking && e.Direction == mouse.DirRelease {
				ed.DrawEnd()
				stroking = false
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}
			action, ok := keyboardAction[ks]
			if !ok {
				// Shortcuts registered by physical key rather than rune.
				action, ok = keyboardAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
			}
			if ok {
				if action == "deletelayer" {
					if !confirmDelete {
						confirmDelete = true
						show("press ^D again to delete the layer")
						w.Send(paint.Event{})
						continue
					}
					confirmDelete = false
					handleShortcut(action)
					continue
				}
				confirmDelete = false
				handleShortcut(action)
				continue
			}
			confirmDelete = false
			switch e.Rune {
			case 'p', 'P':
				ed.SetTool(editor.ToolPen)
				w.Send(paint.Event{})
			case 'e', 'E':
				ed.SetTool(editor.ToolEraser)
				w.Send(paint.Event{})
			case 'f', 'F':
				ed.SetTool(editor.ToolFill)
				w.Send(paint.Event{})
			case 't', 'T':
				on := !ed.PressureEnabled()
				ed.SetPressureEnabled(on)
				if on {
					show("pen pressure on")
				} else {
					show("pen pressure off")
				}
				w.Send(paint.Event{})
			case '[':
				if err := ed.ReorderLayer(ed.ActiveLayerID(), editor.Up); err != nil {
					log.Printf("reorder: %v", err)
				}
				w.Send(paint.Event{})
			case ']':
				if err := ed.ReorderLayer(ed.ActiveLayerID(), editor.Down); err != nil {
					log.Printf("reorder: %v", err)
				}
				w.Send(paint.Event{})
			case '+', '=':
				zoom *= 1.25
				if zoom > 8 {
					zoom = 8
				}
				w.Send(paint.Event{})
			case '-':
				zoom /= 1.25
				if zoom < 0.1 {
					zoom = 0.1
				}
				w.Send(paint.Event{})
			case '1', '2', '3', '4', '5', '6', '7', '8', '9':
				if e.Modifiers&key.ModControl != 0 {
					idx := int(e.Rune - '1')
					layers := ed.Layers()
					if idx >= 0 && idx < len(layers) {
						if err := ed.SelectLayer(layers[idx].ID); err != nil {
							log.Printf("select layer: %v", err)
						}
						w.Send(paint.Event{})
					}
				}
			case 'q', 'Q':
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		}
	}
}

func paletteIndex(palette []color.RGBA, col color.RGBA) int {
	for i, p := range palette {
		if p == col {
			return i
		}
	}
	return 0
}

func sizeIndex(size int) int {
	for i, s := range brushSizes {
		if s == size {
			return i
		}
	}
	return 2
}

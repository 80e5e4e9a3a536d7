// Package editor wires the layer store, stroke renderer, flood fill,
// compositor and history into the operation surface the UI and CLI drive.
// All pixel mutations run synchronously inside the calling operation; the
// only asynchronous work is per-layer image decoding during project import.
package editor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/example/layerpaint/internal/canvas"
	"github.com/example/layerpaint/internal/history"
	"github.com/example/layerpaint/internal/render"
)

// Tool selects the behaviour of pointer interactions.
type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
	ToolFill   Tool = "fill"
)

// ErrLayerNotFound reports an operation referencing a layer id that is no
// longer in the store.
var ErrLayerNotFound = errors.New("layer not found")

// ErrLastLayer rejects deleting the sole remaining layer.
var ErrLastLayer = errors.New("cannot delete the last remaining layer")

// Direction moves a layer one slot in the stack.
type Direction int

const (
	// Up moves a layer toward the top of the stack (index 0).
	Up Direction = iota
	// Down moves a layer toward the background.
	Down
)

// Editor owns the full editable state of one drawing. Methods are safe for
// concurrent use; in practice all pointer-driven mutation happens on the
// interaction goroutine and only import decode completions arrive elsewhere.
type Editor struct {
	mu      sync.Mutex
	width   int
	height  int
	layers  []*canvas.Layer
	store   *canvas.Store
	display *image.RGBA
	history *history.History
	active  string

	tool            Tool
	brushSize       int
	color           color.RGBA
	pressureEnabled bool

	drawing      bool
	strokeTool   Tool
	strokeColor  color.RGBA
	strokeRadius float64
	lastX, lastY int

	layerSeq int

	loadGen       int
	loadRemaining int
	loadErr       error
	loadDone      func(error)

	onRedraw func()
}

// Option configures an Editor during creation.
type Option func(*Editor)

// WithTool sets the initially selected tool.
func WithTool(t Tool) Option { return func(e *Editor) { e.tool = t } }

// WithBrushSize sets the initial brush diameter in pixels.
func WithBrushSize(size int) Option { return func(e *Editor) { e.brushSize = size } }

// WithColor sets the initial drawing color.
func WithColor(c color.RGBA) Option { return func(e *Editor) { e.color = c } }

// WithPressureEnabled toggles pen pressure modulation.
func WithPressureEnabled(on bool) Option { return func(e *Editor) { e.pressureEnabled = on } }

// WithRedraw registers a callback fired after every mutation that changed
// the display buffer.
func WithRedraw(fn func()) Option { return func(e *Editor) { e.onRedraw = fn } }

// SetRedraw registers a callback fired after every mutation that changed the
// display buffer, replacing any previously registered one.
func (e *Editor) SetRedraw(fn func()) {
	e.mu.Lock()
	e.onRedraw = fn
	e.mu.Unlock()
}

// New creates an editor with a single transparent layer over the fixed-size
// canvas. Dimensions are immutable for the lifetime of the editor.
func New(width, height int, opts ...Option) (*Editor, error) {
	store, err := canvas.NewStore(width, height)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		width:     width,
		height:    height,
		store:     store,
		display:   image.NewRGBA(image.Rect(0, 0, width, height)),
		history:   history.New(),
		tool:      ToolPen,
		brushSize: 8,
		color:     color.RGBA{A: 255},
		layerSeq:  1,
	}
	for _, o := range opts {
		o(e)
	}
	first := canvas.NewLayer("Layer 1")
	e.layers = []*canvas.Layer{first}
	e.active = first.ID
	e.store.Reconcile(e.layers)
	render.Composite(e.display, e.layers, e.store)
	return e, nil
}

// Size returns the canvas dimensions.
func (e *Editor) Size() (int, int) { return e.width, e.height }

// Tool returns the currently selected tool.
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool selects the tool used by subsequent pointer interactions.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	e.tool = t
	e.mu.Unlock()
}

// Color returns the current drawing color.
func (e *Editor) Color() color.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.color
}

// SetColor selects the drawing color.
func (e *Editor) SetColor(c color.RGBA) {
	e.mu.Lock()
	e.color = c
	e.mu.Unlock()
}

// BrushSize returns the brush diameter in pixels.
func (e *Editor) BrushSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brushSize
}

// SetBrushSize selects the brush diameter in pixels.
func (e *Editor) SetBrushSize(size int) {
	if size < 1 {
		size = 1
	}
	e.mu.Lock()
	e.brushSize = size
	e.mu.Unlock()
}

// PressureEnabled reports whether pen pressure modulates stroke width.
func (e *Editor) PressureEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pressureEnabled
}

// SetPressureEnabled toggles pen pressure modulation.
func (e *Editor) SetPressureEnabled(on bool) {
	e.mu.Lock()
	e.pressureEnabled = on
	e.mu.Unlock()
}

// Layers returns a copy of the ordered layer list, index 0 topmost.
func (e *Editor) Layers() []*canvas.Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*canvas.Layer, len(e.layers))
	for i, l := range e.layers {
		cp := *l
		out[i] = &cp
	}
	return out
}

// ActiveLayerID returns the id of the layer receiving strokes and fills.
func (e *Editor) ActiveLayerID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// LayerBuffer returns a copy of one layer's pixel buffer.
func (e *Editor) LayerBuffer(id string) (*image.RGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	buf, ok := e.store.Clone(id)
	if !ok {
		return nil, ErrLayerNotFound
	}
	return buf, nil
}

// CompositedImage returns a copy of the display buffer.
func (e *Editor) CompositedImage() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := image.NewRGBA(e.display.Bounds())
	copy(out.Pix, e.display.Pix)
	return out
}

// Display returns the live display buffer. It is recomputed in place by the
// editor after every mutation and must not be written to by callers.
func (e *Editor) Display() *image.RGBA {
	return e.display
}

// DrawStart begins a stroke at the given canvas point, stamping the initial
// dot. tool must be ToolPen or ToolEraser; the passed color and size become
// the current settings. Pressure in (0, 1] narrows the pen when pressure is
// enabled and is ignored by the eraser. The point must lie on the canvas.
func (e *Editor) DrawStart(x, y int, tool Tool, col color.RGBA, size int, pressure float64) error {
	if tool != ToolPen && tool != ToolEraser {
		return fmt.Errorf("tool %q cannot stroke", tool)
	}
	e.mu.Lock()
	buf, ok := e.store.Buffer(e.active)
	if !ok {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	if !image.Pt(x, y).In(buf.Bounds()) {
		e.mu.Unlock()
		return render.ErrOutOfRange
	}
	if size < 1 {
		size = 1
	}
	e.tool = tool
	e.color = col
	e.brushSize = size
	e.history.CaptureBefore(e.active, buf)
	e.drawing = true
	e.strokeTool = tool
	e.strokeColor = col
	e.strokeRadius = e.radiusFor(tool, size, pressure)
	e.lastX, e.lastY = x, y
	render.Dot(buf, x, y, e.strokeRadius, col, tool == ToolEraser)
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// DrawMove extends the active stroke with a round-capped segment from the
// previous point. Without an active stroke it is a silent no-op; a point off
// the canvas fails this segment and leaves the stroke active.
func (e *Editor) DrawMove(x, y int, pressure float64) error {
	e.mu.Lock()
	if !e.drawing {
		e.mu.Unlock()
		return nil
	}
	buf, ok := e.store.Buffer(e.active)
	if !ok {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	if !image.Pt(x, y).In(buf.Bounds()) {
		e.mu.Unlock()
		return render.ErrOutOfRange
	}
	e.strokeRadius = e.radiusFor(e.strokeTool, e.brushSize, pressure)
	render.Segment(buf, e.lastX, e.lastY, x, y, e.strokeRadius, e.strokeColor, e.strokeTool == ToolEraser)
	e.lastX, e.lastY = x, y
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// DrawEnd finalizes the active stroke, recording the pre-stroke snapshot as
// one history entry. Callers invoke it on pointer release or on loss of
// pointer capture; without an active stroke it is a no-op.
func (e *Editor) DrawEnd() {
	e.mu.Lock()
	if !e.drawing {
		e.mu.Unlock()
		return
	}
	e.drawing = false
	e.history.Commit()
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
}

func (e *Editor) radiusFor(tool Tool, size int, pressure float64) float64 {
	r := float64(size) / 2
	if tool == ToolPen && e.pressureEnabled && pressure > 0 && pressure < 1 {
		r *= pressure
	}
	if r < 0.5 {
		r = 0.5
	}
	return r
}

// Fill flood-fills the active layer from the seed point. Filling a region
// that already matches the color is a silent no-op and records no history.
func (e *Editor) Fill(x, y int, col color.RGBA) error {
	e.mu.Lock()
	buf, ok := e.store.Buffer(e.active)
	if !ok {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	e.history.CaptureBefore(e.active, buf)
	changed, err := render.FloodFill(buf, x, y, col)
	if err != nil || !changed {
		e.history.DiscardPending()
		e.mu.Unlock()
		return err
	}
	e.color = col
	e.history.Commit()
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// ClearActiveLayer wipes the active layer back to full transparency as one
// undoable operation.
func (e *Editor) ClearActiveLayer() error {
	e.mu.Lock()
	buf, ok := e.store.Buffer(e.active)
	if !ok {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	e.history.CaptureBefore(e.active, buf)
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}
	e.history.Commit()
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// Undo reverts the most recent recorded operation by swapping the affected
// layer's buffer with its snapshot. At the start of history it is a no-op.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	_, ok := e.history.Undo(e.resolveBuffer)
	if ok {
		render.Composite(e.display, e.layers, e.store)
	}
	e.mu.Unlock()
	if ok {
		e.notifyRedraw()
	}
	return ok
}

// Redo re-applies the most recently undone operation. At the end of history
// it is a no-op.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	_, ok := e.history.Redo(e.resolveBuffer)
	if ok {
		render.Composite(e.display, e.layers, e.store)
	}
	e.mu.Unlock()
	if ok {
		e.notifyRedraw()
	}
	return ok
}

// CanUndo reports whether an operation can be undone.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether an undone operation can be re-applied.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

func (e *Editor) resolveBuffer(layerID string) *image.RGBA {
	buf, ok := e.store.Buffer(layerID)
	if !ok {
		return nil
	}
	return buf
}

// notifyRedraw fires the registered callback outside e.mu. The callback is
// read under the lock; SetRedraw may replace it from another goroutine.
func (e *Editor) notifyRedraw() {
	e.mu.Lock()
	fn := e.onRedraw
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

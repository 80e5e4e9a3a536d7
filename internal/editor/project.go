package editor

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/example/layerpaint/internal/canvas"
	"github.com/example/layerpaint/internal/history"
	"github.com/example/layerpaint/internal/project"
	"github.com/example/layerpaint/internal/render"
)

// ExportProject serializes the full editable state as a version 2 document.
// Layer buffers are written individually; the composite is not part of the
// document.
func (e *Editor) ExportProject() (*project.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := &project.Document{
		Version:         project.Version2,
		Width:           e.width,
		Height:          e.height,
		Tool:            string(e.tool),
		BrushSize:       e.brushSize,
		PressureEnabled: e.pressureEnabled,
		Color:           render.FormatColor(e.color),
		ActiveLayerID:   e.active,
		LayerImages:     make(map[string]string, len(e.layers)),
	}
	for _, l := range e.layers {
		doc.Layers = append(doc.Layers, project.LayerMeta{
			ID:      l.ID,
			Name:    l.Name,
			Opacity: l.Opacity,
			Visible: l.Visible,
		})
		buf, ok := e.store.Buffer(l.ID)
		if !ok {
			return nil, fmt.Errorf("export layer %s: %w", l.ID, ErrLayerNotFound)
		}
		data, err := project.EncodeImage(buf)
		if err != nil {
			return nil, fmt.Errorf("export layer %s: %w", l.ID, err)
		}
		doc.LayerImages[l.ID] = data
	}
	return doc, nil
}

// ImportProject replaces the entire editable state with the document's
// contents. Structural problems are reported synchronously and leave the
// current state untouched. Layer images decode asynchronously; when the last
// decode lands the history is cleared, the first composite runs, and done
// (if non-nil) is called once with the first decode failure, or nil. Images
// referencing unknown layer ids are skipped; a document without images
// completes before ImportProject returns. The canvas adopts the document's
// dimensions.
func (e *Editor) ImportProject(doc *project.Document, done func(error)) error {
	if err := project.Validate(doc); err != nil {
		return err
	}
	store, err := canvas.NewStore(doc.Width, doc.Height)
	if err != nil {
		return err
	}

	var layers []*canvas.Layer
	images := make(map[string]string)
	switch doc.Version {
	case project.Version1:
		l := canvas.NewLayer("Layer 1")
		layers = []*canvas.Layer{l}
		if doc.ImageData != "" {
			images[l.ID] = doc.ImageData
		}
	case project.Version2:
		for _, m := range doc.Layers {
			if m.ID == "" {
				return fmt.Errorf("layer with empty id")
			}
			op := m.Opacity
			if op < 0 {
				op = 0
			}
			if op > 1 {
				op = 1
			}
			layers = append(layers, &canvas.Layer{ID: m.ID, Name: m.Name, Opacity: op, Visible: m.Visible})
		}
		for id, data := range doc.LayerImages {
			images[id] = data
		}
	}

	active := layers[0].ID
	for _, l := range layers {
		if l.ID == doc.ActiveLayerID {
			active = l.ID
		}
	}

	e.mu.Lock()
	e.width = doc.Width
	e.height = doc.Height
	e.layers = layers
	e.store = store
	e.store.Reconcile(e.layers)
	e.display = image.NewRGBA(image.Rect(0, 0, doc.Width, doc.Height))
	e.active = active
	e.layerSeq = len(layers)
	e.drawing = false
	e.applySettings(doc)

	// Images keyed by an id absent from the layer list are skipped entirely,
	// never decoded.
	for id := range images {
		if _, ok := e.store.Buffer(id); !ok {
			delete(images, id)
		}
	}

	e.loadGen++
	gen := e.loadGen
	e.loadErr = nil
	e.loadDone = done
	e.loadRemaining = len(images)
	if e.loadRemaining == 0 {
		done, loadErr := e.finishLoadLocked()
		e.mu.Unlock()
		e.notifyRedraw()
		if done != nil {
			done(loadErr)
		}
		return nil
	}
	e.mu.Unlock()

	for id, data := range images {
		go func(id, data string) {
			img, err := project.DecodeImage(data)
			e.completeLayerLoad(gen, id, img, err)
		}(id, data)
	}
	return nil
}

// applySettings adopts the document's tool preferences, tolerating unknown
// or missing values. Callers hold e.mu.
func (e *Editor) applySettings(doc *project.Document) {
	switch Tool(doc.Tool) {
	case ToolPen, ToolEraser, ToolFill:
		e.tool = Tool(doc.Tool)
	default:
		e.tool = ToolPen
	}
	if doc.BrushSize > 0 {
		e.brushSize = doc.BrushSize
	}
	if c, err := render.ParseColor(doc.Color); err == nil {
		e.color = c
	}
	e.pressureEnabled = doc.PressureEnabled
}

// completeLayerLoad lands one asynchronous layer decode. Completions from a
// superseded import are dropped; a missing layer (deleted while the decode
// was in flight) skips only that image.
func (e *Editor) completeLayerLoad(gen int, id string, img *image.RGBA, err error) {
	e.mu.Lock()
	if gen != e.loadGen {
		e.mu.Unlock()
		return
	}
	if err != nil {
		if e.loadErr == nil {
			e.loadErr = fmt.Errorf("layer %s: %w", id, err)
		}
	} else if buf, ok := e.store.Buffer(id); ok {
		draw.Draw(buf, buf.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	e.loadRemaining--
	if e.loadRemaining > 0 {
		e.mu.Unlock()
		return
	}
	done, loadErr := e.finishLoadLocked()
	e.mu.Unlock()
	e.notifyRedraw()
	if done != nil {
		done(loadErr)
	}
}

// finishLoadLocked runs once all pending decodes have landed: cross-session
// undo is unsupported, so history resets, then the first composite of the
// loaded state is produced. Callers hold e.mu and invoke the returned
// completion callback after releasing it.
func (e *Editor) finishLoadLocked() (func(error), error) {
	e.history = history.New()
	render.Composite(e.display, e.layers, e.store)
	done := e.loadDone
	err := e.loadErr
	e.loadDone = nil
	e.loadErr = nil
	return done, err
}

package editor

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/example/layerpaint/internal/canvas"
	"github.com/example/layerpaint/internal/render"
)

// AddLayer prepends a fresh transparent layer to the top of the stack and
// makes it active.
func (e *Editor) AddLayer() *canvas.Layer {
	e.mu.Lock()
	e.layerSeq++
	l := canvas.NewLayer(fmt.Sprintf("Layer %d", e.layerSeq))
	e.layers = append([]*canvas.Layer{l}, e.layers...)
	e.active = l.ID
	e.store.Reconcile(e.layers)
	render.Composite(e.display, e.layers, e.store)
	cp := *l
	e.mu.Unlock()
	e.notifyRedraw()
	return &cp
}

// AddLayerFromImage prepends a fresh layer seeded with the image's pixels,
// anchored at the canvas origin and clipped to the canvas, and makes it
// active.
func (e *Editor) AddLayerFromImage(img image.Image) *canvas.Layer {
	e.mu.Lock()
	e.layerSeq++
	l := canvas.NewLayer(fmt.Sprintf("Layer %d", e.layerSeq))
	e.layers = append([]*canvas.Layer{l}, e.layers...)
	e.active = l.ID
	e.store.Reconcile(e.layers)
	if buf, ok := e.store.Buffer(l.ID); ok {
		r := img.Bounds().Sub(img.Bounds().Min).Intersect(buf.Bounds())
		draw.Draw(buf, r, img, img.Bounds().Min, draw.Src)
	}
	render.Composite(e.display, e.layers, e.store)
	cp := *l
	e.mu.Unlock()
	e.notifyRedraw()
	return &cp
}

// DeleteLayer removes a layer, its buffer, and every history entry touching
// it. Deleting the sole remaining layer is rejected with ErrLastLayer.
func (e *Editor) DeleteLayer(id string) error {
	e.mu.Lock()
	idx := e.layerIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	if len(e.layers) == 1 {
		e.mu.Unlock()
		return ErrLastLayer
	}
	e.layers = append(e.layers[:idx], e.layers[idx+1:]...)
	e.store.Reconcile(e.layers)
	e.history.PurgeLayer(id)
	if e.active == id {
		if idx >= len(e.layers) {
			idx = len(e.layers) - 1
		}
		e.active = e.layers[idx].ID
	}
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// ReorderLayer moves a layer one slot up (toward the top of the stack) or
// down. Moving past either end is a silent no-op.
func (e *Editor) ReorderLayer(id string, dir Direction) error {
	e.mu.Lock()
	idx := e.layerIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	target := idx
	switch dir {
	case Up:
		target = idx - 1
	case Down:
		target = idx + 1
	}
	if target < 0 || target >= len(e.layers) || target == idx {
		e.mu.Unlock()
		return nil
	}
	e.layers[idx], e.layers[target] = e.layers[target], e.layers[idx]
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// SetLayerVisibility toggles whether a layer contributes to the composite.
func (e *Editor) SetLayerVisibility(id string, visible bool) error {
	e.mu.Lock()
	idx := e.layerIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	e.layers[idx].Visible = visible
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// SetLayerOpacity sets a layer's compositing opacity, clamped to [0, 1].
func (e *Editor) SetLayerOpacity(id string, opacity float64) error {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	e.mu.Lock()
	idx := e.layerIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	e.layers[idx].Opacity = opacity
	render.Composite(e.display, e.layers, e.store)
	e.mu.Unlock()
	e.notifyRedraw()
	return nil
}

// RenameLayer changes a layer's display name.
func (e *Editor) RenameLayer(id, name string) error {
	e.mu.Lock()
	idx := e.layerIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return ErrLayerNotFound
	}
	e.layers[idx].Name = name
	e.mu.Unlock()
	return nil
}

// SelectLayer makes a layer the target of strokes, fills and clears.
func (e *Editor) SelectLayer(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layerIndex(id) < 0 {
		return ErrLayerNotFound
	}
	e.active = id
	return nil
}

// layerIndex returns the position of a layer id, or -1. Callers hold e.mu.
func (e *Editor) layerIndex(id string) int {
	for i, l := range e.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

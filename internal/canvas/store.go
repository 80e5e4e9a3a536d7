package canvas

import (
	"fmt"
	"image"
)

// Store owns the pixel buffer of every layer, keyed by layer id. The ordered
// layer list itself is owned by the caller; Reconcile keeps store membership
// in sync with it. Canvas dimensions are fixed at creation.
type Store struct {
	width, height int
	buffers       map[string]*image.RGBA
}

// NewStore creates an empty store for a canvas of the given dimensions.
func NewStore(width, height int) (*Store, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return &Store{
		width:   width,
		height:  height,
		buffers: make(map[string]*image.RGBA),
	}, nil
}

// Size returns the canvas dimensions shared by every buffer.
func (s *Store) Size() (int, int) {
	return s.width, s.height
}

// Create allocates a fully transparent buffer for the layer id. Creating an
// id that already has a buffer keeps the existing one.
func (s *Store) Create(id string) *image.RGBA {
	if buf, ok := s.buffers[id]; ok {
		return buf
	}
	buf := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.buffers[id] = buf
	return buf
}

// Delete discards the buffer for the layer id.
func (s *Store) Delete(id string) {
	delete(s.buffers, id)
}

// Buffer returns the mutable buffer for the layer id.
func (s *Store) Buffer(id string) (*image.RGBA, bool) {
	buf, ok := s.buffers[id]
	return buf, ok
}

// Len reports how many buffers the store holds.
func (s *Store) Len() int {
	return len(s.buffers)
}

// Reconcile synchronizes store membership with the ordered layer list:
// buffers for ids no longer listed are discarded and new ids get fresh
// transparent buffers.
func (s *Store) Reconcile(layers []*Layer) {
	listed := make(map[string]bool, len(layers))
	for _, l := range layers {
		listed[l.ID] = true
	}
	for id := range s.buffers {
		if !listed[id] {
			delete(s.buffers, id)
		}
	}
	for _, l := range layers {
		s.Create(l.ID)
	}
}

// Clone returns a copy of the buffer for the layer id, suitable for history
// snapshots.
func (s *Store) Clone(id string) (*image.RGBA, bool) {
	buf, ok := s.buffers[id]
	if !ok {
		return nil, false
	}
	out := image.NewRGBA(buf.Bounds())
	copy(out.Pix, buf.Pix)
	return out, true
}

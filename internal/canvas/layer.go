package canvas

import "github.com/google/uuid"

// Layer describes one entry in the layer stack. It carries metadata only;
// the pixel buffer for a layer lives in the Store, keyed by ID.
type Layer struct {
	ID      string
	Name    string
	Opacity float64
	Visible bool
}

// NewLayer creates a visible, fully opaque layer with a fresh random id.
func NewLayer(name string) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Opacity: 1,
		Visible: true,
	}
}

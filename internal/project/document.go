// Package project defines the versioned on-disk document for an editable
// drawing and the codec between documents and pixel buffers. Version 1
// stored a single flattened image; version 2 stores per-layer images plus
// layer metadata. Version 1 documents remain loadable indefinitely.
package project

// Document versions. Version 1 files predate the version field, so a zero
// value is normalized to Version1 during validation.
const (
	Version1 = 1
	Version2 = 2
)

// LayerMeta is the serialized form of one layer's metadata. Pixel data lives
// separately in Document.LayerImages, keyed by id.
type LayerMeta struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
}

// Document is the full serialized editable state. Fields tagged omitempty
// belong to version 2 only; ImageData is the flattened version 1 image.
// Unknown fields in stored documents are ignored on load.
type Document struct {
	Version         int               `json:"version,omitempty"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	Tool            string            `json:"tool"`
	BrushSize       int               `json:"brushSize"`
	PressureEnabled bool              `json:"pressureEnabled,omitempty"`
	Color           string            `json:"color"`
	ImageData       string            `json:"imageData,omitempty"`
	Layers          []LayerMeta       `json:"layers,omitempty"`
	ActiveLayerID   string            `json:"activeLayerId,omitempty"`
	LayerImages     map[string]string `json:"layerImages,omitempty"`
}

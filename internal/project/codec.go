package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Marshal serializes a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses and validates a document. A missing version field marks a
// version 1 file. Structural problems (unsupported version, non-positive
// dimensions, a version 2 file without layers) are reported as errors so the
// caller can abort the load with its current state intact.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = Version1
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants of a document.
func Validate(doc *Document) error {
	switch doc.Version {
	case Version1:
	case Version2:
		if len(doc.Layers) == 0 {
			return fmt.Errorf("version 2 project has no layers")
		}
	default:
		return fmt.Errorf("unsupported project version %d", doc.Version)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return fmt.Errorf("invalid project size %dx%d", doc.Width, doc.Height)
	}
	return nil
}

// EncodeImage renders a buffer as a base64 PNG string. Buffer bytes are
// straight alpha, so the buffer is reinterpreted as NRGBA for the encoder
// rather than converted; every byte survives the round trip.
func EncodeImage(img *image.RGBA) (string, error) {
	straight := &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
	var buf bytes.Buffer
	if err := png.Encode(&buf, straight); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeImage parses a base64 PNG string into a straight-alpha RGBA buffer.
func DecodeImage(data string) (*image.RGBA, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode layer image: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode layer image: %w", err)
	}
	straight := image.NewNRGBA(img.Bounds())
	draw.Draw(straight, straight.Bounds(), img, img.Bounds().Min, draw.Src)
	return &image.RGBA{Pix: straight.Pix, Stride: straight.Stride, Rect: straight.Rect}, nil
}

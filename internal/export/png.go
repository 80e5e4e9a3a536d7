// Package export writes flattened canvases out as shareable files. Both
// formats operate on the composited image; layer structure is never part of
// an export.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG saves the composited image to path, overwriting any existing file.
func WritePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return fmt.Errorf("export png: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("export png: closing file: %w", err)
	}
	return nil
}

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// pdfMargin is the page margin in millimetres around the embedded image.
const pdfMargin = 10

// WritePDF saves the composited image as a single-page A4 PDF. The image is
// scaled to fit within the page margins, preserving its aspect ratio.
func WritePDF(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	p.RegisterImageOptionsReader("canvas", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if p.Err() {
		return fmt.Errorf("export pdf: %v", p.Error())
	}

	pageW, pageH := p.GetPageSize()
	maxW := pageW - 2*pdfMargin
	maxH := pageH - 2*pdfMargin
	w, h := fitWithin(img.Bounds(), maxW, maxH)
	p.ImageOptions("canvas", pdfMargin, pdfMargin, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	return p.OutputFileAndClose(path)
}

// fitWithin scales pixel bounds down (or up) to the largest size that fits in
// maxW by maxH while keeping the aspect ratio.
func fitWithin(b image.Rectangle, maxW, maxH float64) (float64, float64) {
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

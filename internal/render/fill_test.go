package render

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestFloodFillTransparentBuffer(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 10, 10))
	changed, err := FloodFill(buf, 4, 4, color.RGBA{255, 0, 0, 255})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected fill to report a change")
	}
	want := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := buf.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestFloodFillForcesFullOpacity(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := FloodFill(buf, 0, 0, color.RGBA{10, 20, 30, 100}); err != nil {
		t.Fatal(err)
	}
	if got := buf.RGBAAt(2, 2); got.A != 255 {
		t.Fatalf("fill alpha = %d, want 255", got.A)
	}
}

func TestFloodFillStopsAtToleranceBoundary(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 20, 10))
	left := color.RGBA{0, 0, 0, 255}
	right := color.RGBA{200, 200, 200, 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				buf.SetRGBA(x, y, left)
			} else {
				buf.SetRGBA(x, y, right)
			}
		}
	}

	fill := color.RGBA{0, 0, 255, 255}
	changed, err := FloodFill(buf, 0, 0, fill)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected fill to report a change")
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := buf.RGBAAt(x, y); got != fill {
				t.Fatalf("seed region pixel (%d,%d) = %+v, want %+v", x, y, got, fill)
			}
		}
	}
	// The first column past the boundary is blended by the softening passes.
	if got := buf.RGBAAt(10, 5); got == right || got == fill {
		t.Fatalf("boundary pixel not softened: %+v", got)
	}
	// Softening reaches three pixels; beyond that the far region is untouched.
	for y := 0; y < 10; y++ {
		for x := 13; x < 20; x++ {
			if got := buf.RGBAAt(x, y); got != right {
				t.Fatalf("far pixel (%d,%d) modified: %+v", x, y, got)
			}
		}
	}
}

func TestFloodFillIncludesPixelsWithinTolerance(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 8, 1))
	buf.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	buf.SetRGBA(1, 0, color.RGBA{24, 24, 24, 255})
	for x := 2; x < 8; x++ {
		buf.SetRGBA(x, 0, color.RGBA{25, 25, 25, 255})
	}

	fill := color.RGBA{255, 0, 0, 255}
	if _, err := FloodFill(buf, 0, 0, fill); err != nil {
		t.Fatal(err)
	}
	if got := buf.RGBAAt(1, 0); got != fill {
		t.Fatalf("pixel at tolerance distance 24 not filled: %+v", got)
	}
	if got := buf.RGBAAt(2, 0); got == fill {
		t.Fatal("pixel at distance 25 was hard-filled")
	}
}

func TestFloodFillNoOpOnMatchingSeed(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 6, 6))
	base := color.RGBA{10, 20, 30, 255}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			buf.SetRGBA(x, y, base)
		}
	}
	changed, err := FloodFill(buf, 3, 3, base)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("expected no-op")
	}
	if got := buf.RGBAAt(0, 0); got != base {
		t.Fatalf("buffer modified by no-op fill: %+v", got)
	}
}

func TestFloodFillOutOfRange(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, err := FloodFill(buf, p.X, p.Y, color.RGBA{A: 255}); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("seed %v: expected ErrOutOfRange, got %v", p, err)
		}
	}
}

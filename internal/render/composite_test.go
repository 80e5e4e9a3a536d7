package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/layerpaint/internal/canvas"
)

func newStack(t *testing.T, w, h int, names ...string) ([]*canvas.Layer, *canvas.Store) {
	t.Helper()
	store, err := canvas.NewStore(w, h)
	if err != nil {
		t.Fatal(err)
	}
	layers := make([]*canvas.Layer, len(names))
	for i, name := range names {
		layers[i] = canvas.NewLayer(name)
	}
	store.Reconcile(layers)
	return layers, store
}

func TestCompositeEmptyStackIsWhite(t *testing.T) {
	layers, store := newStack(t, 4, 4)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Composite(dst, layers, store)
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := dst.RGBAAt(x, y); got != white {
				t.Fatalf("pixel (%d,%d) = %+v, want white", x, y, got)
			}
		}
	}
}

func TestCompositeOpacityOverWhite(t *testing.T) {
	layers, store := newStack(t, 4, 4, "only")
	layers[0].Opacity = 0.5
	buf, _ := store.Buffer(layers[0].ID)
	buf.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Composite(dst, layers, store)

	want := color.RGBA{255, 128, 128, 255}
	if got := dst.RGBAAt(1, 1); got != want {
		t.Fatalf("half-opacity red over white = %+v, want %+v", got, want)
	}
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("untouched pixel = %+v, want white", got)
	}
}

func TestCompositeSkipsHiddenAndZeroOpacity(t *testing.T) {
	layers, store := newStack(t, 2, 2, "hidden", "ghost")
	layers[0].Visible = false
	layers[1].Opacity = 0
	for _, l := range layers {
		buf, _ := store.Buffer(l.ID)
		buf.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	}

	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Composite(dst, layers, store)
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("hidden layers contributed: %+v", got)
	}
}

func TestCompositeTopLayerWins(t *testing.T) {
	layers, store := newStack(t, 2, 2, "top", "bottom")
	top, _ := store.Buffer(layers[0].ID)
	bottom, _ := store.Buffer(layers[1].ID)
	bottom.SetRGBA(0, 0, color.RGBA{0, 0, 255, 255})
	top.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})

	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Composite(dst, layers, store)
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("top layer did not win: %+v", got)
	}
}

func TestCompositeOutputIsOpaque(t *testing.T) {
	layers, store := newStack(t, 3, 3, "only")
	buf, _ := store.Buffer(layers[0].ID)
	buf.SetRGBA(1, 1, color.RGBA{0, 255, 0, 90})

	dst := image.NewRGBA(image.Rect(0, 0, 3, 3))
	Composite(dst, layers, store)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if a := dst.RGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, a)
			}
		}
	}
}

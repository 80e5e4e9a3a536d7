package canvas

import (
	"image/color"
	"testing"
)

func TestNewStoreRejectsInvalidSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewStore(dims[0], dims[1]); err == nil {
			t.Fatalf("NewStore(%d, %d): expected error", dims[0], dims[1])
		}
	}
}

func TestStoreCreateIsIdempotent(t *testing.T) {
	store, err := NewStore(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	first := store.Create("a")
	first.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	second := store.Create("a")
	if first != second {
		t.Fatal("Create replaced an existing buffer")
	}
	if got := second.RGBAAt(1, 1); got.R != 255 {
		t.Fatalf("existing pixels lost: %+v", got)
	}
}

func TestStoreReconcile(t *testing.T) {
	store, err := NewStore(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	a := NewLayer("a")
	b := NewLayer("b")
	store.Reconcile([]*Layer{a, b})
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	kept, _ := store.Buffer(a.ID)
	kept.SetRGBA(0, 0, color.RGBA{0, 0, 255, 255})

	store.Reconcile([]*Layer{a})
	if store.Len() != 1 {
		t.Fatalf("Len after drop = %d, want 1", store.Len())
	}
	if _, ok := store.Buffer(b.ID); ok {
		t.Fatal("dropped layer buffer survived")
	}
	buf, ok := store.Buffer(a.ID)
	if !ok {
		t.Fatal("kept layer lost its buffer")
	}
	if buf != kept {
		t.Fatal("kept layer buffer was reallocated")
	}
}

func TestStoreCloneIsIndependent(t *testing.T) {
	store, err := NewStore(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	buf := store.Create("a")
	buf.SetRGBA(0, 0, color.RGBA{9, 8, 7, 255})

	clone, ok := store.Clone("a")
	if !ok {
		t.Fatal("Clone failed for existing layer")
	}
	clone.SetRGBA(0, 0, color.RGBA{})
	if got := buf.RGBAAt(0, 0); got.R != 9 {
		t.Fatalf("mutating clone changed original: %+v", got)
	}
	if _, ok := store.Clone("missing"); ok {
		t.Fatal("Clone succeeded for unknown layer")
	}
}

func TestNewLayerDefaults(t *testing.T) {
	a := NewLayer("first")
	b := NewLayer("second")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if !a.Visible || a.Opacity != 1 {
		t.Fatalf("unexpected defaults: %+v", a)
	}
}

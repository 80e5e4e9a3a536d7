package history

import (
	"image"
	"testing"
)

func pixelBuf(v uint8) *image.RGBA {
	buf := image.NewRGBA(image.Rect(0, 0, 1, 1))
	buf.Pix[0] = v
	buf.Pix[3] = 255
	return buf
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	buf := pixelBuf(10)
	resolve := func(string) *image.RGBA { return buf }

	h.CaptureBefore("layer", buf)
	buf.Pix[0] = 20
	if !h.Commit() {
		t.Fatal("Commit reported no entry")
	}

	if id, ok := h.Undo(resolve); !ok || id != "layer" {
		t.Fatalf("Undo = %q, %v", id, ok)
	}
	if buf.Pix[0] != 10 {
		t.Fatalf("after undo pixel = %d, want 10", buf.Pix[0])
	}
	if _, ok := h.Undo(resolve); ok {
		t.Fatal("Undo past the start succeeded")
	}

	if _, ok := h.Redo(resolve); !ok {
		t.Fatal("Redo failed")
	}
	if buf.Pix[0] != 20 {
		t.Fatalf("after redo pixel = %d, want 20", buf.Pix[0])
	}
	if _, ok := h.Redo(resolve); ok {
		t.Fatal("Redo past the end succeeded")
	}
}

func TestCommitWithoutCapture(t *testing.T) {
	h := New()
	if h.Commit() {
		t.Fatal("Commit without a capture recorded an entry")
	}
	if h.Len() != 0 {
		t.Fatalf("Len = %d, want 0", h.Len())
	}
}

func TestDiscardPending(t *testing.T) {
	h := New()
	buf := pixelBuf(1)
	h.CaptureBefore("layer", buf)
	h.DiscardPending()
	if h.Commit() {
		t.Fatal("discarded snapshot was committed")
	}
}

func TestCommitDropsRedoBranch(t *testing.T) {
	h := New()
	buf := pixelBuf(1)
	resolve := func(string) *image.RGBA { return buf }

	for v := uint8(2); v <= 3; v++ {
		h.CaptureBefore("layer", buf)
		buf.Pix[0] = v
		h.Commit()
	}
	h.Undo(resolve)
	if !h.CanRedo() {
		t.Fatal("expected a redoable entry")
	}

	h.CaptureBefore("layer", buf)
	buf.Pix[0] = 9
	h.Commit()
	if h.CanRedo() {
		t.Fatal("redo branch survived a new commit")
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
}

func TestBoundEvictsOldest(t *testing.T) {
	h := New()
	buf := pixelBuf(0)
	resolve := func(string) *image.RGBA { return buf }

	for i := 1; i <= DefaultLimit+1; i++ {
		h.CaptureBefore("layer", buf)
		buf.Pix[0] = uint8(i)
		h.Commit()
	}
	if h.Len() != DefaultLimit {
		t.Fatalf("Len = %d, want %d", h.Len(), DefaultLimit)
	}

	steps := 0
	for {
		if _, ok := h.Undo(resolve); !ok {
			break
		}
		steps++
	}
	if steps != DefaultLimit {
		t.Fatalf("undo steps = %d, want %d", steps, DefaultLimit)
	}
	// The oldest entry was evicted, so undo bottoms out at the state after
	// the first operation rather than the initial state.
	if buf.Pix[0] != 1 {
		t.Fatalf("after exhausting undo pixel = %d, want 1", buf.Pix[0])
	}
}

func TestPurgeLayer(t *testing.T) {
	h := New()
	a := pixelBuf(1)
	b := pixelBuf(100)
	resolve := func(id string) *image.RGBA {
		if id == "a" {
			return a
		}
		return b
	}

	h.CaptureBefore("a", a)
	a.Pix[0] = 2
	h.Commit()
	h.CaptureBefore("b", b)
	b.Pix[0] = 101
	h.Commit()
	h.CaptureBefore("a", a)
	a.Pix[0] = 3
	h.Commit()

	h.PurgeLayer("a")
	if h.Len() != 1 {
		t.Fatalf("Len after purge = %d, want 1", h.Len())
	}
	if id, ok := h.Undo(resolve); !ok || id != "b" {
		t.Fatalf("Undo after purge = %q, %v", id, ok)
	}
	if b.Pix[0] != 100 {
		t.Fatalf("layer b pixel = %d, want 100", b.Pix[0])
	}
	if _, ok := h.Undo(resolve); ok {
		t.Fatal("purged entries remained undoable")
	}
}

func TestPurgeLayerDropsPending(t *testing.T) {
	h := New()
	buf := pixelBuf(1)
	h.CaptureBefore("a", buf)
	h.PurgeLayer("a")
	if h.Commit() {
		t.Fatal("pending snapshot for purged layer was committed")
	}
}

func TestClear(t *testing.T) {
	h := New()
	buf := pixelBuf(1)
	h.CaptureBefore("layer", buf)
	h.Commit()
	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.Len() != 0 {
		t.Fatal("Clear left state behind")
	}
}

// Package history provides bounded, per-layer undo/redo over full buffer
// snapshots. Each entry stores exactly one snapshot; undo and redo exchange
// the snapshot's pixel storage with the live buffer, so stepping in either
// direction never duplicates pixel data.
package history

import "image"

// DefaultLimit bounds how many entries are retained before the oldest is
// evicted.
const DefaultLimit = 50

// Entry records the state a layer's buffer had immediately before one
// completed operation.
type Entry struct {
	LayerID  string
	snapshot *image.RGBA
}

// History is a single ordered entry list with a position cursor. Entries at
// or before the cursor are undoable; entries beyond it are redoable.
type History struct {
	limit   int
	entries []Entry
	pos     int
	pending *Entry
}

// New creates an empty history bounded at DefaultLimit entries.
func New() *History {
	return &History{limit: DefaultLimit, pos: -1}
}

// CaptureBefore snapshots the layer's buffer ahead of a mutation. The
// snapshot is held transiently until Commit records it or DiscardPending
// drops it; capturing again replaces an unrecorded snapshot.
func (h *History) CaptureBefore(layerID string, buf *image.RGBA) {
	snap := image.NewRGBA(buf.Bounds())
	copy(snap.Pix, buf.Pix)
	h.pending = &Entry{LayerID: layerID, snapshot: snap}
}

// DiscardPending drops a captured snapshot without recording it.
func (h *History) DiscardPending() {
	h.pending = nil
}

// Commit records the pending snapshot: redo entries beyond the cursor are
// discarded, the entry is appended, and the cursor advances. When the bound
// is exceeded the oldest entry is evicted instead of growing the list.
// Commit reports whether an entry was recorded.
func (h *History) Commit() bool {
	if h.pending == nil {
		return false
	}
	h.entries = append(h.entries[:h.pos+1], *h.pending)
	h.pending = nil
	h.pos++
	if len(h.entries) > h.limit {
		h.entries = h.entries[1:]
		h.pos--
	}
	return true
}

// Undo swaps the buffer of the layer at the cursor with the recorded
// snapshot and steps the cursor back. resolve maps a layer id to its live
// buffer; returning nil skips the step. Undo reports the affected layer id
// and whether a step was taken.
func (h *History) Undo(resolve func(layerID string) *image.RGBA) (string, bool) {
	if h.pos < 0 {
		return "", false
	}
	e := &h.entries[h.pos]
	buf := resolve(e.LayerID)
	if buf == nil {
		return "", false
	}
	swapPixels(buf, e.snapshot)
	h.pos--
	return e.LayerID, true
}

// Redo steps the cursor forward and performs the same swap against the entry
// it lands on.
func (h *History) Redo(resolve func(layerID string) *image.RGBA) (string, bool) {
	if h.pos+1 >= len(h.entries) {
		return "", false
	}
	e := &h.entries[h.pos+1]
	buf := resolve(e.LayerID)
	if buf == nil {
		return "", false
	}
	swapPixels(buf, e.snapshot)
	h.pos++
	return e.LayerID, true
}

// PurgeLayer removes every entry referencing the layer, adjusting the cursor
// by the number of removed entries at or before it. Called on layer deletion;
// the purged entries become permanently unreachable along with the buffer.
func (h *History) PurgeLayer(layerID string) {
	kept := h.entries[:0]
	removedBefore := 0
	for i := range h.entries {
		if h.entries[i].LayerID == layerID {
			if i <= h.pos {
				removedBefore++
			}
			continue
		}
		kept = append(kept, h.entries[i])
	}
	h.entries = kept
	h.pos -= removedBefore
	if h.pos >= len(h.entries) {
		h.pos = len(h.entries) - 1
	}
	if h.pos < -1 {
		h.pos = -1
	}
	if h.pending != nil && h.pending.LayerID == layerID {
		h.pending = nil
	}
}

// Clear discards all entries and any pending snapshot.
func (h *History) Clear() {
	h.entries = nil
	h.pos = -1
	h.pending = nil
}

// Len reports the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// CanUndo reports whether Undo would take a step.
func (h *History) CanUndo() bool { return h.pos >= 0 }

// CanRedo reports whether Redo would take a step.
func (h *History) CanRedo() bool { return h.pos+1 < len(h.entries) }

func swapPixels(a, b *image.RGBA) {
	a.Pix, b.Pix = b.Pix, a.Pix
	a.Stride, b.Stride = b.Stride, a.Stride
}

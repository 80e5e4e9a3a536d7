package editor

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/example/layerpaint/internal/render"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func newEditor(t *testing.T, w, h int, opts ...Option) *Editor {
	t.Helper()
	ed, err := New(w, h, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return ed
}

func TestNewStartsWithOneLayer(t *testing.T) {
	ed := newEditor(t, 10, 10)
	layers := ed.Layers()
	if len(layers) != 1 || layers[0].Name != "Layer 1" {
		t.Fatalf("unexpected initial layers: %+v", layers)
	}
	if ed.ActiveLayerID() != layers[0].ID {
		t.Fatal("initial layer is not active")
	}
	if got := ed.Display().RGBAAt(5, 5); got != white {
		t.Fatalf("initial composite pixel = %+v, want white", got)
	}
}

func TestStrokeIsOneHistoryEntry(t *testing.T) {
	ed := newEditor(t, 20, 20)
	if err := ed.DrawStart(2, 2, ToolPen, red, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := ed.DrawMove(10, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := ed.DrawMove(10, 10, 1); err != nil {
		t.Fatal(err)
	}
	ed.DrawEnd()

	if got := ed.Display().RGBAAt(10, 2); got != red {
		t.Fatalf("stroke pixel = %+v, want %+v", got, red)
	}
	if !ed.Undo() {
		t.Fatal("Undo failed")
	}
	if got := ed.Display().RGBAAt(10, 2); got != white {
		t.Fatalf("undo left stroke pixel: %+v", got)
	}
	if ed.Undo() {
		t.Fatal("second Undo succeeded; stroke recorded more than one entry")
	}
	if !ed.Redo() {
		t.Fatal("Redo failed")
	}
	if got := ed.Display().RGBAAt(10, 10); got != red {
		t.Fatalf("redo did not restore stroke: %+v", got)
	}
}

func TestDrawStartRejectsFillToolAndOffCanvasPoints(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.DrawStart(1, 1, ToolFill, red, 2, 1); err == nil {
		t.Fatal("fill tool accepted as a stroke tool")
	}
	if err := ed.DrawStart(10, 10, ToolPen, red, 2, 1); !errors.Is(err, render.ErrOutOfRange) {
		t.Fatalf("off-canvas start = %v, want ErrOutOfRange", err)
	}
	if ed.CanUndo() {
		t.Fatal("rejected starts recorded history")
	}
}

func TestDrawMoveWithoutStrokeIsNoOp(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.DrawMove(5, 5, 1); err != nil {
		t.Fatalf("DrawMove outside a stroke = %v", err)
	}
	if got := ed.Display().RGBAAt(5, 5); got != white {
		t.Fatalf("stray move painted: %+v", got)
	}
}

func TestInterruptedStrokeCommitsAndStaysClosed(t *testing.T) {
	ed := newEditor(t, 20, 20)
	if err := ed.DrawStart(2, 2, ToolPen, red, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := ed.DrawMove(10, 2, 1); err != nil {
		t.Fatal(err)
	}
	// Pointer capture lost mid-stroke: the stroke ends without a release.
	ed.DrawEnd()

	if err := ed.DrawMove(10, 10, 1); err != nil {
		t.Fatalf("move after interruption = %v", err)
	}
	if got := ed.Display().RGBAAt(10, 10); got != white {
		t.Fatalf("stroke continued after DrawEnd: %+v", got)
	}
	if !ed.Undo() {
		t.Fatal("interrupted stroke was not committed")
	}
	if got := ed.Display().RGBAAt(10, 2); got != white {
		t.Fatalf("undo left stroke pixel: %+v", got)
	}
}

func TestDrawMoveOffCanvasKeepsStrokeActive(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.DrawStart(5, 5, ToolPen, red, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := ed.DrawMove(50, 5, 1); !errors.Is(err, render.ErrOutOfRange) {
		t.Fatalf("off-canvas move = %v, want ErrOutOfRange", err)
	}
	if err := ed.DrawMove(8, 5, 1); err != nil {
		t.Fatalf("stroke did not survive a failed segment: %v", err)
	}
	ed.DrawEnd()
	if got := ed.Display().RGBAAt(8, 5); got != red {
		t.Fatalf("continuation pixel = %+v, want %+v", got, red)
	}
}

func TestPressureNarrowsPen(t *testing.T) {
	ed := newEditor(t, 30, 30, WithPressureEnabled(true))
	if err := ed.DrawStart(10, 10, ToolPen, red, 8, 0.25); err != nil {
		t.Fatal(err)
	}
	ed.DrawEnd()
	// Full radius would be 4; at quarter pressure the dot stays within 1px.
	if got := ed.Display().RGBAAt(13, 10); got != white {
		t.Fatalf("pressure ignored, wide dot painted: %+v", got)
	}
	if got := ed.Display().RGBAAt(10, 10); got != red {
		t.Fatalf("center pixel = %+v, want %+v", got, red)
	}
}

func TestFillThenRepeatRecordsOneEntry(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.Fill(3, 3, red); err != nil {
		t.Fatal(err)
	}
	if got := ed.Display().RGBAAt(0, 0); got != red {
		t.Fatalf("fill pixel = %+v, want %+v", got, red)
	}
	// Refilling with the same color changes nothing and records nothing.
	if err := ed.Fill(3, 3, red); err != nil {
		t.Fatal(err)
	}
	if !ed.Undo() {
		t.Fatal("Undo failed")
	}
	if ed.Undo() {
		t.Fatal("no-op fill recorded a history entry")
	}
	if got := ed.Display().RGBAAt(0, 0); got != white {
		t.Fatalf("undo did not revert fill: %+v", got)
	}
}

func TestFillOutOfRange(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.Fill(-1, 0, red); !errors.Is(err, render.ErrOutOfRange) {
		t.Fatalf("fill at (-1,0) = %v, want ErrOutOfRange", err)
	}
	if ed.CanUndo() {
		t.Fatal("failed fill recorded history")
	}
}

func TestClearActiveLayerIsUndoable(t *testing.T) {
	ed := newEditor(t, 10, 10)
	if err := ed.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}
	if err := ed.ClearActiveLayer(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Display().RGBAAt(4, 4); got != white {
		t.Fatalf("clear left paint: %+v", got)
	}
	if !ed.Undo() {
		t.Fatal("Undo failed")
	}
	if got := ed.Display().RGBAAt(4, 4); got != red {
		t.Fatalf("undo did not restore cleared layer: %+v", got)
	}
}

func TestAddDeleteAndSelectLayers(t *testing.T) {
	ed := newEditor(t, 10, 10)
	base := ed.Layers()[0]
	added := ed.AddLayer()
	if added.Name != "Layer 2" {
		t.Fatalf("added layer name = %q", added.Name)
	}
	if ed.ActiveLayerID() != added.ID {
		t.Fatal("added layer is not active")
	}
	if got := ed.Layers(); len(got) != 2 || got[0].ID != added.ID {
		t.Fatalf("new layer is not topmost: %+v", got)
	}

	if err := ed.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}
	if err := ed.DeleteLayer(added.ID); err != nil {
		t.Fatal(err)
	}
	if ed.ActiveLayerID() != base.ID {
		t.Fatal("active layer did not fall back after delete")
	}
	if got := ed.Display().RGBAAt(0, 0); got != white {
		t.Fatalf("deleted layer still composited: %+v", got)
	}
	if ed.Undo() {
		t.Fatal("history for the deleted layer survived")
	}

	if err := ed.DeleteLayer(base.ID); !errors.Is(err, ErrLastLayer) {
		t.Fatalf("deleting last layer = %v, want ErrLastLayer", err)
	}
	if err := ed.SelectLayer("missing"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("selecting unknown layer = %v, want ErrLayerNotFound", err)
	}
}

func TestReorderLayer(t *testing.T) {
	ed := newEditor(t, 10, 10)
	bottom := ed.Layers()[0]
	top := ed.AddLayer()

	if err := ed.ReorderLayer(top.ID, Up); err != nil {
		t.Fatalf("no-op reorder at the top = %v", err)
	}
	if got := ed.Layers(); got[0].ID != top.ID {
		t.Fatal("no-op reorder moved layers")
	}

	if err := ed.ReorderLayer(top.ID, Down); err != nil {
		t.Fatal(err)
	}
	if got := ed.Layers(); got[0].ID != bottom.ID || got[1].ID != top.ID {
		t.Fatalf("reorder down failed: %+v", got)
	}
	if err := ed.ReorderLayer("missing", Up); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("reordering unknown layer = %v", err)
	}
}

func TestVisibilityAndOpacityAffectComposite(t *testing.T) {
	ed := newEditor(t, 10, 10)
	id := ed.ActiveLayerID()
	if err := ed.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}

	if err := ed.SetLayerVisibility(id, false); err != nil {
		t.Fatal(err)
	}
	if got := ed.Display().RGBAAt(0, 0); got != white {
		t.Fatalf("hidden layer composited: %+v", got)
	}
	if err := ed.SetLayerVisibility(id, true); err != nil {
		t.Fatal(err)
	}

	if err := ed.SetLayerOpacity(id, 0.5); err != nil {
		t.Fatal(err)
	}
	want := color.RGBA{255, 128, 128, 255}
	if got := ed.Display().RGBAAt(0, 0); got != want {
		t.Fatalf("half-opacity pixel = %+v, want %+v", got, want)
	}

	if err := ed.SetLayerOpacity(id, 7); err != nil {
		t.Fatal(err)
	}
	if got := ed.Layers()[0].Opacity; got != 1 {
		t.Fatalf("opacity not clamped: %v", got)
	}
}

func TestRenameLayer(t *testing.T) {
	ed := newEditor(t, 10, 10)
	id := ed.ActiveLayerID()
	if err := ed.RenameLayer(id, "Inks"); err != nil {
		t.Fatal(err)
	}
	if got := ed.Layers()[0].Name; got != "Inks" {
		t.Fatalf("name = %q, want Inks", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ed := newEditor(t, 8, 6)
	if err := ed.DrawStart(1, 1, ToolPen, red, 1, 1); err != nil {
		t.Fatal(err)
	}
	ed.DrawEnd()
	ed.AddLayer()
	if err := ed.RenameLayer(ed.ActiveLayerID(), "Inks"); err != nil {
		t.Fatal(err)
	}

	doc, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != 2 || len(doc.Layers) != 2 || len(doc.LayerImages) != 2 {
		t.Fatalf("unexpected document: version %d, %d layers, %d images", doc.Version, len(doc.Layers), len(doc.LayerImages))
	}

	other := newEditor(t, 1, 1)
	errCh := make(chan error, 1)
	if err := other.ImportProject(doc, func(err error) { errCh <- err }); err != nil {
		t.Fatal(err)
	}
	if err := waitDone(t, errCh); err != nil {
		t.Fatal(err)
	}

	if w, h := other.Size(); w != 8 || h != 6 {
		t.Fatalf("imported size = %dx%d", w, h)
	}
	layers := other.Layers()
	if len(layers) != 2 || layers[0].Name != "Inks" {
		t.Fatalf("imported layers: %+v", layers)
	}
	if other.ActiveLayerID() != doc.ActiveLayerID {
		t.Fatal("active layer not restored")
	}
	if got := other.Display().RGBAAt(1, 1); got != red {
		t.Fatalf("imported pixel = %+v, want %+v", got, red)
	}
	if other.CanUndo() {
		t.Fatal("history crossed the import")
	}
}

func TestImportV1SynthesizesSingleLayer(t *testing.T) {
	src := newEditor(t, 4, 4)
	if err := src.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}
	v2, err := src.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	doc := *v2
	doc.Version = 1
	doc.Layers = nil
	doc.ActiveLayerID = ""
	doc.ImageData = v2.LayerImages[v2.ActiveLayerID]
	doc.LayerImages = nil

	ed := newEditor(t, 1, 1)
	errCh := make(chan error, 1)
	if err := ed.ImportProject(&doc, func(err error) { errCh <- err }); err != nil {
		t.Fatal(err)
	}
	if err := waitDone(t, errCh); err != nil {
		t.Fatal(err)
	}
	layers := ed.Layers()
	if len(layers) != 1 || layers[0].Name != "Layer 1" {
		t.Fatalf("imported layers: %+v", layers)
	}
	if got := ed.Display().RGBAAt(2, 2); got != red {
		t.Fatalf("imported pixel = %+v, want %+v", got, red)
	}
}

func TestImportWithoutImagesCompletesSynchronously(t *testing.T) {
	ed := newEditor(t, 4, 4)
	doc, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	doc.LayerImages = nil

	called := false
	if err := ed.ImportProject(doc, func(err error) {
		called = true
		if err != nil {
			t.Errorf("done callback error: %v", err)
		}
	}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("done callback did not run before ImportProject returned")
	}
}

func TestImportSkipsImagesForUnknownLayers(t *testing.T) {
	ed := newEditor(t, 4, 4)
	doc, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	doc.LayerImages = map[string]string{"ghost": doc.LayerImages[doc.ActiveLayerID]}

	called := false
	if err := ed.ImportProject(doc, func(error) { called = true }); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("import with only unknown image ids did not complete")
	}
}

func TestImportIgnoresOrphanImageAlongsideRealOnes(t *testing.T) {
	src := newEditor(t, 4, 4)
	if err := src.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}
	doc, err := src.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	doc.LayerImages["ghost"] = "@@not base64@@"

	ed := newEditor(t, 1, 1)
	errCh := make(chan error, 1)
	if err := ed.ImportProject(doc, func(err error) { errCh <- err }); err != nil {
		t.Fatal(err)
	}
	if err := waitDone(t, errCh); err != nil {
		t.Fatalf("orphan image entry failed the load: %v", err)
	}
	if got := ed.Display().RGBAAt(2, 2); got != red {
		t.Fatalf("imported pixel = %+v, want %+v", got, red)
	}
}

func TestImportReportsDecodeFailure(t *testing.T) {
	ed := newEditor(t, 4, 4)
	doc, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	doc.LayerImages[doc.ActiveLayerID] = "@@not base64@@"

	errCh := make(chan error, 1)
	if err := ed.ImportProject(doc, func(err error) { errCh <- err }); err != nil {
		t.Fatal(err)
	}
	if err := waitDone(t, errCh); err == nil {
		t.Fatal("expected decode error from done callback")
	}
}

func TestSetRedrawRacesImportCompletion(t *testing.T) {
	src := newEditor(t, 4, 4)
	if err := src.Fill(0, 0, red); err != nil {
		t.Fatal(err)
	}
	doc, err := src.ExportProject()
	if err != nil {
		t.Fatal(err)
	}

	ed := newEditor(t, 1, 1)
	fired := make(chan struct{}, 8)
	ed.SetRedraw(func() { fired <- struct{}{} })

	errCh := make(chan error, 1)
	if err := ed.ImportProject(doc, func(err error) { errCh <- err }); err != nil {
		t.Fatal(err)
	}
	// Replace the callback while decode goroutines may be notifying.
	ed.SetRedraw(func() { fired <- struct{}{} })
	if err := waitDone(t, errCh); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("redraw callback did not fire after import")
	}
}

func TestImportRejectsBadDocumentsSynchronously(t *testing.T) {
	ed := newEditor(t, 4, 4)
	before, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}

	bad, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	bad.Layers = nil
	if err := ed.ImportProject(bad, nil); err == nil {
		t.Fatal("expected validation error")
	}

	after, err := ed.ExportProject()
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Layers) != len(before.Layers) || after.Width != before.Width {
		t.Fatal("failed import disturbed editor state")
	}
}

func waitDone(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("import did not complete")
		return nil
	}
}

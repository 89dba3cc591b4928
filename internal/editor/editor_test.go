package editor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/tool"
)

func TestNewStartsWithBackgroundLayer(t *testing.T) {
	e := New(0, 0)
	if w, h := e.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Fatalf("size %dx%d", w, h)
	}
	if e.Layers().Len() != 1 || e.Layers().Active().Name != BackgroundLayer {
		t.Fatal("expected a single background layer")
	}
	if got := e.Render().RGBAAt(10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("blank render = %v", got)
	}
}

func TestOptionsApply(t *testing.T) {
	bp := tool.DefaultBrushParams()
	bp.Size = 42
	e := New(10, 10, WithBackground(color.RGBA{A: 255}), WithBrush(bp))
	if e.Tools().Brush.Params.Size != 42 {
		t.Fatal("brush option ignored")
	}
	if got := e.Render().RGBAAt(1, 1); got != (color.RGBA{A: 255}) {
		t.Fatalf("background option ignored: %v", got)
	}
}

func TestNewProjectResets(t *testing.T) {
	e := New(100, 100)
	e.AddLayer("")
	e.AddLayer("")
	e.Viewport().Zoom(1)
	e.Selection().Begin(0, 0)
	e.Selection().Extend(5, 0)
	e.Selection().Extend(5, 5)
	e.Selection().Commit()

	if !e.NewProject(300, 200) {
		t.Fatal("new project refused")
	}
	if e.Layers().Len() != 1 || e.Layers().Active().ID != 0 {
		t.Fatal("layers not reset")
	}
	if w, h := e.Size(); w != 300 || h != 200 {
		t.Fatalf("size %dx%d", w, h)
	}
	if e.Viewport().Scale != 1 || e.Selection().IsActive() {
		t.Fatal("view or selection survived")
	}
	if e.NewProject(0, 10) {
		t.Fatal("invalid size accepted")
	}
}

func TestScreenEventsGoThroughViewport(t *testing.T) {
	e := New(100, 100)
	v := e.Viewport()
	v.Scale, v.OffsetX, v.OffsetY = 2, 20, 10
	e.SelectTool(tool.KindBrush)
	e.Tools().Brush.Params.Size = 4

	// Screen (60,50) is world (20,20); screen (140,50) is world (60,20).
	e.PointerDown(60, 50)
	e.PointerMove(140, 50)
	e.PointerUp(140, 50)

	buf := e.Layers().Active().Buffer
	if buf.RGBAAt(40, 20).A < 250 {
		t.Fatal("stroke not at world position")
	}
	if buf.RGBAAt(100, 50).A != 0 {
		t.Fatal("stroke painted at screen position")
	}
}

func TestImportAndOpenImage(t *testing.T) {
	e := New(100, 100)
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	l := e.ImportImage("photo", img)
	if l == nil || l.Name != "photo" || l.X != 40 || l.Y != 45 {
		t.Fatalf("imported layer %+v", l)
	}
	if e.Layers().Len() != 2 || e.Layers().Active() != l {
		t.Fatal("import should add an active top layer")
	}
	if e.ImportImage("empty", image.NewRGBA(image.Rectangle{})) != nil {
		t.Fatal("empty image imported")
	}

	if !e.OpenImage("photo", img) {
		t.Fatal("open failed")
	}
	if w, h := e.Size(); w != 20 || h != 10 || e.Layers().Len() != 1 {
		t.Fatalf("open gave %dx%d with %d layers", w, h, e.Layers().Len())
	}
	if e.Layers().Active().X != 0 {
		t.Fatal("opened image should sit at the origin")
	}
}

func TestCropThroughEditor(t *testing.T) {
	e := New(200, 200)
	e.Viewport().Zoom(1)
	e.SelectTool(tool.KindCrop)
	crop := e.Tools().Crop
	crop.PointerDown(geom.Pt(10, 20))
	crop.PointerMove(geom.Pt(70, 60))
	crop.PointerUp(geom.Pt(70, 60))
	if !e.ConfirmCrop() {
		t.Fatal("confirm failed")
	}
	if w, h := e.Size(); w != 60 || h != 40 {
		t.Fatalf("canvas %dx%d", w, h)
	}
	if e.Viewport().Scale != 1 {
		t.Fatal("crop must reset the viewport")
	}
	if b := e.Render().Bounds(); b != image.Rect(0, 0, 60, 40) {
		t.Fatalf("render bounds %v", b)
	}
}

func TestCancelOrder(t *testing.T) {
	e := New(100, 100)
	sel := e.Selection()
	sel.Begin(0, 0)
	sel.Extend(50, 0)
	sel.Extend(50, 50)
	sel.Commit()

	e.SelectTool(tool.KindCrop)
	c := e.Tools().Crop
	c.PointerDown(geom.Pt(0, 0))
	c.PointerUp(geom.Pt(40, 40))

	if !e.Cancel() || !sel.IsActive() {
		t.Fatal("first cancel should drop the pending crop only")
	}
	if !e.Cancel() || sel.IsActive() {
		t.Fatal("second cancel should clear the selection")
	}
	if e.Cancel() {
		t.Fatal("nothing left to cancel")
	}
}

func TestExportHasNoOverlay(t *testing.T) {
	e := New(30, 30)
	sel := e.Selection()
	sel.Begin(5, 5)
	sel.Extend(25, 5)
	sel.Extend(25, 25)
	sel.Commit()

	var buf bytes.Buffer
	if err := e.Export(&buf, FormatPNG); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 30, 30) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if r, g, b, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
				t.Fatalf("export contains overlay at (%d,%d)", x, y)
			}
		}
	}
}

func TestExportFileAndLoad(t *testing.T) {
	e := New(12, 8)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := e.ExportFile(path); err != nil {
		t.Fatal(err)
	}
	img, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Fatalf("loaded %v", img.Bounds())
	}
	if LayerName(path) != "out" {
		t.Fatalf("layer name %q", LayerName(path))
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("missing file loaded")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.png": FormatPNG, "b.JPG": FormatJPEG, "c.jpeg": FormatJPEG,
		"d.bmp": FormatBMP, "e.tiff": FormatTIFF, "f": FormatPNG,
	}
	for in, want := range cases {
		if got := FormatFromPath(in); got != want {
			t.Fatalf("%s: %s, want %s", in, got, want)
		}
	}
	for _, f := range []Format{FormatJPEG, FormatBMP, FormatTIFF} {
		var buf bytes.Buffer
		if err := Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if _, err := Decode(&buf); err != nil {
			t.Fatalf("decode %s: %v", f, err)
		}
	}
	if err := Encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), "webp"); err == nil {
		t.Fatal("webp encoding should be unsupported")
	}
}

func TestUpdatesSignal(t *testing.T) {
	e := New(10, 10)
	e.Render()
	select {
	case <-e.Updates():
	default:
	}
	e.AddLayer("x")
	select {
	case <-e.Updates():
	default:
		t.Fatal("no update signalled")
	}
	if !e.Dirty() {
		t.Fatal("dirty flag not set")
	}
	e.Render()
	if e.Dirty() {
		t.Fatal("render should clear the dirty flag")
	}
}

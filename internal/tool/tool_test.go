package tool

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/logging"
	"github.com/example/layerpaint/internal/selection"
)

type fakeDoc struct {
	layers      *layer.Store
	sel         selection.Region
	w, h        int
	invalidated int
}

func newDoc(w, h int) *fakeDoc {
	return &fakeDoc{layers: layer.NewStore(w, h), w: w, h: h}
}

func (d *fakeDoc) Layers() *layer.Store         { return d.layers }
func (d *fakeDoc) Selection() *selection.Region { return &d.sel }
func (d *fakeDoc) Invalidate()                  { d.invalidated++ }
func (d *fakeDoc) ResizeCanvas(w, h int) {
	d.w, d.h = w, h
	d.layers.SetCanvasSize(w, h)
}

func fillLayer(l *layer.Layer, c color.RGBA) {
	for i := 0; i < len(l.Buffer.Pix); i += 4 {
		l.Buffer.Pix[i], l.Buffer.Pix[i+1], l.Buffer.Pix[i+2], l.Buffer.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

func drag(t Tool, pts ...geom.Point) {
	t.PointerDown(pts[0])
	for _, p := range pts[1:] {
		t.PointerMove(p)
	}
	t.PointerUp(pts[len(pts)-1])
}

func selectSquare(sel *selection.Region, x0, y0, x1, y1 float64) {
	sel.Begin(x0, y0)
	sel.Extend(x1, y0)
	sel.Extend(x1, y1)
	sel.Extend(x0, y1)
	sel.Commit()
}

func TestPaintingToolsIgnoreMissingOrHiddenLayer(t *testing.T) {
	doc := newDoc(50, 50)
	tools := []Tool{NewBrush(doc), NewEraser(doc), NewBlur(doc), NewText(doc), NewMove(doc)}
	for _, tl := range tools {
		drag(tl, geom.Pt(5, 5), geom.Pt(40, 40))
	}
	if doc.invalidated != 0 {
		t.Fatal("tools acted without a layer")
	}

	l := doc.layers.Add("", nil)
	l.Visible = false
	before := l.Snapshot()
	for _, tl := range tools {
		drag(tl, geom.Pt(5, 5), geom.Pt(40, 40))
	}
	if !bytes.Equal(before.Pix, l.Buffer.Pix) || l.X != 0 || l.Y != 0 {
		t.Fatal("tools modified a hidden layer")
	}
}

func TestBrushPaintsInLayerSpace(t *testing.T) {
	doc := newDoc(200, 200)
	l := doc.layers.Add("", nil)
	l.X, l.Y, l.Scale = 100, 50, 2

	b := NewBrush(doc)
	b.Params.Color = color.RGBA{R: 255, A: 255}
	b.Params.Size = 8
	drag(b, geom.Pt(110, 70), geom.Pt(150, 70))

	// World y=70 is local y=10; world x 110..150 is local 5..25.
	if got := l.Buffer.RGBAAt(15, 10); got.R < 250 || got.A < 250 {
		t.Fatalf("local (15,10) = %v, want red", got)
	}
	if got := l.Buffer.RGBAAt(15, 20); got.A != 0 {
		t.Fatalf("local (15,20) = %v, want untouched", got)
	}
	if got := l.Buffer.RGBAAt(110, 70); got.A != 0 {
		t.Fatal("brush wrote at world coordinates")
	}
}

func TestBrushNeedsAMoveToPaint(t *testing.T) {
	doc := newDoc(20, 20)
	l := doc.layers.Add("", nil)
	b := NewBrush(doc)
	b.PointerDown(geom.Pt(10, 10))
	b.PointerUp(geom.Pt(10, 10))
	for _, v := range l.Buffer.Pix {
		if v != 0 {
			t.Fatal("a click without movement painted")
		}
	}
}

func TestBrushStrokeDoesNotAccumulateOpacity(t *testing.T) {
	doc := newDoc(60, 20)
	l := doc.layers.Add("", nil)
	b := NewBrush(doc)
	b.Params.Opacity = 0.5
	b.Params.Size = 6
	drag(b, geom.Pt(5, 10), geom.Pt(20, 10), geom.Pt(35, 10), geom.Pt(50, 10))
	a := l.Buffer.RGBAAt(10, 10).A
	if a < 120 || a > 135 {
		t.Fatalf("alpha at start = %d, want about 128", a)
	}
	if got := l.Buffer.RGBAAt(45, 10).A; got != a {
		t.Fatalf("alpha varies along the stroke: %d vs %d", got, a)
	}
}

func TestSelfCrossingStrokeKeepsOpacity(t *testing.T) {
	doc := newDoc(60, 60)
	l := doc.layers.Add("", nil)
	b := NewBrush(doc)
	b.Params.Opacity = 0.5
	b.Params.Size = 6
	drag(b, geom.Pt(5, 30), geom.Pt(55, 30), geom.Pt(55, 50), geom.Pt(30, 50), geom.Pt(30, 5))
	a := l.Buffer.RGBAAt(15, 30).A
	if got := l.Buffer.RGBAAt(30, 30).A; got != a {
		t.Fatalf("alpha where the stroke crosses itself = %d, want %d", got, a)
	}
}

func TestStrokeRepaintsOnlyAroundNewSegment(t *testing.T) {
	doc := newDoc(400, 400)
	l := doc.layers.Add("", nil)
	b := NewBrush(doc)
	b.Params.Size = 10
	b.Params.Softness = 0.5
	// sigma 2.5, so the repaint pad is 5 + 7.5 + 2 on each side
	const step, pad = 5.0, 15
	b.PointerDown(geom.Pt(20, 200))
	for i := 1; i <= 70; i++ {
		b.PointerMove(geom.Pt(20+float64(i)*step, 200))
		r := b.stroke.touched
		if r.Dx() > int(step)+2*pad+2 || r.Dy() > 2*pad+2 {
			t.Fatalf("move %d repainted %v, want a rectangle around the last segment", i, r)
		}
	}
	b.PointerUp(geom.Pt(370, 200))
	if l.Buffer.RGBAAt(22, 200).A < 250 || l.Buffer.RGBAAt(368, 200).A < 250 {
		t.Fatal("stroke ends should stay painted")
	}
}

func TestSmoothingZeroFollowsRawPath(t *testing.T) {
	doc := newDoc(100, 100)
	doc.layers.Add("", nil)
	b := NewBrush(doc)
	raw := []geom.Point{{X: 3, Y: 4}, {X: 10.1, Y: 20.7}, {X: 55, Y: 1}, {X: 0.3, Y: 99}}
	b.PointerDown(raw[0])
	for _, p := range raw[1:] {
		b.PointerMove(p)
	}
	for i, p := range b.stroke.points {
		if p != raw[i] {
			t.Fatalf("drawn point %d = %+v, want %+v", i, p, raw[i])
		}
	}
	b.PointerUp(raw[3])
}

func TestSmoothingLagsWithoutOvershoot(t *testing.T) {
	doc := newDoc(100, 100)
	doc.layers.Add("", nil)
	b := NewBrush(doc)
	b.Params.Smoothing = 0.5
	b.PointerDown(geom.Pt(0, 0))
	targets := []geom.Point{{X: 40, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}}
	for _, target := range targets {
		prev := b.stroke.points[len(b.stroke.points)-1]
		b.PointerMove(target)
		got := b.stroke.points[len(b.stroke.points)-1]
		want := prev.Add(target.Sub(prev).Mul(0.5))
		if got != want {
			t.Fatalf("drawn %+v, want %+v", got, want)
		}
		if prev.Dist(got) >= prev.Dist(target) || got.Dist(target) >= prev.Dist(target) {
			t.Fatalf("drawn point %+v not strictly between %+v and %+v", got, prev, target)
		}
	}
	b.PointerUp(geom.Pt(0, 40))
}

func TestSoftnessWidensFootprint(t *testing.T) {
	paint := func(softness float64) *image.RGBA {
		doc := newDoc(60, 40)
		l := doc.layers.Add("", nil)
		b := NewBrush(doc)
		b.Params.Size = 6
		b.Params.Softness = softness
		drag(b, geom.Pt(10, 20), geom.Pt(50, 20))
		return l.Buffer
	}
	hard, soft := paint(0), paint(1)
	if hard.RGBAAt(30, 27).A != 0 {
		t.Fatal("hard brush reached too far")
	}
	if soft.RGBAAt(30, 27).A == 0 {
		t.Fatal("soft brush should bleed past the stroke edge")
	}
	if soft.RGBAAt(30, 20).A < 250 {
		t.Fatal("soft brush core should stay opaque")
	}
}

func TestEraserClearsAndIgnoresColour(t *testing.T) {
	doc := newDoc(40, 40)
	l := doc.layers.Add("", nil)
	fillLayer(l, color.RGBA{G: 200, A: 255})
	e := NewEraser(doc)
	e.Params.Size = 10
	drag(e, geom.Pt(5, 20), geom.Pt(35, 20))
	if got := l.Buffer.RGBAAt(20, 20); got.A > 5 {
		t.Fatalf("erased pixel = %v", got)
	}
	if got := l.Buffer.RGBAAt(20, 5); got != (color.RGBA{G: 200, A: 255}) {
		t.Fatalf("pixel outside the stroke = %v", got)
	}
}

// outside reports whether pixel (x, y) of l lies fully outside the world
// rectangle [x0,x1]x[y0,y1].
func outside(l *layer.Layer, x, y int, x0, y0, x1, y1 float64) bool {
	a := l.ToWorld(geom.Pt(float64(x), float64(y)))
	b := l.ToWorld(geom.Pt(float64(x+1), float64(y+1)))
	return b.X <= x0 || a.X >= x1 || b.Y <= y0 || a.Y >= y1
}

func TestSelectionClipsEveryPaintingTool(t *testing.T) {
	cases := []struct {
		name string
		make func(Document) Tool
	}{
		{"brush", func(d Document) Tool { b := NewBrush(d); b.Params.Size = 30; return b }},
		{"eraser", func(d Document) Tool { e := NewEraser(d); e.Params.Size = 30; e.Params.Softness = 0.5; return e }},
		{"blur", func(d Document) Tool { b := NewBlur(d); b.Params.Size = 40; b.Params.Intensity = 1; return b }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := newDoc(120, 120)
			l := doc.layers.Add("", nil)
			l.X, l.Y, l.Scale = 10, 20, 1.5
			// Stripes give the blur something to soften.
			for y := 0; y < 120; y++ {
				for x := 0; x < 120; x++ {
					if (x/3)%2 == 0 {
						l.Buffer.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
					}
				}
			}
			selectSquare(&doc.sel, 50, 50, 80, 80)
			before := l.Snapshot()

			drag(tc.make(doc), geom.Pt(15, 65), geom.Pt(65, 65), geom.Pt(115, 65), geom.Pt(65, 30), geom.Pt(65, 110))

			changedInside := false
			for y := 0; y < 120; y++ {
				for x := 0; x < 120; x++ {
					same := before.RGBAAt(x, y) == l.Buffer.RGBAAt(x, y)
					if outside(l, x, y, 50, 50, 80, 80) {
						if !same {
							t.Fatalf("pixel (%d,%d) outside the selection changed", x, y)
						}
					} else if !same {
						changedInside = true
					}
				}
			}
			if !changedInside {
				t.Fatal("nothing changed inside the selection")
			}
		})
	}
}

func TestBlurSoftensOnlyUnderTheBrush(t *testing.T) {
	doc := newDoc(100, 40)
	l := doc.layers.Add("", nil)
	for y := 0; y < 40; y++ {
		for x := 0; x < 50; x++ {
			l.Buffer.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	before := l.Snapshot()
	b := NewBlur(doc)
	b.Params.Size = 20
	b.Params.Intensity = 0.5
	b.PointerDown(geom.Pt(50, 20))
	b.PointerUp(geom.Pt(50, 20))

	edge := l.Buffer.RGBAAt(50, 20)
	if edge.A == 0 || edge.A == 255 {
		t.Fatalf("edge pixel not softened: %v", edge)
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 100; x++ {
			dx, dy := float64(x)+0.5-50, float64(y)+0.5-20
			if dx*dx+dy*dy > 11*11 && before.RGBAAt(x, y) != l.Buffer.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside the dab changed", x, y)
			}
		}
	}
}

func TestBlurIsProgressive(t *testing.T) {
	doc := newDoc(60, 20)
	l := doc.layers.Add("", nil)
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			l.Buffer.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	b := NewBlur(doc)
	b.Params.Intensity = 0.2
	b.Params.Size = 16
	b.PointerDown(geom.Pt(30, 10))
	b.PointerUp(geom.Pt(30, 10))
	once := l.Buffer.RGBAAt(27, 10).A
	b.PointerDown(geom.Pt(30, 10))
	b.PointerUp(geom.Pt(30, 10))
	twice := l.Buffer.RGBAAt(27, 10).A
	if !(twice < once) {
		t.Fatalf("second pass did not soften further: %d then %d", once, twice)
	}
}

func TestCropBakesTransform(t *testing.T) {
	doc := newDoc(300, 300)
	img := image.NewRGBA(image.Rect(0, 0, 80, 80))
	img.SetRGBA(10, 10, color.RGBA{R: 7, G: 77, B: 177, A: 255})
	l := doc.layers.Add("", img)
	l.X, l.Y, l.Scale = 50, 50, 1

	c := NewCrop(doc)
	c.Activate()
	drag(c, geom.Pt(0, 0), geom.Pt(100, 100))
	if r, ok := c.Pending(); !ok || r != geom.RectFromPoints(geom.Pt(0, 0), geom.Pt(100, 100)) {
		t.Fatalf("pending = %+v %v", r, ok)
	}
	if !c.Confirm() {
		t.Fatal("confirm failed")
	}
	if w, h := l.Size(); w != 100 || h != 100 {
		t.Fatalf("buffer %dx%d, want 100x100", w, h)
	}
	if got := l.Buffer.RGBAAt(60, 60); got != (color.RGBA{R: 7, G: 77, B: 177, A: 255}) {
		t.Fatalf("local (60,60) = %v", got)
	}
	if l.X != 0 || l.Y != 0 || l.Scale != 1 {
		t.Fatalf("placement not reset: (%v,%v) x%v", l.X, l.Y, l.Scale)
	}
	if doc.w != 100 || doc.h != 100 {
		t.Fatalf("canvas %dx%d", doc.w, doc.h)
	}
	if _, ok := c.Pending(); ok {
		t.Fatal("pending survived confirm")
	}
}

func TestCropBakesScale(t *testing.T) {
	doc := newDoc(100, 100)
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	l := doc.layers.Add("", img)
	l.X, l.Y, l.Scale = 20, 20, 3
	if !ApplyCrop(doc, geom.RectFromPoints(geom.Pt(10, 10), geom.Pt(70, 70))) {
		t.Fatal("crop refused")
	}
	// World 20..50 becomes local 10..40 after the crop.
	if l.Buffer.RGBAAt(25, 25).A < 250 {
		t.Fatal("scaled content missing")
	}
	if l.Buffer.RGBAAt(45, 45).A != 0 || l.Buffer.RGBAAt(5, 5).A != 0 {
		t.Fatal("content outside the scaled layer")
	}
}

func TestCropDiscardsSmallRectangles(t *testing.T) {
	doc := newDoc(100, 100)
	doc.layers.Add("", nil)
	c := NewCrop(doc)
	drag(c, geom.Pt(10, 10), geom.Pt(19, 60))
	if _, ok := c.Pending(); ok {
		t.Fatal("9 wide rectangle kept")
	}
	if c.Confirm() {
		t.Fatal("confirm without pending")
	}

	c.PointerDown(geom.Pt(60, 60))
	c.PointerMove(geom.Pt(30, 20))
	c.PointerLeave(geom.Pt(30, 20))
	if r, ok := c.Pending(); !ok || r.Min != geom.Pt(30, 20) || r.Max != geom.Pt(60, 60) {
		t.Fatalf("leave should finish the drag like up: %+v %v", r, ok)
	}
	if !c.Cancel() {
		t.Fatal("cancel with pending reported nothing")
	}
	if _, ok := c.Pending(); ok || doc.w != 100 {
		t.Fatal("cancel did not discard")
	}
}

func TestLassoGestures(t *testing.T) {
	doc := newDoc(50, 50)
	lasso := NewLasso(doc)
	drag(lasso, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	if !doc.sel.IsActive() {
		t.Fatal("three point lasso should commit")
	}
	drag(lasso, geom.Pt(0, 0), geom.Pt(10, 0))
	if doc.sel.IsActive() {
		t.Fatal("two point lasso should leave the selection empty")
	}
}

func TestLassoSwitchMidGestureLeavesNoCapture(t *testing.T) {
	doc := newDoc(50, 50)
	m := NewManager(doc)
	m.Select(KindLasso)
	m.PointerDown(geom.Pt(1, 1))
	m.PointerMove(geom.Pt(20, 1))
	m.Select(KindBrush)
	if doc.sel.Capturing() || doc.sel.IsActive() {
		t.Fatal("half drawn lasso survived a tool switch")
	}
}

func TestMoveAddsWorldDelta(t *testing.T) {
	doc := newDoc(50, 50)
	l := doc.layers.Add("", nil)
	l.Scale = 4
	m := NewMove(doc)
	drag(m, geom.Pt(10, 10), geom.Pt(15, 12), geom.Pt(20, 5))
	if l.X != 10 || l.Y != -5 || l.Scale != 4 {
		t.Fatalf("layer at (%v,%v) x%v", l.X, l.Y, l.Scale)
	}
}

func TestActivateResetsDrag(t *testing.T) {
	doc := newDoc(50, 50)
	l := doc.layers.Add("", nil)
	m := NewMove(doc)
	m.PointerDown(geom.Pt(0, 0))
	m.Deactivate()
	m.PointerMove(geom.Pt(30, 30))
	if l.X != 0 {
		t.Fatal("move continued after deactivate")
	}
	m.PointerDown(geom.Pt(0, 0))
	if m.Activate() != CursorMove {
		t.Fatal("wrong cursor")
	}
	m.PointerMove(geom.Pt(30, 30))
	if l.X != 0 {
		t.Fatal("move continued after activate")
	}
}

func TestTextStampsContent(t *testing.T) {
	doc := newDoc(200, 100)
	l := doc.layers.Add("", nil)
	tx := NewText(doc)
	tx.Params.Content = "   "
	tx.PointerDown(geom.Pt(10, 10))
	for _, v := range l.Buffer.Pix {
		if v != 0 {
			t.Fatal("blank text drew")
		}
	}
	if err := tx.Set("text", "Hello"); err != nil {
		t.Fatal(err)
	}
	tx.Set("color", "red")
	tx.PointerDown(geom.Pt(10, 10))
	inked := false
	for y := 0; y < 10; y++ {
		for x := 0; x < 200; x++ {
			if l.Buffer.RGBAAt(x, y).A != 0 {
				t.Fatalf("ink above the click point at (%d,%d)", x, y)
			}
		}
	}
	for y := 10; y < 60; y++ {
		for x := 10; x < 120; x++ {
			if c := l.Buffer.RGBAAt(x, y); c.A != 0 && c.R > 0 && c.G == 0 {
				inked = true
			}
		}
	}
	if !inked {
		t.Fatal("text not drawn")
	}
}

func TestManagerSwitchEndsStroke(t *testing.T) {
	doc := newDoc(50, 50)
	doc.layers.Add("", nil)
	m := NewManager(doc)
	if m.ActiveKind() != KindMove || m.Cursor() != CursorMove {
		t.Fatal("manager should start on the move tool")
	}
	m.Select(KindBrush)
	m.PointerDown(geom.Pt(5, 5))
	if !m.Brush.stroke.active() {
		t.Fatal("stroke not started")
	}
	m.Select(KindEraser)
	if m.Brush.stroke.active() {
		t.Fatal("brush stroke survived the switch")
	}
	if m.Cursor() != CursorNone || m.CursorRadius() != 10 {
		t.Fatalf("cursor %v radius %v", m.Cursor(), m.CursorRadius())
	}
	if err := m.Select(kindCount); err == nil {
		t.Fatal("bad kind accepted")
	}
}

func TestParamsSetAndGet(t *testing.T) {
	doc := newDoc(10, 10)
	m := NewManager(doc)
	if err := m.SetOn(KindBrush, "size", "-3"); err == nil {
		t.Fatal("negative size accepted")
	}
	if m.Brush.Params.Size != 10 {
		t.Fatalf("failed set clobbered size: %v", m.Brush.Params.Size)
	}
	if err := m.SetOn(KindBrush, "smoothing", "2"); err != nil {
		t.Fatal(err)
	}
	if m.Brush.Params.Smoothing != maxSmoothing {
		t.Fatalf("smoothing = %v", m.Brush.Params.Smoothing)
	}
	if err := m.SetOn(KindEraser, "color", "red"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("eraser colour: %v", err)
	}
	if err := m.SetOn(KindMove, "size", "1"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("move size: %v", err)
	}
	m.SetOn(KindBlur, "intensity", "0.25")
	if v, ok := m.Blur.Get("intensity"); !ok || v != "0.25" {
		t.Fatalf("intensity = %q %v", v, ok)
	}
	if got := m.Text.Keys(); len(got) != 4 || got[0] != "color" {
		t.Fatalf("text keys = %v", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("%v round trip gave %v %v", k, got, err)
		}
	}
	if _, err := ParseKind("spray"); err == nil {
		t.Fatal("unknown tool accepted")
	}
}

func TestGesturesLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logging.SetLogger(nil) })

	doc := newDoc(40, 40)
	doc.layers.Add("", nil)
	drag(NewBrush(doc), geom.Pt(5, 5), geom.Pt(30, 5))
	lasso := NewLasso(doc)
	drag(lasso, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	drag(lasso, geom.Pt(0, 0), geom.Pt(10, 0))

	out := buf.String()
	for _, want := range []string{"stroke begin", "stroke end", "points=2", "selection committed", "vertices=4", "selection discarded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}

// Package editor ties the viewport, layer stack, selection, compositor and
// tools into one document. It is not safe for concurrent use; the UI and
// script runners drive it from a single goroutine.
package editor

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/example/layerpaint/internal/compose"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/logging"
	"github.com/example/layerpaint/internal/selection"
	"github.com/example/layerpaint/internal/tool"
	"github.com/example/layerpaint/internal/viewport"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	// BackgroundLayer names the blank layer every new project starts with.
	BackgroundLayer = "Background"
)

// Editor is one open document.
type Editor struct {
	view   *viewport.Viewport
	layers *layer.Store
	sel    *selection.Region
	comp   *compose.Compositor
	tools  *tool.Manager

	background color.RGBA
	dirty      bool
	updateCh   chan struct{}
}

// Option configures an Editor.
type Option func(*Editor)

// WithBackground sets the colour behind all layers.
func WithBackground(c color.RGBA) Option {
	return func(e *Editor) { e.background = c }
}

// WithBrush sets the starting brush parameters.
func WithBrush(p tool.BrushParams) Option {
	return func(e *Editor) { e.tools.Brush.Params = p }
}

// WithEraser sets the starting eraser parameters.
func WithEraser(p tool.EraserParams) Option {
	return func(e *Editor) { e.tools.Eraser.Params = p }
}

// WithBlur sets the starting blur parameters.
func WithBlur(p tool.BlurParams) Option {
	return func(e *Editor) { e.tools.Blur.Params = p }
}

// WithText sets the starting text parameters.
func WithText(p tool.TextParams) Option {
	return func(e *Editor) { e.tools.Text.Params = p }
}

// SetLogger enables logging for the editor packages.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// New creates a w×h document with a single blank background layer.
func New(w, h int, opts ...Option) *Editor {
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	e := &Editor{
		view:       viewport.New(w, h),
		layers:     layer.NewStore(w, h),
		sel:        &selection.Region{},
		background: color.RGBA{255, 255, 255, 255},
		updateCh:   make(chan struct{}, 1),
	}
	e.tools = tool.NewManager(e)
	for _, o := range opts {
		o(e)
	}
	e.comp = compose.New(w, h, e.background)
	e.layers.OnChange(e.Invalidate)
	e.layers.Add(BackgroundLayer, nil)
	return e
}

func (e *Editor) Layers() *layer.Store            { return e.layers }
func (e *Editor) Selection() *selection.Region    { return e.sel }
func (e *Editor) Viewport() *viewport.Viewport    { return e.view }
func (e *Editor) Tools() *tool.Manager            { return e.tools }
func (e *Editor) Background() color.RGBA          { return e.background }
func (e *Editor) Size() (w, h int)                { return e.view.Width(), e.view.Height() }
func (e *Editor) Updates() <-chan struct{}        { return e.updateCh }
func (e *Editor) Compositor() *compose.Compositor { return e.comp }

// ResizeCanvas changes the world size, resets the viewport and clears the
// output to the background.
func (e *Editor) ResizeCanvas(w, h int) {
	e.view.Resize(w, h)
	e.comp.Resize(w, h)
	e.layers.SetCanvasSize(w, h)
	e.Invalidate()
}

// Invalidate marks the composite stale and wakes any listener on Updates.
func (e *Editor) Invalidate() {
	e.dirty = true
	select {
	case e.updateCh <- struct{}{}:
	default:
	}
}

// Dirty reports whether a render is pending.
func (e *Editor) Dirty() bool { return e.dirty }

// NewProject discards every layer and the selection and starts over with a
// blank w×h canvas.
func (e *Editor) NewProject(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	e.resetGesture()
	e.sel.Clear()
	e.layers.Reset()
	e.ResizeCanvas(w, h)
	e.layers.Add(BackgroundLayer, nil)
	logging.Logger().Info("new project", "width", w, "height", h)
	return true
}

// OpenImage starts a new project sized to img with img as its only layer.
func (e *Editor) OpenImage(name string, img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return false
	}
	e.resetGesture()
	e.sel.Clear()
	e.layers.Reset()
	e.ResizeCanvas(b.Dx(), b.Dy())
	e.layers.Add(name, img)
	logging.Logger().Info("opened image", "name", name, "width", b.Dx(), "height", b.Dy())
	return true
}

// ImportImage adds img as a new top layer centred on the canvas.
func (e *Editor) ImportImage(name string, img image.Image) *layer.Layer {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	e.resetGesture()
	l := e.layers.Add(name, img)
	logging.Logger().Info("imported image", "name", l.Name, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return l
}

// AddLayer adds a blank canvas-sized layer on top.
func (e *Editor) AddLayer(name string) *layer.Layer {
	e.resetGesture()
	return e.layers.Add(name, nil)
}

// DeleteLayer removes the active layer unless it is the last one.
func (e *Editor) DeleteLayer() bool {
	e.resetGesture()
	return e.layers.DeleteActive()
}

// resetGesture ends any gesture in progress so a structural change never
// happens under a half-drawn stroke.
func (e *Editor) resetGesture() {
	t := e.tools.Active()
	t.Deactivate()
	t.Activate()
}

// SelectTool switches the active tool.
func (e *Editor) SelectTool(k tool.Kind) error {
	if err := e.tools.Select(k); err != nil {
		return err
	}
	e.Invalidate()
	return nil
}

// ScreenToWorld converts a screen position to world coordinates.
func (e *Editor) ScreenToWorld(px, py float64) geom.Point {
	x, y := e.view.ScreenToWorld(px, py)
	return geom.Pt(x, y)
}

// Pointer events in screen coordinates.

func (e *Editor) PointerDown(px, py float64) { e.tools.PointerDown(e.ScreenToWorld(px, py)) }
func (e *Editor) PointerMove(px, py float64) { e.tools.PointerMove(e.ScreenToWorld(px, py)) }
func (e *Editor) PointerUp(px, py float64)   { e.tools.PointerUp(e.ScreenToWorld(px, py)) }
func (e *Editor) PointerLeave(px, py float64) {
	e.tools.PointerLeave(e.ScreenToWorld(px, py))
}

// Zoom steps the viewport scale around the screen point (px, py).
func (e *Editor) Zoom(dir int, px, py float64) bool {
	if !e.view.ZoomAt(dir, px, py) {
		return false
	}
	e.Invalidate()
	return true
}

// ConfirmCrop applies the crop tool's pending rectangle.
func (e *Editor) ConfirmCrop() bool {
	if !e.tools.Crop.Confirm() {
		return false
	}
	w, h := e.Size()
	logging.Logger().Info("cropped", "width", w, "height", h)
	return true
}

// Cancel abandons a pending crop, or failing that clears the selection.
func (e *Editor) Cancel() bool {
	if e.tools.Crop.Cancel() {
		return true
	}
	if e.sel.IsActive() {
		e.sel.Clear()
		e.Invalidate()
		return true
	}
	return false
}

// Render composites the document with its on-canvas overlays: the selection
// outline and, while the crop tool is active, its rectangle.
func (e *Editor) Render() *image.RGBA {
	e.dirty = false
	var extra []compose.Overlay
	if e.tools.ActiveKind() == tool.KindCrop {
		extra = append(extra, e.tools.Crop)
	}
	return e.comp.Render(e.layers.Layers(), e.sel, extra...)
}

// Flatten returns a new composite of the visible layers without overlays.
func (e *Editor) Flatten() *image.RGBA {
	w, h := e.Size()
	return compose.Flatten(e.layers.Layers(), w, h, e.background)
}

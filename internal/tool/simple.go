package tool

import (
	"strings"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/logging"
	"github.com/example/layerpaint/internal/render"
)

// Move drags the active layer around the world.
type Move struct {
	doc      Document
	dragging bool
	last     geom.Point
}

func NewMove(doc Document) *Move { return &Move{doc: doc} }

func (m *Move) Activate() Cursor {
	m.dragging = false
	return CursorMove
}

func (m *Move) Deactivate() { m.dragging = false }

func (m *Move) PointerDown(p geom.Point) {
	if paintable(m.doc) == nil {
		return
	}
	m.dragging = true
	m.last = p
}

// PointerMove adds the world delta since the previous event to the layer
// position. Scale is not involved.
func (m *Move) PointerMove(p geom.Point) {
	if !m.dragging {
		return
	}
	l := m.doc.Layers().Active()
	if l == nil {
		m.dragging = false
		return
	}
	l.Translate(p.X-m.last.X, p.Y-m.last.Y)
	m.last = p
	m.doc.Invalidate()
}

func (m *Move) PointerUp(geom.Point) { m.dragging = false }

func (m *Move) PointerLeave(p geom.Point) { m.PointerUp(p) }

// Lasso captures a freeform selection polygon.
type Lasso struct {
	doc     Document
	drawing bool
}

func NewLasso(doc Document) *Lasso { return &Lasso{doc: doc} }

func (l *Lasso) Activate() Cursor {
	l.abandon()
	return CursorCrosshair
}

func (l *Lasso) Deactivate() { l.abandon() }

// abandon drops a half-drawn capture so a tool switch never leaves an open
// polyline behind.
func (l *Lasso) abandon() {
	if l.drawing {
		l.doc.Selection().Clear()
		l.doc.Invalidate()
	}
	l.drawing = false
}

func (l *Lasso) PointerDown(p geom.Point) {
	l.drawing = true
	sel := l.doc.Selection()
	sel.Clear()
	sel.Begin(p.X, p.Y)
	l.doc.Invalidate()
}

func (l *Lasso) PointerMove(p geom.Point) {
	if !l.drawing {
		return
	}
	l.doc.Selection().Extend(p.X, p.Y)
	l.doc.Invalidate()
}

func (l *Lasso) PointerUp(geom.Point) {
	if !l.drawing {
		return
	}
	l.drawing = false
	sel := l.doc.Selection()
	if sel.Commit() {
		logging.Logger().Debug("selection committed", "vertices", len(sel.Polygon()))
	} else {
		logging.Logger().Debug("selection discarded", "reason", "fewer than 3 points")
	}
	l.doc.Invalidate()
}

func (l *Lasso) PointerLeave(p geom.Point) { l.PointerUp(p) }

// Text stamps Params.Content onto the active layer with its top-left corner
// at the clicked point.
type Text struct {
	Params TextParams

	doc Document
}

func NewText(doc Document) *Text {
	return &Text{doc: doc, Params: DefaultTextParams()}
}

func (t *Text) Activate() Cursor { return CursorText }

func (t *Text) Deactivate() {}

func (t *Text) PointerDown(p geom.Point) {
	l := paintable(t.doc)
	if l == nil || strings.TrimSpace(t.Params.Content) == "" {
		return
	}
	if t.stamp(l, p) {
		t.doc.Invalidate()
	}
}

func (t *Text) stamp(l *layer.Layer, p geom.Point) bool {
	face, err := render.Face(t.Params.Family, t.Params.Size)
	if err != nil {
		logging.Logger().Warn("text face unavailable", "family", t.Params.Family, "size", t.Params.Size, "err", err)
		return false
	}
	local := l.ToLocal(p)
	render.DrawText(l.Buffer, local.X, local.Y, t.Params.Content, t.Params.Color, face)
	return true
}

func (t *Text) PointerMove(geom.Point) {}

func (t *Text) PointerUp(geom.Point) {}

func (t *Text) PointerLeave(geom.Point) {}

func (t *Text) Set(key, value string) error { return t.Params.Set(key, value) }

func (t *Text) Get(key string) (string, bool) { return t.Params.Get(key) }

func (t *Text) Keys() []string { return t.Params.Keys() }

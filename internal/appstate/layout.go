package appstate

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/layerpaint/internal/tool"
)

const (
	statusHeight = 24
	panelWidth   = 180
	buttonHeight = 24
	rowHeight    = 22
	eyeSize      = 14
	titleHeight  = 20
)

// toolbarWidth grows at start up to fit the widest tool label.
var toolbarWidth = 64

// toolLabels are the toolbar captions in tool.Kinds order, prefixed with
// the key that selects the tool.
var toolLabels = map[tool.Kind]string{
	tool.KindMove:   "M:Move",
	tool.KindBrush:  "B:Brush",
	tool.KindEraser: "E:Eraser",
	tool.KindBlur:   "U:Blur",
	tool.KindCrop:   "C:Crop",
	tool.KindLasso:  "L:Lasso",
	tool.KindText:   "T:Text",
}

func fitToolbar() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("LayerPaint").Ceil() + 8
	for _, lbl := range toolLabels {
		if w := d.MeasureString(lbl).Ceil() + 8; w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}
}

// layout splits a window into the toolbar on the left, the layer panel on
// the right, the status bar along the bottom and the canvas in between.
type layout struct {
	toolbar image.Rectangle
	canvas  image.Rectangle
	panel   image.Rectangle
	status  image.Rectangle
}

func computeLayout(width, height int) layout {
	bottom := height - statusHeight
	if bottom < 0 {
		bottom = 0
	}
	right := width - panelWidth
	if right < toolbarWidth {
		right = toolbarWidth
	}
	return layout{
		toolbar: image.Rect(0, 0, toolbarWidth, bottom),
		canvas:  image.Rect(toolbarWidth, 0, right, bottom),
		panel:   image.Rect(right, 0, width, bottom),
		status:  image.Rect(0, bottom, width, height),
	}
}

// windowSize returns a window that shows a w×h canvas at scale 1.
func windowSize(w, h int) (int, int) {
	return w + toolbarWidth + panelWidth, h + statusHeight
}

// toolRect is the button of the i-th tool in the toolbar.
func (l layout) toolRect(i int) image.Rectangle {
	y := l.toolbar.Min.Y + titleHeight + i*(buttonHeight+2)
	return image.Rect(l.toolbar.Min.X+2, y, l.toolbar.Max.X-2, y+buttonHeight)
}

// toolAt returns the tool under p.
func (l layout) toolAt(p image.Point) (tool.Kind, bool) {
	for i, k := range tool.Kinds() {
		if p.In(l.toolRect(i)) {
			return k, true
		}
	}
	return 0, false
}

// layerRow is the panel row of the i-th layer, top of the stack first.
func (l layout) layerRow(i int) image.Rectangle {
	y := l.panel.Min.Y + titleHeight + i*rowHeight
	return image.Rect(l.panel.Min.X, y, l.panel.Max.X, y+rowHeight)
}

// eyeRect is the visibility toggle inside a layer row.
func eyeRect(row image.Rectangle) image.Rectangle {
	y := row.Min.Y + (row.Dy()-eyeSize)/2
	return image.Rect(row.Min.X+4, y, row.Min.X+4+eyeSize, y+eyeSize)
}

// layerAt returns the index of the layer row under p and whether p is on its
// visibility toggle.
func (l layout) layerAt(p image.Point, n int) (idx int, eye bool, ok bool) {
	if !p.In(l.panel) {
		return 0, false, false
	}
	for i := 0; i < n; i++ {
		r := l.layerRow(i)
		if p.In(r) {
			return i, p.In(eyeRect(r)), true
		}
	}
	return 0, false, false
}

// toCanvas converts a window pixel to the editor's screen space, whose origin
// is the top-left corner of the canvas area.
func (l layout) toCanvas(x, y float32) (float64, float64) {
	return float64(x) - float64(l.canvas.Min.X), float64(y) - float64(l.canvas.Min.Y)
}

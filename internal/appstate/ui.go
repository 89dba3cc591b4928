package appstate

import (
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/tool"
)

// messageDuration is how long status messages stay on screen.
const messageDuration = 2 * time.Second

const (
	// sizeStep is the factor applied by the [ and ] keys.
	sizeStep = 1.25
	// scaleStep is the factor applied to the active layer by , and .
	scaleStep = 1.1
	// opacityStep is added to or taken from the active layer by ; and '.
	opacityStep = 0.1
	// minLayerScale keeps keyboard scaling away from zero.
	minLayerScale = 0.05
)

// ui translates window events into editor calls. It runs on the event loop
// goroutine only.
type ui struct {
	app *AppState
	ed  *editor.Editor
	km  keymap

	width, height int

	// hover is the last pointer position in window pixels.
	hover       image.Point
	hoverCanvas bool
	dragging    bool
	panning     bool
	hoverTool   int

	message      string
	messageUntil time.Time
	// confirmNew is set while the new project prompt is showing.
	confirmNew bool

	now     func() time.Time
	repaint func()
}

func newUI(a *AppState) *ui {
	return &ui{app: a, ed: a.Editor, km: defaultKeymap(), hoverTool: -1, now: time.Now}
}

func (u *ui) layout() layout { return computeLayout(u.width, u.height) }

func (u *ui) say(format string, args ...any) {
	u.message = fmt.Sprintf(format, args...)
	u.messageUntil = u.now().Add(messageDuration)
	log.Print(u.message)
	u.expireMessage()
}

func (u *ui) messageVisible() bool {
	return u.message != "" && u.now().Before(u.messageUntil)
}

// handleMouse processes a mouse event and reports whether a repaint is
// needed. Editor mutations request their own repaint through Updates.
func (u *ui) handleMouse(e mouse.Event) bool {
	l := u.layout()
	p := image.Pt(int(e.X), int(e.Y))
	px, py := l.toCanvas(e.X, e.Y)
	view := u.ed.Viewport()
	u.hover = p

	if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		if e.Direction != mouse.DirRelease && p.In(l.canvas) {
			dir := 1
			if e.Button == mouse.ButtonWheelDown {
				dir = -1
			}
			u.ed.Zoom(dir, px, py)
		}
		return false
	}

	if u.messageVisible() && e.Direction == mouse.DirPress {
		u.messageUntil = time.Time{}
		return true
	}

	switch e.Direction {
	case mouse.DirPress:
		if u.panning || u.dragging {
			return false
		}
		if p.In(l.canvas) {
			if e.Button == mouse.ButtonMiddle || (e.Button == mouse.ButtonLeft && e.Modifiers&key.ModShift != 0) {
				view.BeginPan(px, py)
				u.panning = true
				return false
			}
			if e.Button == mouse.ButtonLeft {
				u.dragging = true
				u.ed.PointerDown(px, py)
			}
			return false
		}
		if e.Button != mouse.ButtonLeft {
			return false
		}
		if k, ok := l.toolAt(p); ok {
			u.selectTool(k)
			return true
		}
		store := u.ed.Layers()
		if i, eye, ok := l.layerAt(p, store.Len()); ok {
			if eye {
				store.ToggleVisible(i)
			} else {
				store.SetActive(i)
			}
			return true
		}
		return false

	case mouse.DirRelease:
		if u.panning && (e.Button == mouse.ButtonMiddle || e.Button == mouse.ButtonLeft) {
			view.EndPan()
			u.panning = false
			return false
		}
		if u.dragging && e.Button == mouse.ButtonLeft {
			u.dragging = false
			u.ed.PointerUp(px, py)
		}
		return false
	}

	// Motion.
	inside := p.In(l.canvas)
	left := u.hoverCanvas && !inside
	u.hoverCanvas = inside
	hoverTool := -1
	if k, ok := l.toolAt(p); ok {
		hoverTool = int(k)
	}
	repaint := hoverTool != u.hoverTool
	u.hoverTool = hoverTool

	switch {
	case u.panning:
		if view.Pan(px, py) {
			u.ed.Invalidate()
		}
	case left && u.dragging:
		u.dragging = false
		u.ed.PointerLeave(px, py)
	case inside:
		u.ed.PointerMove(px, py)
		// The cursor outline follows the pointer even when no tool redraws.
		if u.ed.Tools().CursorRadius() > 0 {
			repaint = true
		}
	case left:
		repaint = true
	}
	return repaint
}

// handleKey processes a key press and reports whether a repaint is needed.
func (u *ui) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	name, ok := u.km.lookup(e)
	if u.ed.Tools().ActiveKind() == tool.KindText && (!ok || !textEditing(name)) {
		return u.typeText(e)
	}
	if !ok {
		return false
	}
	return u.do(name)
}

// typeText edits the text tool's content.
func (u *ui) typeText(e key.Event) bool {
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		return false
	}
	t := u.ed.Tools().Text
	content := []rune(t.Params.Content)
	switch {
	case e.Code == key.CodeDeleteBackspace:
		if len(content) == 0 {
			return false
		}
		t.Params.Content = string(content[:len(content)-1])
	case e.Rune >= ' ':
		t.Params.Content += string(e.Rune)
	default:
		return false
	}
	return true
}

func (u *ui) selectTool(k tool.Kind) {
	if u.dragging {
		return
	}
	if err := u.ed.SelectTool(k); err != nil {
		log.Printf("select tool: %v", err)
	}
}

// do runs the named action.
func (u *ui) do(name string) bool {
	if name != actNewDoc {
		u.confirmNew = false
	}
	e := u.ed
	store := e.Layers()
	l := u.layout()
	cx, cy := float64(l.canvas.Dx())/2, float64(l.canvas.Dy())/2
	switch name {
	case actMove, actBrush, actEraser, actBlur, actCrop, actLasso, actText:
		k, err := tool.ParseKind(name[len("tool-"):])
		if err != nil {
			log.Printf("tool: %v", err)
			return false
		}
		u.selectTool(k)
	case actConfirm:
		if e.Tools().ActiveKind() == tool.KindCrop && !e.ConfirmCrop() {
			u.say("crop area too small")
			return true
		}
	case actCancel:
		e.Cancel()
	case actExport:
		u.export()
	case actCopy:
		u.copy()
	case actPaste:
		u.paste()
	case actNewLayer:
		nl := e.AddLayer("")
		u.say("added %s", nl.Name)
	case actNewDoc:
		u.newProject()
	case actCapture:
		u.capture()
	case actDelete:
		if !e.DeleteLayer() {
			u.say("cannot delete the last layer")
		}
	case actZoomIn:
		e.Zoom(1, cx, cy)
	case actZoomOut:
		e.Zoom(-1, cx, cy)
	case actZoomReset:
		e.Viewport().Reset()
		e.Invalidate()
	case actToggle:
		store.ToggleVisible(store.ActiveIndex())
	case actLayerUp:
		store.SetActive(store.ActiveIndex() - 1)
	case actLayerDown:
		store.SetActive(store.ActiveIndex() + 1)
	case actShrink:
		u.scaleLayer(1 / scaleStep)
	case actGrow:
		u.scaleLayer(scaleStep)
	case actFainter:
		u.fadeLayer(-opacityStep)
	case actStronger:
		u.fadeLayer(opacityStep)
	case actSmaller:
		u.resize(1 / sizeStep)
	case actBigger:
		u.resize(sizeStep)
	default:
		return false
	}
	return true
}

// resize scales the size parameter of the active tool.
func (u *ui) resize(f float64) {
	m := u.ed.Tools()
	c, ok := m.Active().(tool.Configurable)
	if !ok {
		return
	}
	v, ok := c.Get("size")
	if !ok {
		return
	}
	var size float64
	if _, err := fmt.Sscan(v, &size); err != nil {
		return
	}
	size *= f
	if size < 1 {
		size = 1
	}
	if err := c.Set("size", fmt.Sprintf("%.4g", size)); err != nil {
		log.Printf("size: %v", err)
		return
	}
	u.ed.Invalidate()
}

// newProject asks first and, on a second press while the prompt is still on
// screen, replaces the document with a blank canvas of the current size.
func (u *ui) newProject() {
	if !u.confirmNew || !u.messageVisible() {
		u.confirmNew = true
		u.say("press ctrl+shift+N again to discard all layers")
		return
	}
	u.confirmNew = false
	w, h := u.ed.Size()
	u.ed.NewProject(w, h)
	u.say("new %dx%d project", w, h)
}

// scaleLayer multiplies the active layer's scale by f.
func (u *ui) scaleLayer(f float64) {
	store := u.ed.Layers()
	l := store.Active()
	if l == nil {
		return
	}
	s := math.Round(l.Scale*f*1000) / 1000
	if s < minLayerScale {
		s = minLayerScale
	}
	if store.SetActiveScale(s) {
		u.say("%s scale %d%%", l.Name, int(math.Round(s*100)))
	}
}

// fadeLayer steps the active layer's opacity by d, snapping to tenths.
func (u *ui) fadeLayer(d float64) {
	store := u.ed.Layers()
	l := store.Active()
	if l == nil {
		return
	}
	if store.SetActiveOpacity(math.Round((l.Opacity+d)*10) / 10) {
		u.say("%s opacity %d%%", l.Name, int(math.Round(l.Opacity*100)))
	}
}

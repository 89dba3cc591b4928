package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/render"
	"github.com/example/layerpaint/internal/theme"
	"github.com/example/layerpaint/internal/tool"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

type layerInfo struct {
	name    string
	visible bool
	opacity float64
}

// paintState is everything drawFrame needs, copied off the event loop so the
// painter never touches the editor.
type paintState struct {
	width, height int

	frame *image.RGBA
	// view maps world to canvas-relative screen pixels.
	view f64.Aff3

	active    tool.Kind
	hoverTool int

	cursor       image.Point
	showCursor   bool
	cursorKind   tool.Cursor
	cursorRadius float64

	layers      []layerInfo
	activeLayer int

	status       string
	message      string
	messageUntil time.Time
}

// snapshot captures the current editor state for the painter.
func (u *ui) snapshot() paintState {
	e := u.ed
	src := e.Render()
	frame := image.NewRGBA(src.Bounds())
	copy(frame.Pix, src.Pix)

	m := e.Tools()
	view := e.Viewport()
	st := paintState{
		width:        u.width,
		height:       u.height,
		frame:        frame,
		view:         view.Transform(),
		active:       m.ActiveKind(),
		hoverTool:    u.hoverTool,
		cursor:       u.hover,
		showCursor:   u.hoverCanvas && !u.panning,
		cursorKind:   m.Cursor(),
		cursorRadius: m.CursorRadius() * view.Scale,
		activeLayer:  e.Layers().ActiveIndex(),
		status:       u.status(),
		message:      u.message,
		messageUntil: u.messageUntil,
	}
	for _, l := range e.Layers().Layers() {
		st.layers = append(st.layers, layerInfo{name: l.Name, visible: l.Visible, opacity: l.Opacity})
	}
	return st
}

// status is the text of the status bar.
func (u *ui) status() string {
	e := u.ed
	m := e.Tools()
	var b strings.Builder
	b.WriteString(m.ActiveKind().String())
	if c, ok := m.Active().(tool.Configurable); ok {
		for _, k := range c.Keys() {
			v, _ := c.Get(k)
			if k == "text" {
				v = fmt.Sprintf("%q", v)
			}
			fmt.Fprintf(&b, " %s=%s", k, v)
		}
	}
	w, h := e.Size()
	fmt.Fprintf(&b, " | %dx%d %d%%", w, h, int(math.Round(e.Viewport().Scale*100)))
	if u.hoverCanvas {
		px, py := u.layout().toCanvas(float32(u.hover.X), float32(u.hover.Y))
		p := e.ScreenToWorld(px, py)
		fmt.Fprintf(&b, " | %d,%d", int(math.Floor(p.X)), int(math.Floor(p.Y)))
	}
	return b.String()
}

// painter owns the state used only by the paint goroutine.
type painter struct {
	th          *theme.Theme
	buttons     []*CacheButton
	backdrop    *image.RGBA
	messageFace font.Face
}

func newPainter(th *theme.Theme) *painter {
	p := &painter{th: th}
	for _, k := range tool.Kinds() {
		p.buttons = append(p.buttons, &CacheButton{Button: &ToolButton{label: toolLabels[k], kind: k, th: th}})
	}
	face, err := render.Face(render.DefaultFamily, 24)
	if err != nil {
		log.Printf("message font: %v", err)
	}
	p.messageFace = face
	return p
}

// backdropFor returns a cached checkerboard covering b.
func (p *painter) backdropFor(b image.Rectangle) *image.RGBA {
	if p.backdrop == nil || p.backdrop.Bounds() != b {
		p.backdrop = image.NewRGBA(b)
		drawCheckerboard(p.backdrop, b, 8, p.th.CheckerLight, p.th.CheckerDark)
	}
	return p.backdrop
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, p *painter, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	p.paint(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paint draws a whole window into dst. It returns early once ctx is done.
func (p *painter) paint(ctx context.Context, dst *image.RGBA, st paintState) {
	th := p.th
	l := computeLayout(st.width, st.height)
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	canvas, ok := dst.SubImage(l.canvas).(*image.RGBA)
	if ok && st.frame != nil {
		m := geom.Mul(geom.Translate(float64(l.canvas.Min.X), float64(l.canvas.Min.Y)), st.view)
		world := worldRect(m, st.frame.Bounds())
		draw.Draw(canvas, world, p.backdropFor(dst.Bounds()), world.Min, draw.Src)
		xdraw.NearestNeighbor.Transform(canvas, m, st.frame, st.frame.Bounds(), draw.Over, nil)
		drawRect(canvas, world.Inset(-1), th.CanvasBorder, 1)
	}
	if ctx.Err() != nil {
		return
	}

	if st.showCursor {
		p.drawCursor(dst, l.canvas, st)
	}

	p.drawToolbar(dst, l, st)
	p.drawPanel(dst, l, st)
	draw.Draw(dst, l.status, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	drawLabel(dst, st.status, l.status.Min.X+4, l.status.Min.Y+16, th.StatusText)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) && p.messageFace != nil {
		p.drawMessage(dst, l.canvas, st.message)
	}
}

// worldRect is the screen rectangle covered by the world bounds under m.
func worldRect(m f64.Aff3, b image.Rectangle) image.Rectangle {
	lo := geom.Apply(m, geom.Pt(float64(b.Min.X), float64(b.Min.Y)))
	hi := geom.Apply(m, geom.Pt(float64(b.Max.X), float64(b.Max.Y)))
	return image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)))
}

// drawCursor outlines the tool footprint, or draws a crosshair for tools
// that ask for one.
func (p *painter) drawCursor(dst *image.RGBA, clip image.Rectangle, st paintState) {
	dc := gg.NewContextForRGBA(dst)
	dc.DrawRectangle(float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Dx()), float64(clip.Dy()))
	dc.Clip()
	x, y := float64(st.cursor.X)+0.5, float64(st.cursor.Y)+0.5
	dc.SetLineWidth(1)
	switch {
	case st.cursorRadius > 0:
		dc.DrawCircle(x, y, st.cursorRadius+1)
		dc.SetColor(color.White)
		dc.Stroke()
		dc.DrawCircle(x, y, st.cursorRadius)
		dc.SetColor(p.th.CursorOutline)
		dc.Stroke()
	case st.cursorKind == tool.CursorCrosshair:
		dc.DrawLine(x-8, y, x+8, y)
		dc.DrawLine(x, y-8, x, y+8)
		dc.SetColor(p.th.CursorOutline)
		dc.Stroke()
	}
}

func (p *painter) drawToolbar(dst *image.RGBA, l layout, st paintState) {
	th := p.th
	draw.Draw(dst, l.toolbar, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	drawLabel(dst, "LayerPaint", l.toolbar.Min.X+4, l.toolbar.Min.Y+14, th.Foreground)
	for i, cb := range p.buttons {
		cb.SetRect(l.toolRect(i))
		state := StateDefault
		switch k := tool.Kind(i); {
		case k == st.active:
			state = StateActive
		case i == st.hoverTool:
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

func (p *painter) drawPanel(dst *image.RGBA, l layout, st paintState) {
	th := p.th
	draw.Draw(dst, l.panel, image.NewUniform(th.PanelBackground), image.Point{}, draw.Src)
	drawLabel(dst, "Layers", l.panel.Min.X+4, l.panel.Min.Y+14, th.Foreground)
	for i, info := range st.layers {
		row := l.layerRow(i)
		if row.Min.Y >= l.panel.Max.Y {
			break
		}
		if i == st.activeLayer {
			draw.Draw(dst, row, image.NewUniform(th.LayerActive), image.Point{}, draw.Src)
		}
		eye := eyeRect(row)
		text := th.LayerText
		if info.visible {
			draw.Draw(dst, eye.Inset(3), image.NewUniform(th.LayerText), image.Point{}, draw.Src)
		} else {
			text = th.LayerHidden
		}
		drawRect(dst, eye, text, 1)
		label := info.name
		if info.opacity < 1 {
			label = fmt.Sprintf("%s %d%%", label, int(math.Round(info.opacity*100)))
		}
		drawLabel(dst, label, eye.Max.X+6, row.Min.Y+15, text)
	}
}

// drawMessage shows msg in a box centred on the canvas.
func (p *painter) drawMessage(dst *image.RGBA, area image.Rectangle, msg string) {
	th := p.th
	face := p.messageFace
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	c := area.Min.Add(area.Size().Div(2))
	px := c.X - wmsg/2
	py := c.Y - (ascent+descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := color.NRGBA{th.PanelBackground.R, th.PanelBackground.G, th.PanelBackground.B, 230}
	draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

package tool

import (
	"fmt"

	"github.com/example/layerpaint/internal/geom"
)

// Manager owns one instance of every tool and enforces that exactly one is
// active. Tool parameters live on the instances, so they survive switching
// away and back.
type Manager struct {
	tools  [kindCount]Tool
	active Kind
	cursor Cursor

	Move   *Move
	Brush  *Brush
	Eraser *Eraser
	Blur   *Blur
	Crop   *Crop
	Lasso  *Lasso
	Text   *Text
}

// NewManager builds the tool set for doc and activates the move tool.
func NewManager(doc Document) *Manager {
	m := &Manager{
		Move:   NewMove(doc),
		Brush:  NewBrush(doc),
		Eraser: NewEraser(doc),
		Blur:   NewBlur(doc),
		Crop:   NewCrop(doc),
		Lasso:  NewLasso(doc),
		Text:   NewText(doc),
	}
	m.tools = [kindCount]Tool{
		KindMove:   m.Move,
		KindBrush:  m.Brush,
		KindEraser: m.Eraser,
		KindBlur:   m.Blur,
		KindCrop:   m.Crop,
		KindLasso:  m.Lasso,
		KindText:   m.Text,
	}
	m.active = KindMove
	m.cursor = m.Move.Activate()
	return m
}

// Select deactivates the current tool and activates k.
func (m *Manager) Select(k Kind) error {
	if k < 0 || k >= kindCount {
		return fmt.Errorf("unknown tool %d", int(k))
	}
	if k == m.active {
		return nil
	}
	m.tools[m.active].Deactivate()
	m.active = k
	m.cursor = m.tools[k].Activate()
	return nil
}

// ActiveKind returns the kind of the active tool.
func (m *Manager) ActiveKind() Kind { return m.active }

// Active returns the active tool.
func (m *Manager) Active() Tool { return m.tools[m.active] }

// Tool returns the instance for k.
func (m *Manager) Tool(k Kind) Tool {
	if k < 0 || k >= kindCount {
		return nil
	}
	return m.tools[k]
}

// Cursor is the affordance requested by the active tool.
func (m *Manager) Cursor() Cursor { return m.cursor }

// CursorRadius returns the active tool's footprint radius in world units, or
// zero for tools without one.
func (m *Manager) CursorRadius() float64 {
	if s, ok := m.Active().(Sized); ok {
		return s.CursorRadius()
	}
	return 0
}

// Set updates a parameter on the active tool.
func (m *Manager) Set(key, value string) error {
	return m.SetOn(m.active, key, value)
}

// SetOn updates a parameter on tool k whether or not it is active.
func (m *Manager) SetOn(k Kind, key, value string) error {
	c, ok := m.Tool(k).(Configurable)
	if !ok {
		return fmt.Errorf("%s %s: %w", k, key, ErrUnknownParam)
	}
	return c.Set(key, value)
}

func (m *Manager) PointerDown(p geom.Point)  { m.Active().PointerDown(p) }
func (m *Manager) PointerMove(p geom.Point)  { m.Active().PointerMove(p) }
func (m *Manager) PointerUp(p geom.Point)    { m.Active().PointerUp(p) }
func (m *Manager) PointerLeave(p geom.Point) { m.Active().PointerLeave(p) }

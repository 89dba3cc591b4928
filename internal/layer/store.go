package layer

import (
	"fmt"
	"image"
	"math"
)

// Store is the ordered layer list. Index 0 is the topmost layer; new layers
// are inserted there and become active. Every mutation that changes what the
// composite would look like calls the change func.
type Store struct {
	layers []*Layer
	active int
	nextID int

	width, height int
	changed       func()
}

// NewStore returns an empty store whose new blank layers are w×h.
func NewStore(w, h int) *Store {
	return &Store{active: -1, width: w, height: h}
}

// OnChange registers the func invoked after each visible mutation.
func (s *Store) OnChange(fn func()) { s.changed = fn }

func (s *Store) notify() {
	if s.changed != nil {
		s.changed()
	}
}

// SetCanvasSize changes the size used for new blank layers and for centring
// imported images.
func (s *Store) SetCanvasSize(w, h int) {
	s.width, s.height = w, h
}

// Len returns the number of layers.
func (s *Store) Len() int { return len(s.layers) }

// Layer returns the layer at index i or nil.
func (s *Store) Layer(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// Layers returns the layers top to bottom. The slice is a copy.
func (s *Store) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// ActiveIndex returns the active index, or -1 when there are no layers.
func (s *Store) ActiveIndex() int { return s.active }

// Active returns the active layer or nil.
func (s *Store) Active() *Layer { return s.Layer(s.active) }

// Add inserts a new layer on top and makes it active. An empty name is
// replaced by "Layer N". When img is non-nil the layer takes the image's size
// and is centred on the canvas; otherwise it is a transparent canvas-sized
// buffer at the origin.
func (s *Store) Add(name string, img image.Image) *Layer {
	id := s.nextID
	s.nextID++
	if name == "" {
		name = fmt.Sprintf("Layer %d", s.nextID)
	}
	var l *Layer
	if img == nil {
		l = New(id, name, s.width, s.height)
	} else {
		l = &Layer{ID: id, Name: name, Buffer: toRGBA(img), Scale: 1, Opacity: 1, Visible: true}
		w, h := l.Size()
		l.X = float64(s.width-w) / 2
		l.Y = float64(s.height-h) / 2
	}
	s.layers = append([]*Layer{l}, s.layers...)
	s.active = 0
	s.notify()
	return l
}

// DeleteActive removes the active layer. It refuses to remove the last
// remaining layer. Afterwards the same index stays active when it is still
// valid, otherwise the new bottom layer does.
func (s *Store) DeleteActive() bool {
	if s.active < 0 || len(s.layers) <= 1 {
		return false
	}
	s.layers = append(s.layers[:s.active], s.layers[s.active+1:]...)
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	s.notify()
	return true
}

// SetActive selects layer i. Out-of-range indices are ignored.
func (s *Store) SetActive(i int) bool {
	if i < 0 || i >= len(s.layers) {
		return false
	}
	s.active = i
	s.notify()
	return true
}

// SetActiveScale sets the active layer's scale. Non-positive values are
// ignored.
func (s *Store) SetActiveScale(f float64) bool {
	l := s.Active()
	if l == nil || !(f > 0) || math.IsInf(f, 0) {
		return false
	}
	l.Scale = f
	s.notify()
	return true
}

// SetActiveOpacity sets the active layer's opacity, clamped to [0,1].
func (s *Store) SetActiveOpacity(f float64) bool {
	l := s.Active()
	if l == nil || math.IsNaN(f) {
		return false
	}
	l.Opacity = math.Max(0, math.Min(1, f))
	s.notify()
	return true
}

// ToggleVisible flips the visibility of layer i.
func (s *Store) ToggleVisible(i int) bool {
	l := s.Layer(i)
	if l == nil {
		return false
	}
	l.Visible = !l.Visible
	s.notify()
	return true
}

// Rename changes the name of layer i. Empty names are rejected.
func (s *Store) Rename(i int, name string) bool {
	l := s.Layer(i)
	if l == nil || name == "" {
		return false
	}
	l.Name = name
	s.notify()
	return true
}

// Reset removes every layer and restarts id numbering at 0.
func (s *Store) Reset() {
	s.layers = nil
	s.active = -1
	s.nextID = 0
	s.notify()
}

// Changed lets callers that mutate a layer directly request a recomposite.
func (s *Store) Changed() { s.notify() }

package geom

import "golang.org/x/image/math/f64"

// Stack is a transform stack in the style of a 2D drawing context. Push
// composes a transform onto the current one and returns the func that
// restores the previous state; callers defer it so the pop happens on every
// return path.
//
// Restoring reloads the saved matrix rather than applying an inverse, so a
// push/pop pair leaves the current transform bit-for-bit unchanged.
type Stack struct {
	cur   f64.Aff3
	saved []f64.Aff3
}

// NewStack returns a stack whose current transform is the identity.
func NewStack() *Stack {
	return &Stack{cur: Identity()}
}

// Current returns the transform in effect.
func (s *Stack) Current() f64.Aff3 { return s.cur }

// Depth reports how many pushes are outstanding.
func (s *Stack) Depth() int { return len(s.saved) }

// Push applies m before the current transform (points are mapped by m first)
// and returns the matching release func. Calling release more than once has
// no further effect. Releases must happen in reverse push order.
func (s *Stack) Push(m f64.Aff3) (release func()) {
	s.saved = append(s.saved, s.cur)
	depth := len(s.saved)
	s.cur = Mul(s.cur, m)
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if len(s.saved) != depth {
			panic("geom: transform stack released out of order")
		}
		s.cur = s.saved[depth-1]
		s.saved = s.saved[:depth-1]
	}
}

// Map transforms p by the current matrix.
func (s *Stack) Map(p Point) Point { return Apply(s.cur, p) }

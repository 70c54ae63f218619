package interactive

import (
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/surface"
)

// Session is one live move or resize gesture. The anchor records the
// target's geometry and the pointer position at entry; every motion computes
// a fresh geometry from the accumulated delta, never from the previous
// motion, so rounding can't drift over a long drag.
type Session struct {
	Mode   Mode
	Target surface.Handle
	// Anchor is the full state recorded at mode entry; cancel restores
	// its geometry exactly.
	Anchor surface.State
	// Entry is the pointer position at mode entry.
	Entry geometry.Point

	// MinWidth/MinHeight clamp resize results.
	MinWidth  int
	MinHeight int

	last geometry.Rect
}

// NewSession starts a gesture on the target surface.
func NewSession(mode Mode, target surface.Handle, anchor surface.State, entry geometry.Point, minW, minH int) *Session {
	if minW < 1 {
		minW = 1
	}
	if minH < 1 {
		minH = 1
	}
	return &Session{
		Mode:      mode,
		Target:    target,
		Anchor:    anchor,
		Entry:     entry,
		MinWidth:  minW,
		MinHeight: minH,
		last:      anchor.Geometry(),
	}
}

// Motion computes the geometry for the current pointer position.
func (s *Session) Motion(p geometry.Point) geometry.Rect {
	dx := p.X - s.Entry.X
	dy := p.Y - s.Entry.Y

	anchor := s.Anchor.Geometry()
	out := anchor

	switch {
	case s.Mode == ModeMove:
		out.X = anchor.X + dx
		out.Y = anchor.Y + dy
	case s.Mode.Resizing():
		out = resize(anchor, dx, dy, s.Mode, s.MinWidth, s.MinHeight)
	}

	s.last = out
	return out
}

// Last returns the most recent geometry computed by Motion, or the anchor
// geometry if the pointer has not moved yet.
func (s *Session) Last() geometry.Rect { return s.last }

// resize applies the pointer delta to the dragged edges. Each edge is moved
// independently and clamped so it can neither cross the opposite edge nor
// shrink the surface below the minimum size; dragging a top or left edge
// moves the surface as it resizes.
func resize(anchor geometry.Rect, dx, dy int, mode Mode, minW, minH int) geometry.Rect {
	top, bottom, left, right := mode.edges()

	x1 := anchor.X
	y1 := anchor.Y
	x2 := anchor.X + anchor.Width
	y2 := anchor.Y + anchor.Height

	if top {
		y1 += dy
		if y1 > y2-minH {
			y1 = y2 - minH
		}
	} else if bottom {
		y2 += dy
		if y2 < y1+minH {
			y2 = y1 + minH
		}
	}

	if left {
		x1 += dx
		if x1 > x2-minW {
			x1 = x2 - minW
		}
	} else if right {
		x2 += dx
		if x2 < x1+minW {
			x2 = x1 + minW
		}
	}

	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

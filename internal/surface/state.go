package surface

import "github.com/lumenwm/lumen/internal/geometry"

// State is one snapshot of a surface's configurable attributes. A surface
// carries four of these: previous, current, pending and saved.
type State struct {
	X          int
	Y          int
	Width      int
	Height     int
	Activated  bool
	Maximized  bool
	Minimized  bool
	Fullscreen bool
}

// Mask selects which State fields a configure request touches.
type Mask uint32

const (
	MaskPosition Mask = 1 << iota
	MaskSize
	MaskActivated
	MaskMaximized
	MaskMinimized
	MaskFullscreen
)

// Has reports whether all bits in m are set.
func (m Mask) Has(bits Mask) bool { return m&bits == bits }

// Params carries the requested values for the fields selected by a Mask.
type Params struct {
	X          int
	Y          int
	Width      int
	Height     int
	Activated  bool
	Maximized  bool
	Minimized  bool
	Fullscreen bool

	// NoTransaction applies the state immediately instead of starting an
	// acknowledgment round. Used for live interactive feedback.
	NoTransaction bool
}

// applyMask writes the masked fields of p into next, handling the
// saved-state bookkeeping for maximize/fullscreen toggles. current is the
// state the client last acknowledged; saved is updated in place.
func applyMask(next *State, current State, saved *State, mask Mask, p Params) {
	if mask.Has(MaskPosition) {
		next.X, next.Y = p.X, p.Y
	}
	if mask.Has(MaskSize) {
		next.Width, next.Height = p.Width, p.Height
	}
	if mask.Has(MaskActivated) {
		next.Activated = p.Activated
	}
	if mask.Has(MaskMinimized) {
		// Minimize is a flag change only; geometry stays put.
		next.Minimized = p.Minimized
	}
	if mask.Has(MaskMaximized) && p.Maximized != next.Maximized {
		if p.Maximized {
			*saved = current
		} else {
			restoreGeometry(next, *saved)
		}
		next.Maximized = p.Maximized
	}
	if mask.Has(MaskFullscreen) && p.Fullscreen != next.Fullscreen {
		if p.Fullscreen {
			*saved = current
		} else {
			restoreGeometry(next, *saved)
		}
		next.Fullscreen = p.Fullscreen
	}
}

// geometryOf extracts the rect portion of a state.
func geometryOf(st State) geometry.Rect {
	return geometry.Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height}
}

// Geometry returns the rect portion of a state.
func (st State) Geometry() geometry.Rect { return geometryOf(st) }

// WithGeometry returns a copy of the state with the rect portion replaced.
func (st State) WithGeometry(r geometry.Rect) State {
	st.X, st.Y, st.Width, st.Height = r.X, r.Y, r.Width, r.Height
	return st
}

// restoreGeometry copies only the geometry out of a saved state, leaving the
// flag fields of next alone.
func restoreGeometry(next *State, saved State) {
	next.X = saved.X
	next.Y = saved.Y
	next.Width = saved.Width
	next.Height = saved.Height
}

package geometry

// Point represents a position in output coordinates.
type Point struct {
	X int
	Y int
}

// Rect represents a surface position and size in output coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rect has no usable area.
func (r Rect) Empty() bool {
	return r.Width < 1 || r.Height < 1
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether the two rects overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersection(o).Empty()
}

// Intersection returns the overlapping region of two rects. The result is
// empty when they do not overlap.
func (r Rect) Intersection(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Inset shrinks the rect by the given margins on each side.
func (r Rect) Inset(top, bottom, left, right int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
}

// ClampInto translates the rect so that as much of it as possible lies inside
// bounds. Size is never changed; a rect larger than bounds is anchored to the
// bounds origin on the overflowing axis.
func (r Rect) ClampInto(bounds Rect) Rect {
	out := r
	if out.X+out.Width > bounds.X+bounds.Width {
		out.X = bounds.X + bounds.Width - out.Width
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.Y+out.Height > bounds.Y+bounds.Height {
		out.Y = bounds.Y + bounds.Height - out.Height
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	return out
}

package snapshot

import (
	"time"

	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/platform"
)

// Capture builds a snapshot of a surface from the renderer's presented
// buffer. A capture failure yields a snapshot without a buffer; the caller
// keeps going and accepts a possible one-frame glitch for that surface
// rather than blocking the whole workspace.
func Capture(r platform.Renderer, id platform.SurfaceID, kind Kind, bounds geometry.Rect) *Snapshot {
	buf, err := r.CaptureBuffer(id)
	if err != nil {
		buf = nil
	}
	return &Snapshot{
		Surface:   id,
		Kind:      kind,
		Transform: TransformNormal,
		Bounds:    bounds,
		Region:    geometry.Rect{X: 0, Y: 0, Width: bounds.Width, Height: bounds.Height},
		Buffer:    buf,
		TakenAt:   time.Now(),
	}
}

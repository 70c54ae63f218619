package snapshot

import (
	"time"

	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/platform"
)

// Kind distinguishes what a snapshot captured.
type Kind int

const (
	// KindContent is the surface's client buffer.
	KindContent Kind = iota
	// KindDecoration is the compositor-drawn frame around it.
	KindDecoration
)

// Transform is the output transform the buffer was presented with.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
)

// Snapshot is an immutable, timestamped capture of a surface's presented
// content, held for the duration of a transaction so the old frame stays on
// screen until the new configuration commits.
type Snapshot struct {
	Surface   platform.SurfaceID
	Kind      Kind
	Transform Transform
	// Bounds is the snapshot's position and size at capture time.
	Bounds geometry.Rect
	// Region is the visible sub-region of the buffer.
	Region geometry.Rect
	// Buffer is the reference-counted presented buffer; may be nil when
	// capture failed and the transaction proceeds without one.
	Buffer  *platform.BufferRef
	TakenAt time.Time

	list *List
}

// InList reports whether the snapshot currently belongs to a list.
func (s *Snapshot) InList() bool { return s.list != nil }

// release drops the buffer reference. The snapshot stays valid as metadata
// but no longer pins the buffer.
func (s *Snapshot) release() {
	if s.Buffer != nil {
		s.Buffer.Release()
		s.Buffer = nil
	}
}

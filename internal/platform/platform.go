package platform

import (
	"github.com/lumenwm/lumen/internal/geometry"
)

// SurfaceID is a stable surface identifier shared with collaborators. It is
// the same value as the surface arena handle.
type SurfaceID uint64

// OutputInfo describes a display output and its total area.
type OutputInfo struct {
	Name   string
	Bounds geometry.Rect
}

// ConfigureEvent is the state delta sent to a client when the compositor
// requests a new configuration. Serial ties the client's acknowledgment back
// to the request that produced it.
type ConfigureEvent struct {
	Serial     uint32
	Bounds     geometry.Rect
	Activated  bool
	Maximized  bool
	Fullscreen bool
}

// Renderer abstracts the render backend. The window-management core only
// schedules redraws and captures presented buffers; presentation itself is
// owned by the backend.
type Renderer interface {
	// ScheduleRedraw asks the backend to repaint the named output.
	ScheduleRedraw(output string)
	// FrameReady reports whether the output can accept a new frame.
	FrameReady(output string) bool
	// CaptureBuffer returns a reference to the currently-presented buffer
	// of a surface. May fail under memory pressure; callers must tolerate
	// a nil buffer.
	CaptureBuffer(id SurfaceID) (*BufferRef, error)
}

// ClientNotifier delivers configure and close events to a surface's client.
type ClientNotifier interface {
	SendConfigure(id SurfaceID, ev ConfigureEvent)
	SendClose(id SurfaceID)
}

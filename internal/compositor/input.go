package compositor

import (
	"time"

	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/interactive"
	"github.com/lumenwm/lumen/internal/surface"
	"github.com/lumenwm/lumen/internal/workspace"
)

// HandlePointerMotion routes a pointer update. While the device drives an
// interactive gesture the motion goes to the gesture's workspace regardless
// of which output the pointer is over; otherwise it goes to the workspace
// whose output contains the point.
func (c *Compositor) HandlePointerMotion(device string, p geometry.Point, at time.Time) {
	c.mu.Lock()
	ws := c.gestures[device]
	if ws == nil {
		ws = c.workspaceAtLocked(p)
	}
	c.mu.Unlock()

	if ws != nil {
		ws.PointerMotion(p, at)
	}
}

// PointerWarp moves the pointer without counting as user activity.
func (c *Compositor) PointerWarp(device string, p geometry.Point) {
	c.mu.Lock()
	ws := c.gestures[device]
	if ws == nil {
		ws = c.workspaceAtLocked(p)
	}
	c.mu.Unlock()

	if ws != nil {
		ws.PointerWarp(p)
	}
}

func (c *Compositor) workspaceAtLocked(p geometry.Point) *workspace.Workspace {
	for _, ws := range c.workspaces {
		if ws.Output().Bounds.Contains(p) {
			return ws
		}
	}
	return nil
}

// BeginMove starts a move gesture for the surface on the given device.
func (c *Compositor) BeginMove(device string, h surface.Handle) {
	c.beginGesture(device, h, func(ws *workspace.Workspace) {
		ws.BeginMove(h)
	})
}

// BeginResize starts a directional resize gesture for the surface on the
// given device.
func (c *Compositor) BeginResize(device string, h surface.Handle, mode interactive.Mode) {
	c.beginGesture(device, h, func(ws *workspace.Workspace) {
		ws.BeginResize(h, mode)
	})
}

// beginGesture enforces the one-gesture-per-device rule: starting a new
// gesture commits whatever the device was already driving, even on another
// workspace.
func (c *Compositor) beginGesture(device string, h surface.Handle, begin func(*workspace.Workspace)) {
	c.mu.Lock()
	target := c.surfaceWS[h]
	active := c.gestures[device]
	c.mu.Unlock()

	if target == nil {
		c.log.Debug().Uint64("surface", uint64(h)).Msg("gesture on unrouted surface ignored")
		return
	}
	if active != nil && active != target {
		active.CommitInteractive()
	}

	begin(target)

	c.mu.Lock()
	if target.Mode() != interactive.ModeNormal {
		c.gestures[device] = target
	} else {
		delete(c.gestures, device)
	}
	c.mu.Unlock()
}

// CommitInteractive finishes the device's gesture through a transaction.
func (c *Compositor) CommitInteractive(device string) {
	c.mu.Lock()
	ws := c.gestures[device]
	delete(c.gestures, device)
	c.mu.Unlock()

	if ws != nil {
		ws.CommitInteractive()
	}
}

// CancelInteractive aborts the device's gesture, restoring the entry
// geometry.
func (c *Compositor) CancelInteractive(device string) {
	c.mu.Lock()
	ws := c.gestures[device]
	delete(c.gestures, device)
	c.mu.Unlock()

	if ws != nil {
		ws.CancelInteractive()
	}
}

// FocusSurface moves keyboard focus to the surface on its own workspace.
func (c *Compositor) FocusSurface(h surface.Handle) {
	if ws, ok := c.workspaceFor(h); ok {
		ws.FocusSurface(h)
	}
}

// FocusSurfaceRelative cycles focus within the named workspace.
func (c *Compositor) FocusSurfaceRelative(workspaceName string, delta int) surface.Handle {
	c.mu.Lock()
	ws, ok := c.workspaces[workspaceName]
	c.mu.Unlock()
	if !ok {
		return surface.None
	}
	return ws.FocusSurfaceRelative(delta)
}

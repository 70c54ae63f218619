package compositor

import (
	"github.com/pkg/errors"

	"github.com/lumenwm/lumen/internal/surface"
)

// CreateToplevel allocates a toplevel surface on the named workspace.
func (c *Compositor) CreateToplevel(workspaceName string) (surface.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws, ok := c.workspaces[workspaceName]
	if !ok {
		return surface.None, errors.Wrap(ErrNoWorkspace, workspaceName)
	}
	s := c.arena.Add(surface.KindToplevel, surface.Parent{
		Kind:      surface.ParentWorkspace,
		Workspace: workspaceName,
	})
	c.surfaceWS[s.Handle] = ws
	ws.AddSurface(s.Handle)
	c.log.Debug().Uint64("surface", uint64(s.Handle)).Str("workspace", workspaceName).Msg("toplevel created")
	return s.Handle, nil
}

// CreateChild allocates a subsurface or popup under an existing master. The
// child lives on its master's workspace and never outlives it.
func (c *Compositor) CreateChild(master surface.Handle, kind surface.Kind) (surface.Handle, error) {
	if kind == surface.KindToplevel {
		return surface.None, errors.New("compositor: a toplevel cannot be a child")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ws, ok := c.surfaceWS[master]
	if !ok {
		return surface.None, surface.ErrNotFound
	}
	s := c.arena.Add(kind, surface.Parent{Kind: surface.ParentSurface, Surface: master})
	c.surfaceWS[s.Handle] = ws
	return s.Handle, nil
}

// HandleMap records a surface's first frame.
func (c *Compositor) HandleMap(h surface.Handle) {
	if ws, ok := c.workspaceFor(h); ok {
		ws.SurfaceMapped(h)
	}
}

// HandleUnmap hides a surface without destroying it.
func (c *Compositor) HandleUnmap(h surface.Handle) {
	if ws, ok := c.workspaceFor(h); ok {
		ws.SurfaceUnmapped(h)
	}
}

// HandleDestroy destroys a surface and its whole subtree. Every handle in
// the subtree is detached from its workspace first, so a child awaiting
// acknowledgment does not leave its round counting a dead participant.
// Destroying an already-destroyed handle is a no-op.
func (c *Compositor) HandleDestroy(h surface.Handle) {
	handles := c.arena.Subtree(h)
	if len(handles) == 0 {
		return
	}

	c.mu.Lock()
	ws := c.surfaceWS[h]
	for _, dh := range handles {
		delete(c.surfaceWS, dh)
	}
	c.mu.Unlock()

	if ws != nil {
		for _, dh := range handles {
			ws.RemoveSurface(dh)
		}
	}
	c.arena.Remove(h)
}

// Configure records a requested state change for a surface.
func (c *Compositor) Configure(h surface.Handle, mask surface.Mask, p surface.Params) {
	ws, ok := c.workspaceFor(h)
	if !ok {
		c.log.Debug().Uint64("surface", uint64(h)).Msg("configure for unrouted surface dropped")
		return
	}
	ws.Configure(h, mask, p)
}

// StateObtain returns a surface's current state.
func (c *Compositor) StateObtain(h surface.Handle) (surface.State, error) {
	ws, ok := c.workspaceFor(h)
	if !ok {
		return surface.State{}, surface.ErrNotFound
	}
	return ws.StateObtain(h)
}

// HandleCommit processes a client commit carrying an acknowledgment serial.
func (c *Compositor) HandleCommit(h surface.Handle, serial uint32) {
	ws, ok := c.workspaceFor(h)
	if !ok {
		c.log.Debug().Uint64("surface", uint64(h)).Msg("commit for unrouted surface dropped")
		return
	}
	ws.Ack(h, serial)
}

// RequestClose asks a surface's client to close it. The surface is destroyed
// only when the client follows up, or when its workspace goes away.
func (c *Compositor) RequestClose(h surface.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.arena.Get(h)
	if err != nil {
		return
	}
	c.notifier.SendClose(s.ID())
}

// SetSurfaceMeta updates a surface's title and application id.
func (c *Compositor) SetSurfaceMeta(h surface.Handle, title, appID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.arena.Get(h)
	if err != nil {
		return
	}
	s.Title = title
	s.AppID = appID
}

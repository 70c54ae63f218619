// Package compositor ties the window-management core together: it owns the
// surface arena and the per-output workspaces, and routes every external
// event to the workspace that must handle it.
package compositor

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/lumenwm/lumen/internal/config"
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/platform"
	"github.com/lumenwm/lumen/internal/surface"
	"github.com/lumenwm/lumen/internal/workspace"
	"github.com/lumenwm/lumen/pkg/logger"
)

// ErrNoWorkspace is returned when an operation names a workspace the
// compositor does not know.
var ErrNoWorkspace = errors.New("compositor: no such workspace")

// Compositor is the event hub. All entry points are safe for concurrent use;
// workspace timers fire on their own goroutines and meet the same locks.
type Compositor struct {
	mu sync.Mutex

	arena      *surface.Arena
	workspaces map[string]*workspace.Workspace

	// surfaceWS routes a surface handle to its owning workspace. Children
	// route to their master's workspace.
	surfaceWS map[surface.Handle]*workspace.Workspace

	// gestures tracks, per pointer device, the workspace holding an
	// active interactive mode. At most one per device.
	gestures map[string]*workspace.Workspace

	renderer platform.Renderer
	notifier platform.ClientNotifier
	cfg      *config.Config
	log      *logger.Logger
}

// New creates an empty compositor. Workspaces are added as outputs appear.
func New(renderer platform.Renderer, notifier platform.ClientNotifier,
	cfg *config.Config, log *logger.Logger) *Compositor {

	return &Compositor{
		arena:      surface.NewArena(),
		workspaces: make(map[string]*workspace.Workspace),
		surfaceWS:  make(map[surface.Handle]*workspace.Workspace),
		gestures:   make(map[string]*workspace.Workspace),
		renderer:   renderer,
		notifier:   notifier,
		cfg:        cfg,
		log:        log.With("component", "compositor"),
	}
}

// AddWorkspace creates a workspace bound to the given output. Adding the
// same name twice replaces nothing and returns the existing workspace.
func (c *Compositor) AddWorkspace(name string, output platform.OutputInfo) *workspace.Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ws, ok := c.workspaces[name]; ok {
		return ws
	}
	ws := workspace.New(name, output, c.arena, c.renderer, c.notifier, c.cfg, c.log)
	c.workspaces[name] = ws
	c.log.Info().Str("workspace", name).Str("output", output.Name).Msg("workspace added")
	return ws
}

// RemoveWorkspace tears a workspace down. Its surfaces are asked to close
// and destroyed; an output unplug does not leave orphans behind.
func (c *Compositor) RemoveWorkspace(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws, ok := c.workspaces[name]
	if !ok {
		return
	}
	for _, h := range ws.Surfaces() {
		if s, err := c.arena.Get(h); err == nil {
			c.notifier.SendClose(s.ID())
		}
		for _, dh := range c.arena.Subtree(h) {
			ws.RemoveSurface(dh)
			delete(c.surfaceWS, dh)
		}
		c.arena.Remove(h)
	}
	for device, active := range c.gestures {
		if active == ws {
			delete(c.gestures, device)
		}
	}
	delete(c.workspaces, name)
	c.log.Info().Str("workspace", name).Msg("workspace removed")
}

// Workspace looks a workspace up by name.
func (c *Compositor) Workspace(name string) (*workspace.Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws, ok := c.workspaces[name]
	return ws, ok
}

// Workspaces returns the current workspaces in no particular order.
func (c *Compositor) Workspaces() []*workspace.Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*workspace.Workspace, 0, len(c.workspaces))
	for _, ws := range c.workspaces {
		out = append(out, ws)
	}
	return out
}

// NotifyOutputMode applies a new output geometry to the named workspace.
func (c *Compositor) NotifyOutputMode(name string, bounds geometry.Rect) error {
	c.mu.Lock()
	ws, ok := c.workspaces[name]
	c.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrNoWorkspace, name)
	}
	ws.NotifyOutputMode(bounds)
	return nil
}

// SetPanel updates the named workspace's panel reservation.
func (c *Compositor) SetPanel(name string, bounds geometry.Rect, visible bool) error {
	c.mu.Lock()
	ws, ok := c.workspaces[name]
	c.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrNoWorkspace, name)
	}
	ws.SetPanel(bounds, visible)
	return nil
}

// ReloadConfig validates and distributes a new configuration to every
// workspace. An invalid configuration is rejected whole; the old one stays.
func (c *Compositor) ReloadConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "reload config")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	for _, ws := range c.workspaces {
		ws.UpdateConfig(cfg)
	}
	c.log.Info().Msg("configuration reloaded")
	return nil
}

// workspaceFor resolves the workspace owning a surface.
func (c *Compositor) workspaceFor(h surface.Handle) (*workspace.Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws, ok := c.surfaceWS[h]
	return ws, ok
}

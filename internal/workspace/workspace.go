package workspace

import (
	"sync"
	"time"

	"github.com/lumenwm/lumen/internal/config"
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/interactive"
	"github.com/lumenwm/lumen/internal/platform"
	"github.com/lumenwm/lumen/internal/snapshot"
	"github.com/lumenwm/lumen/internal/surface"
	"github.com/lumenwm/lumen/pkg/logger"
)

// Panel is the reserved screen-edge region of a workspace.
type Panel struct {
	Bounds  geometry.Rect
	Visible bool
}

// Workspace is a coordinate-frame container of surfaces bound to one output.
// It owns the transaction coordinator, the focus list, the panel reservation
// and the pointer tracking state.
type Workspace struct {
	mu sync.Mutex

	name   string
	output platform.OutputInfo
	panel  Panel

	arena    *surface.Arena
	renderer platform.Renderer
	notifier platform.ClientNotifier
	cfg      *config.Config
	log      *logger.Logger

	// surfaces is the policy-ordered toplevel list. List position has no
	// effect on the transaction protocol.
	surfaces []surface.Handle
	focused  surface.Handle

	mode *interactive.Session

	pointer pointerState

	tx transaction
}

type pointerState struct {
	pos        geometry.Point
	lastMoveAt time.Time
	idleTimer  *time.Timer
	idleGen    int
	onIdle     func()
}

// New creates a workspace bound to the given output. The panel reservation
// starts from the configured defaults.
func New(name string, output platform.OutputInfo, arena *surface.Arena,
	renderer platform.Renderer, notifier platform.ClientNotifier,
	cfg *config.Config, log *logger.Logger) *Workspace {

	w := &Workspace{
		name:     name,
		output:   output,
		arena:    arena,
		renderer: renderer,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With("workspace", name),
	}
	w.panel = defaultPanel(cfg, output.Bounds)
	w.tx.snapshots = snapshot.NewList()
	return w
}

func defaultPanel(cfg *config.Config, bounds geometry.Rect) Panel {
	p := Panel{Visible: cfg.Panel.PanelVisible()}
	h := cfg.Panel.Height
	switch cfg.Panel.Position {
	case config.PanelBottom:
		p.Bounds = geometry.Rect{X: bounds.X, Y: bounds.Y + bounds.Height - h, Width: bounds.Width, Height: h}
	default:
		p.Bounds = geometry.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: h}
	}
	return p
}

// Name returns the workspace name.
func (w *Workspace) Name() string { return w.name }

// Output returns the bound output.
func (w *Workspace) Output() platform.OutputInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.output
}

// UsableArea is the output area minus the visible panel reservation; the
// coordinate frame surfaces are placed in.
func (w *Workspace) UsableArea() geometry.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.usableAreaLocked()
}

func (w *Workspace) usableAreaLocked() geometry.Rect {
	area := w.output.Bounds
	if !w.panel.Visible || w.panel.Bounds.Height <= 0 {
		return area
	}
	if w.panel.Bounds.Y <= area.Y {
		return area.Inset(w.panel.Bounds.Height, 0, 0, 0)
	}
	return area.Inset(0, w.panel.Bounds.Height, 0, 0)
}

// SetPanel updates the panel reservation.
func (w *Workspace) SetPanel(bounds geometry.Rect, visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.panel = Panel{Bounds: bounds, Visible: visible}
	w.renderer.ScheduleRedraw(w.output.Name)
}

// PanelState returns the current panel reservation.
func (w *Workspace) PanelState() Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panel
}

// NotifyOutputMode applies a new output geometry. Maximized and fullscreen
// surfaces are reconfigured to the new frame and out-of-bounds surfaces are
// clamped back in, all within one transaction round.
func (w *Workspace) NotifyOutputMode(bounds geometry.Rect) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.output.Bounds = bounds
	w.panel = defaultPanel(w.cfg, bounds)
	usable := w.usableAreaLocked()

	for _, h := range w.surfaces {
		s, err := w.arena.Get(h)
		if err != nil || !s.Mapped {
			continue
		}
		switch {
		case s.Current.Fullscreen:
			w.configureLocked(s, surface.MaskPosition|surface.MaskSize, surface.Params{
				X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height,
			})
		case s.Current.Maximized:
			w.configureLocked(s, surface.MaskPosition|surface.MaskSize, surface.Params{
				X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height,
			})
		default:
			clamped := s.Current.Geometry().ClampInto(usable)
			if clamped != s.Current.Geometry() {
				w.configureLocked(s, surface.MaskPosition, surface.Params{X: clamped.X, Y: clamped.Y})
			}
		}
	}
}

// AddSurface appends a toplevel to the workspace's surface list.
func (w *Workspace) AddSurface(h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.surfaces {
		if existing == h {
			return
		}
	}
	w.surfaces = append(w.surfaces, h)
	w.updateVisibilityLocked()
}

// RemoveSurface detaches a toplevel. Removing a surface that is still
// awaiting acknowledgment is a programming error; it is handled defensively
// by dropping the participant and recomputing the sentinel.
func (w *Workspace) RemoveSurface(h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, existing := range w.surfaces {
		if existing == h {
			w.surfaces = append(w.surfaces[:i], w.surfaces[i+1:]...)
			break
		}
	}
	if w.focused == h {
		w.focused = surface.None
	}
	if w.mode != nil && w.mode.Target == h {
		w.mode = nil
	}

	if s, err := w.arena.Get(h); err == nil && s.TxRunning {
		w.log.Error().Uint64("surface", uint64(h)).
			Msg("surface removed while transaction running")
		s.DropPending()
		w.dropParticipantLocked(h)
	}
}

// RepositionSurface moves a surface to the given index in the policy order.
func (w *Workspace) RepositionSurface(h surface.Handle, index int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur := -1
	for i, existing := range w.surfaces {
		if existing == h {
			cur = i
			break
		}
	}
	if cur < 0 {
		return
	}
	w.surfaces = append(w.surfaces[:cur], w.surfaces[cur+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(w.surfaces) {
		index = len(w.surfaces)
	}
	rest := append([]surface.Handle{h}, w.surfaces[index:]...)
	w.surfaces = append(w.surfaces[:index], rest...)
}

// Surfaces returns a copy of the policy-ordered surface list.
func (w *Workspace) Surfaces() []surface.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]surface.Handle, len(w.surfaces))
	copy(out, w.surfaces)
	return out
}

// SurfaceMapped records a surface's first frame and recomputes visibility.
func (w *Workspace) SurfaceMapped(h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil {
		return
	}
	s.Mapped = true
	w.updateVisibilityLocked()
	w.renderer.ScheduleRedraw(w.output.Name)
}

// SurfaceUnmapped clears the mapped flag.
func (w *Workspace) SurfaceUnmapped(h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil {
		return
	}
	s.Mapped = false
	s.Visible = false
	w.renderer.ScheduleRedraw(w.output.Name)
}

// updateVisibilityLocked marks each surface visible when it is mapped and
// intersects the output.
func (w *Workspace) updateVisibilityLocked() {
	for _, h := range w.surfaces {
		s, err := w.arena.Get(h)
		if err != nil {
			continue
		}
		s.Visible = s.Mapped && !s.Current.Minimized &&
			s.Current.Geometry().Intersects(w.output.Bounds)
	}
}

// UpdateConfig swaps in a reloaded configuration. The panel reservation is
// rebuilt from the new defaults; a transaction already in flight keeps the
// timeout it was armed with.
func (w *Workspace) UpdateConfig(cfg *config.Config) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg = cfg
	w.panel = defaultPanel(cfg, w.output.Bounds)
}

package workspace

import (
	"github.com/lumenwm/lumen/internal/surface"
)

// Focused returns the handle of the focused surface, or surface.None.
func (w *Workspace) Focused() surface.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// FocusSurface moves keyboard focus to the given surface. The activation
// flags travel through the normal transaction protocol so both clients
// repaint their decorations in the same frame.
func (w *Workspace) FocusSurface(h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focusSurfaceLocked(h)
}

func (w *Workspace) focusSurfaceLocked(h surface.Handle) {
	s, err := w.arena.Get(h)
	if err != nil || !s.Mapped {
		w.log.Debug().Uint64("surface", uint64(h)).Msg("focus request for unavailable surface dropped")
		return
	}
	if w.focused == h {
		return
	}

	if old, err := w.arena.Get(w.focused); err == nil && old.Current.Activated {
		w.configureLocked(old, surface.MaskActivated, surface.Params{Activated: false})
	}
	w.configureLocked(s, surface.MaskActivated, surface.Params{Activated: true})
	w.focused = h
}

// FocusSurfaceRelative cycles focus through the mapped, visible surfaces,
// forward for positive delta and backward for negative, wrapping at either
// end. Returns the newly focused handle, or surface.None when the
// workspace has nothing focusable.
func (w *Workspace) FocusSurfaceRelative(delta int) surface.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	candidates := make([]surface.Handle, 0, len(w.surfaces))
	for _, h := range w.surfaces {
		s, err := w.arena.Get(h)
		if err != nil || !s.Mapped || !s.Visible {
			continue
		}
		candidates = append(candidates, h)
	}
	if len(candidates) == 0 {
		return surface.None
	}

	cur := -1
	for i, h := range candidates {
		if h == w.focused {
			cur = i
			break
		}
	}

	n := len(candidates)
	var next int
	if cur < 0 {
		// Nothing focused yet; forward starts at the head, backward at
		// the tail.
		if delta >= 0 {
			next = 0
		} else {
			next = n - 1
		}
	} else {
		next = ((cur+delta)%n + n) % n
	}

	w.focusSurfaceLocked(candidates[next])
	return candidates[next]
}

package workspace

import (
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/interactive"
	"github.com/lumenwm/lumen/internal/surface"
)

// Mode returns the workspace's current interactive mode.
func (w *Workspace) Mode() interactive.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mode == nil {
		return interactive.ModeNormal
	}
	return w.mode.Mode
}

// BeginMove enters move mode for the given surface. An active gesture is
// committed first.
func (w *Workspace) BeginMove(h surface.Handle) {
	w.beginInteractive(interactive.ModeMove, h)
}

// BeginResize enters a directional resize mode for the given surface. An
// active gesture is committed first.
func (w *Workspace) BeginResize(h surface.Handle, mode interactive.Mode) {
	if !mode.Resizing() {
		w.log.Debug().Str("mode", mode.String()).Msg("begin resize with non-resize mode ignored")
		return
	}
	w.beginInteractive(mode, h)
}

func (w *Workspace) beginInteractive(mode interactive.Mode, h surface.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil || !s.Mapped {
		w.log.Debug().Uint64("surface", uint64(h)).Msg("interactive mode on unavailable surface ignored")
		return
	}

	if w.mode != nil {
		w.commitInteractiveLocked()
	}

	// The session's anchor records the entry state; it doubles as the
	// resize base and the cancel target. Saved stays untouched so a later
	// un-maximize still restores the pre-maximize geometry.
	w.mode = interactive.NewSession(mode, h, s.Current, w.pointer.pos,
		w.cfg.Surfaces.MinWidth, w.cfg.Surfaces.MinHeight)

	w.log.Debug().
		Uint64("surface", uint64(h)).
		Str("mode", mode.String()).
		Msg("interactive mode entered")
}

// motionInteractiveLocked feeds a pointer position into the active gesture
// and applies the resulting geometry immediately, outside any transaction.
func (w *Workspace) motionInteractiveLocked(p geometry.Point) {
	if w.mode == nil {
		return
	}
	s, err := w.arena.Get(w.mode.Target)
	if err != nil {
		w.mode = nil
		return
	}

	rect := w.mode.Motion(p)
	w.configureImmediateLocked(s, surface.MaskPosition|surface.MaskSize, surface.Params{
		X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
		NoTransaction: true,
	})
}

// CommitInteractive applies the gesture's final geometry through a normal
// transaction, so neighbouring surfaces get a chance to react, and returns
// to normal mode.
func (w *Workspace) CommitInteractive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commitInteractiveLocked()
}

func (w *Workspace) commitInteractiveLocked() {
	if w.mode == nil {
		return
	}
	sess := w.mode
	w.mode = nil

	s, err := w.arena.Get(sess.Target)
	if err != nil {
		return
	}

	rect := sess.Last()
	w.configureLocked(s, surface.MaskPosition|surface.MaskSize, surface.Params{
		X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
	})
	w.log.Debug().Uint64("surface", uint64(sess.Target)).Msg("interactive mode committed")
}

// CancelInteractive reverts the target to the geometry recorded at mode
// entry, exactly, and returns to normal mode.
func (w *Workspace) CancelInteractive() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mode == nil {
		return
	}
	sess := w.mode
	w.mode = nil

	s, err := w.arena.Get(sess.Target)
	if err != nil {
		return
	}

	anchor := sess.Anchor.Geometry()
	w.configureImmediateLocked(s, surface.MaskPosition|surface.MaskSize, surface.Params{
		X: anchor.X, Y: anchor.Y, Width: anchor.Width, Height: anchor.Height,
		NoTransaction: true,
	})
	w.log.Debug().Uint64("surface", uint64(sess.Target)).Msg("interactive mode cancelled")
}

package workspace

import (
	"time"

	"github.com/lumenwm/lumen/internal/geometry"
)

// PointerMotion records a pointer position update. Motion re-arms the idle
// timer and, while an interactive mode is active, drives the live gesture.
func (w *Workspace) PointerMotion(p geometry.Point, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pointer.pos = p
	w.pointer.lastMoveAt = at
	w.armIdleTimerLocked()
	w.motionInteractiveLocked(p)
}

// PointerWarp moves the pointer without treating it as user activity; the
// idle timer is not re-armed.
func (w *Workspace) PointerWarp(p geometry.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pointer.pos = p
}

// PointerPosition returns the last known pointer position.
func (w *Workspace) PointerPosition() geometry.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pointer.pos
}

// SetIdleHandler registers the callback invoked when the pointer has been
// still for the configured idle timeout.
func (w *Workspace) SetIdleHandler(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pointer.onIdle = fn
}

// armIdleTimerLocked restarts the single-shot idle timer. The generation
// counter keeps a timer that raced with a later motion from firing against
// stale state.
func (w *Workspace) armIdleTimerLocked() {
	timeout := w.cfg.Pointer.IdleTimeout()
	if timeout <= 0 {
		return
	}

	if w.pointer.idleTimer != nil {
		w.pointer.idleTimer.Stop()
	}
	w.pointer.idleGen++
	gen := w.pointer.idleGen
	w.pointer.idleTimer = time.AfterFunc(timeout, func() {
		w.pointerIdleFired(gen)
	})
}

func (w *Workspace) pointerIdleFired(gen int) {
	w.mu.Lock()
	if gen != w.pointer.idleGen || w.pointer.onIdle == nil {
		w.mu.Unlock()
		return
	}
	w.pointer.idleTimer = nil
	fn := w.pointer.onIdle
	w.mu.Unlock()

	fn()
}

package workspace

import (
	"time"

	"github.com/lumenwm/lumen/internal/snapshot"
	"github.com/lumenwm/lumen/internal/surface"
)

// txPhase is the coordinator state.
type txPhase int

const (
	txIdle txPhase = iota
	txCollecting
	txCommitting
)

// transaction is the per-workspace coordination state for one acknowledgment
// round. The sentinel counts participants still awaited; the snapshot list
// pins the pre-transaction frame; the watchdog bounds how long a stalled
// client can hold the round open.
type transaction struct {
	phase        txPhase
	round        uint64
	sentinel     int
	participants []surface.Handle
	snapshots    *snapshot.List
	panelSaved   Panel
	startedAt    time.Time
	watchdog     *time.Timer
	watchdogGen  int
	serial       uint32
	deferred     []deferredConfigure
}

type deferredConfigure struct {
	handle surface.Handle
	mask   surface.Mask
	params surface.Params
}

// Configure records a requested state change for a surface. Transactional
// requests open or extend the workspace's acknowledgment round; requests
// with NoTransaction set apply immediately. Requests for unknown (already
// destroyed) surfaces are dropped silently.
func (w *Workspace) Configure(h surface.Handle, mask surface.Mask, p surface.Params) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil {
		w.log.Debug().Uint64("surface", uint64(h)).Msg("configure for unknown surface dropped")
		return
	}
	if p.NoTransaction {
		w.configureImmediateLocked(s, mask, p)
		return
	}
	w.configureLocked(s, mask, p)
}

// TransactionStart opens an acknowledgment round with the surface's
// configure request. It is the explicit form of a transactional Configure
// for collaborators that drive rounds by name; a round already collecting is
// simply extended.
func (w *Workspace) TransactionStart(h surface.Handle, mask surface.Mask, p surface.Params) {
	p.NoTransaction = false
	w.Configure(h, mask, p)
}

// TransactionUpdate adds a further configure to the open round. Identical to
// TransactionStart; the two names exist so callers can express intent.
func (w *Workspace) TransactionUpdate(h surface.Handle, mask surface.Mask, p surface.Params) {
	p.NoTransaction = false
	w.Configure(h, mask, p)
}

// TransactionCommit commits the open round immediately without waiting for
// the remaining acknowledgments. Participants that have not acknowledged
// keep their last acknowledged state, exactly as on a watchdog commit. A
// no-op when no round is collecting.
func (w *Workspace) TransactionCommit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tx.phase != txCollecting {
		return
	}
	w.commitLocked(true)
}

// StateObtain returns the surface's current (acknowledged) state.
func (w *Workspace) StateObtain(h surface.Handle) (surface.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil {
		return surface.State{}, err
	}
	return s.Current, nil
}

// configureImmediateLocked applies a no-transaction configure straight to
// the current state; used for live interactive feedback, where waiting for
// an acknowledgment round would make dragging feel detached.
func (w *Workspace) configureImmediateLocked(s *surface.Surface, mask surface.Mask, p surface.Params) {
	mask, p = w.expandStateBoundsLocked(s, mask, p)
	s.ApplyDirect(mask, p)
	w.updateVisibilityLocked()
	w.renderer.ScheduleRedraw(w.output.Name)
}

func (w *Workspace) configureLocked(s *surface.Surface, mask surface.Mask, p surface.Params) {
	mask, p = w.expandStateBoundsLocked(s, mask, p)

	if w.tx.phase == txCommitting {
		// Arrived while promoting the previous round; replayed the
		// moment commit finishes so there is no idle gap.
		w.tx.deferred = append(w.tx.deferred, deferredConfigure{handle: s.Handle, mask: mask, params: p})
		return
	}
	if w.tx.phase == txIdle {
		w.beginCollectLocked()
	}

	if !s.TxRunning {
		s.TxRunning = true
		s.TxRound = w.tx.round
		s.TxAcked = false
		s.Previous = s.Current
		s.Pending = s.Current
		w.tx.participants = append(w.tx.participants, s.Handle)
	} else if s.TxAcked {
		// Reconfigured within the same round: the earlier ack no
		// longer covers the pending state.
		s.TxAcked = false
	}

	s.ApplyConfigure(mask, p)

	w.tx.serial++
	s.TxSerial = w.tx.serial
	w.notifier.SendConfigure(s.ID(), s.ConfigureEvent(s.TxSerial))

	w.recomputeSentinelLocked()
}

// expandStateBoundsLocked fills in the geometry implied by maximize and
// fullscreen requests: the usable area and the full output respectively.
func (w *Workspace) expandStateBoundsLocked(s *surface.Surface, mask surface.Mask, p surface.Params) (surface.Mask, surface.Params) {
	if mask.Has(surface.MaskFullscreen) && p.Fullscreen && !s.Current.Fullscreen {
		b := w.output.Bounds
		p.X, p.Y, p.Width, p.Height = b.X, b.Y, b.Width, b.Height
		mask |= surface.MaskPosition | surface.MaskSize
	} else if mask.Has(surface.MaskMaximized) && p.Maximized && !s.Current.Maximized {
		u := w.usableAreaLocked()
		p.X, p.Y, p.Width, p.Height = u.X, u.Y, u.Width, u.Height
		mask |= surface.MaskPosition | surface.MaskSize
	}
	return mask, p
}

// beginCollectLocked opens a new round: rollback snapshots first, then the
// bookkeeping, then the watchdog.
func (w *Workspace) beginCollectLocked() {
	w.tx.phase = txCollecting
	w.tx.round++
	w.tx.sentinel = 0
	w.tx.startedAt = time.Now()
	w.tx.panelSaved = w.panel

	for _, h := range w.surfaces {
		s, err := w.arena.Get(h)
		if err != nil || !s.Visible {
			continue
		}
		w.tx.snapshots.Append(snapshot.Capture(w.renderer, s.ID(), snapshot.KindContent, s.Current.Geometry()))
		w.tx.snapshots.Append(snapshot.Capture(w.renderer, s.ID(), snapshot.KindDecoration, s.Current.Geometry()))
	}

	w.armWatchdogLocked()
	w.log.Debug().Uint64("round", w.tx.round).Msg("transaction collecting")
}

func (w *Workspace) armWatchdogLocked() {
	w.tx.watchdogGen++
	gen := w.tx.watchdogGen
	w.tx.watchdog = time.AfterFunc(w.cfg.Transactions.Timeout(), func() {
		w.watchdogFired(gen)
	})
}

func (w *Workspace) disarmWatchdogLocked() {
	if w.tx.watchdog != nil {
		w.tx.watchdog.Stop()
		w.tx.watchdog = nil
	}
	w.tx.watchdogGen++
}

// watchdogFired forces the round to commit despite outstanding
// acknowledgments. The generation guard discards firings that raced with a
// commit; without it a stale timer could commit a later round early.
func (w *Workspace) watchdogFired(gen int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.tx.watchdogGen || w.tx.phase != txCollecting {
		return
	}
	w.log.Info().
		Uint64("round", w.tx.round).
		Int("outstanding", w.tx.sentinel).
		Msg("transaction watchdog fired, committing")
	w.commitLocked(true)
}

// Ack counts a client's acknowledgment of its pending configure. Each
// surface counts once per round; duplicate, late and stale-serial acks are
// ignored. Reaching zero outstanding participants commits the round.
func (w *Workspace) Ack(h surface.Handle, serial uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.arena.Get(h)
	if err != nil {
		w.log.Debug().Uint64("surface", uint64(h)).Msg("ack for unknown surface dropped")
		return
	}
	if !s.TxRunning || s.TxRound != w.tx.round || s.TxAcked {
		w.log.Debug().Uint64("surface", uint64(h)).Msg("duplicate or late ack ignored")
		return
	}
	if serial != 0 && serial != s.TxSerial {
		w.log.Debug().
			Uint64("surface", uint64(h)).
			Uint32("serial", serial).
			Uint32("want", s.TxSerial).
			Msg("stale ack serial ignored")
		return
	}

	s.TxAcked = true
	w.tx.sentinel--
	if w.tx.sentinel < 0 {
		// Invariant violation; clamp rather than crash the session.
		w.log.Error().Int("sentinel", w.tx.sentinel).Msg("transaction sentinel went negative")
		w.tx.sentinel = 0
	}
	if w.tx.sentinel == 0 && w.tx.phase == txCollecting {
		w.commitLocked(false)
	}
}

// commitLocked promotes the round. Participants that acknowledged get their
// pending state; the rest stay frozen at their last acknowledged state.
func (w *Workspace) commitLocked(forced bool) {
	w.tx.phase = txCommitting

	promoted := 0
	for _, h := range w.tx.participants {
		s, err := w.arena.Get(h)
		if err != nil {
			continue
		}
		if s.TxAcked {
			s.PromotePending()
			promoted++
		} else {
			s.DropPending()
		}
	}

	n := len(w.tx.participants)
	w.tx.participants = nil
	w.tx.sentinel = 0
	w.tx.snapshots.ReleaseAll()
	w.disarmWatchdogLocked()
	w.updateVisibilityLocked()
	w.renderer.ScheduleRedraw(w.output.Name)

	w.log.Debug().
		Uint64("round", w.tx.round).
		Int("participants", n).
		Int("promoted", promoted).
		Bool("forced", forced).
		Dur("elapsed", time.Since(w.tx.startedAt)).
		Msg("transaction committed")

	w.tx.phase = txIdle

	if len(w.tx.deferred) > 0 {
		deferred := w.tx.deferred
		w.tx.deferred = nil
		for _, d := range deferred {
			s, err := w.arena.Get(d.handle)
			if err != nil {
				continue
			}
			w.configureLocked(s, d.mask, d.params)
		}
	}
}

func (w *Workspace) recomputeSentinelLocked() {
	n := 0
	for _, h := range w.tx.participants {
		s, err := w.arena.Get(h)
		if err != nil {
			continue
		}
		if !s.TxAcked {
			n++
		}
	}
	w.tx.sentinel = n
}

// dropParticipantLocked removes a destroyed surface from the round and
// commits if it was the last one awaited.
func (w *Workspace) dropParticipantLocked(h surface.Handle) {
	for i, existing := range w.tx.participants {
		if existing == h {
			w.tx.participants = append(w.tx.participants[:i], w.tx.participants[i+1:]...)
			break
		}
	}
	w.recomputeSentinelLocked()
	if w.tx.sentinel == 0 && w.tx.phase == txCollecting {
		w.commitLocked(false)
	}
}

// TransactionRunning reports whether an acknowledgment round is in flight.
func (w *Workspace) TransactionRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tx.phase != txIdle
}

// Sentinel returns the number of participants the current round still
// awaits. Zero means no round is in flight or the round is ready to commit.
func (w *Workspace) Sentinel() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tx.sentinel
}

// Round returns the current transaction round counter.
func (w *Workspace) Round() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tx.round
}

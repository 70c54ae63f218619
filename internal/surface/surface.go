package surface

import (
	"github.com/lumenwm/lumen/internal/platform"
)

// Kind classifies a surface within its window tree.
type Kind int

const (
	// KindToplevel is an ordinary client window owned by a workspace.
	KindToplevel Kind = iota
	// KindSubsurface is a child surface composited into its master.
	KindSubsurface
	// KindPopup is a temporary surface (menu, tooltip) whose lifetime
	// never exceeds its master's.
	KindPopup
)

func (k Kind) String() string {
	switch k {
	case KindToplevel:
		return "toplevel"
	case KindSubsurface:
		return "subsurface"
	case KindPopup:
		return "popup"
	default:
		return "unknown"
	}
}

// ParentKind tags which variant of Parent is populated.
type ParentKind int

const (
	ParentNone ParentKind = iota
	// ParentWorkspace means the surface is a toplevel owned by a workspace.
	ParentWorkspace
	// ParentSurface means the surface is owned by a master surface.
	ParentSurface
)

// Parent is the tagged ownership variant, resolved once at construction and
// never reinterpreted.
type Parent struct {
	Kind      ParentKind
	Workspace string
	Surface   Handle
}

// Surface is one displayable client window or sub-surface. All mutation
// happens on the compositor control path; the struct itself carries no lock.
type Surface struct {
	Handle Handle
	Kind   Kind
	Title  string
	AppID  string

	Parent   Parent
	Children []Handle

	// Previous is the state before the running transaction began.
	Previous State
	// Current is the state the client has acknowledged; what the render
	// backend displays.
	Current State
	// Pending is the requested state awaiting acknowledgment. Meaningful
	// only while TxRunning.
	Pending State
	// Saved preserves geometry across maximize/fullscreen toggles.
	Saved State

	// Mapped is set once the surface has produced its first frame.
	Mapped bool
	// Visible is set while the surface intersects the displayed workspace.
	Visible bool

	// TxRunning marks the surface as awaiting acknowledgment in its
	// workspace's transaction.
	TxRunning bool
	// TxRound is the transaction round the surface participates in.
	TxRound uint64
	// TxAcked marks that the surface's acknowledgment has already been
	// counted this round; later acks are ignored.
	TxAcked bool
	// TxSerial is the configure serial the client must echo back.
	TxSerial uint32
}

// ID returns the surface handle as the collaborator-facing identifier.
func (s *Surface) ID() platform.SurfaceID {
	return platform.SurfaceID(s.Handle)
}

// ApplyConfigure folds a masked configure request into the pending state.
// When no transaction is running the pending state is rebuilt from current
// first, so stale pending fields never leak across rounds.
func (s *Surface) ApplyConfigure(mask Mask, p Params) {
	if !s.TxRunning {
		s.Pending = s.Current
	}
	applyMask(&s.Pending, s.Current, &s.Saved, mask, p)
}

// ApplyDirect applies a masked configure straight to the current state,
// bypassing the acknowledgment round. Used for live interactive feedback.
// Pending and the transaction markers are left untouched.
func (s *Surface) ApplyDirect(mask Mask, p Params) {
	next := s.Current
	applyMask(&next, s.Current, &s.Saved, mask, p)
	s.Current = next
}

// PromotePending moves the acknowledged pending state into current and ends
// the surface's participation in the round.
func (s *Surface) PromotePending() {
	s.Current = s.Pending
	s.clearTransaction()
}

// DropPending abandons the pending state, freezing the surface at its last
// acknowledged configuration.
func (s *Surface) DropPending() {
	s.clearTransaction()
}

func (s *Surface) clearTransaction() {
	s.TxRunning = false
	s.TxAcked = false
	s.TxSerial = 0
	s.Pending = State{}
}

// ConfigureEvent builds the client-facing event for the pending state.
func (s *Surface) ConfigureEvent(serial uint32) platform.ConfigureEvent {
	return platform.ConfigureEvent{
		Serial:     serial,
		Bounds:     geometryOf(s.Pending),
		Activated:  s.Pending.Activated,
		Maximized:  s.Pending.Maximized,
		Fullscreen: s.Pending.Fullscreen,
	}
}

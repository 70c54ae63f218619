package interactive

// Mode is a workspace's interactive state. A workspace is in exactly one
// mode at a time; the eight resize variants name the edge or corner being
// dragged.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeResizeN
	ModeResizeNE
	ModeResizeE
	ModeResizeSE
	ModeResizeS
	ModeResizeSW
	ModeResizeW
	ModeResizeNW
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMove:
		return "move"
	case ModeResizeN:
		return "resize-n"
	case ModeResizeNE:
		return "resize-ne"
	case ModeResizeE:
		return "resize-e"
	case ModeResizeSE:
		return "resize-se"
	case ModeResizeS:
		return "resize-s"
	case ModeResizeSW:
		return "resize-sw"
	case ModeResizeW:
		return "resize-w"
	case ModeResizeNW:
		return "resize-nw"
	default:
		return "unknown"
	}
}

// Resizing reports whether the mode is one of the eight resize variants.
func (m Mode) Resizing() bool {
	return m >= ModeResizeN && m <= ModeResizeNW
}

// edges decomposes a resize mode into the edges it drags.
func (m Mode) edges() (top, bottom, left, right bool) {
	switch m {
	case ModeResizeN:
		top = true
	case ModeResizeNE:
		top, right = true, true
	case ModeResizeE:
		right = true
	case ModeResizeSE:
		bottom, right = true, true
	case ModeResizeS:
		bottom = true
	case ModeResizeSW:
		bottom, left = true, true
	case ModeResizeW:
		left = true
	case ModeResizeNW:
		top, left = true, true
	}
	return
}

package platform

// NopRenderer is a Renderer that records redraw requests and hands out
// plain buffer references. Used by tests and the demo daemon.
type NopRenderer struct {
	Redraws      []string
	FailCaptures bool
}

var _ Renderer = (*NopRenderer)(nil)

func (r *NopRenderer) ScheduleRedraw(output string) {
	r.Redraws = append(r.Redraws, output)
}

func (r *NopRenderer) FrameReady(string) bool { return true }

func (r *NopRenderer) CaptureBuffer(SurfaceID) (*BufferRef, error) {
	if r.FailCaptures {
		return nil, ErrCaptureFailed
	}
	return NewBufferRef(nil), nil
}

// NopNotifier is a ClientNotifier that records the events it would deliver.
type NopNotifier struct {
	Configures map[SurfaceID][]ConfigureEvent
	Closes     []SurfaceID
}

var _ ClientNotifier = (*NopNotifier)(nil)

func NewNopNotifier() *NopNotifier {
	return &NopNotifier{Configures: make(map[SurfaceID][]ConfigureEvent)}
}

func (n *NopNotifier) SendConfigure(id SurfaceID, ev ConfigureEvent) {
	if n.Configures == nil {
		n.Configures = make(map[SurfaceID][]ConfigureEvent)
	}
	n.Configures[id] = append(n.Configures[id], ev)
}

func (n *NopNotifier) SendClose(id SurfaceID) {
	n.Closes = append(n.Closes, id)
}

// LastSerial returns the serial of the most recent configure sent to id, or 0.
func (n *NopNotifier) LastSerial(id SurfaceID) uint32 {
	evs := n.Configures[id]
	if len(evs) == 0 {
		return 0
	}
	return evs[len(evs)-1].Serial
}

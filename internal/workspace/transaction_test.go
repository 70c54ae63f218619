package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenwm/lumen/internal/config"
	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/platform"
	"github.com/lumenwm/lumen/internal/surface"
	"github.com/lumenwm/lumen/pkg/logger"
)

type fixture struct {
	ws       *Workspace
	arena    *surface.Arena
	renderer *platform.NopRenderer
	notifier *platform.NopNotifier
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Transactions.TimeoutMs = 40

	arena := surface.NewArena()
	renderer := &platform.NopRenderer{}
	notifier := platform.NewNopNotifier()
	output := platform.OutputInfo{
		Name:   "HDMI-A-1",
		Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
	}
	ws := New("ws-0", output, arena, renderer, notifier, cfg, logger.Nop())

	return &fixture{ws: ws, arena: arena, renderer: renderer, notifier: notifier, cfg: cfg}
}

// addMapped creates a mapped toplevel at the given geometry.
func (f *fixture) addMapped(t *testing.T, r geometry.Rect) *surface.Surface {
	t.Helper()
	s := f.arena.Add(surface.KindToplevel, surface.Parent{Kind: surface.ParentWorkspace, Workspace: "ws-0"})
	s.Current = surface.State{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	f.ws.AddSurface(s.Handle)
	f.ws.SurfaceMapped(s.Handle)
	return s
}

// ack acknowledges the latest configure sent to the surface.
func (f *fixture) ack(s *surface.Surface) {
	f.ws.Ack(s.Handle, f.notifier.LastSerial(s.ID()))
}

func TestMaximizeAckCommit(t *testing.T) {
	f := newFixture(t)
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	s1 := f.addMapped(t, r)
	s2 := f.addMapped(t, r)
	s3 := f.addMapped(t, r)

	f.ws.Configure(s2.Handle, surface.MaskMaximized, surface.Params{Maximized: true})

	usable := f.ws.UsableArea()
	require.True(t, f.ws.TransactionRunning())
	assert.Equal(t, 1, f.ws.Sentinel())
	assert.True(t, s2.TxRunning)
	assert.Equal(t, usable, s2.Pending.Geometry())
	assert.True(t, s2.Pending.Maximized)
	// The client was asked to acknowledge.
	require.Len(t, f.notifier.Configures[s2.ID()], 1)

	f.ack(s2)

	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 0, f.ws.Sentinel())
	assert.False(t, s2.TxRunning)
	assert.Equal(t, usable, s2.Current.Geometry())
	assert.True(t, s2.Current.Maximized)
	// Bystanders are untouched.
	assert.Equal(t, r, s1.Current.Geometry())
	assert.Equal(t, r, s3.Current.Geometry())
	// Commit requested a redraw of the bound output.
	assert.Contains(t, f.renderer.Redraws, "HDMI-A-1")
}

func TestWatchdogCommitsWithoutAck(t *testing.T) {
	f := newFixture(t)
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	s1 := f.addMapped(t, r)
	s2 := f.addMapped(t, r)
	s3 := f.addMapped(t, r)

	f.ws.Configure(s2.Handle, surface.MaskMaximized, surface.Params{Maximized: true})
	require.True(t, f.ws.TransactionRunning())

	// Never acknowledge; the watchdog must still terminate the round.
	require.Eventually(t, func() bool {
		return !f.ws.TransactionRunning()
	}, time.Second, 5*time.Millisecond)

	// The non-acknowledging surface keeps its last acknowledged geometry.
	assert.Equal(t, r, s2.Current.Geometry())
	assert.False(t, s2.Current.Maximized)
	assert.False(t, s2.TxRunning)
	assert.Equal(t, surface.State{}, s2.Pending)
	assert.Equal(t, r, s1.Current.Geometry())
	assert.Equal(t, r, s3.Current.Geometry())
}

func TestDuplicateAckIgnored(t *testing.T) {
	f := newFixture(t)
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	s1 := f.addMapped(t, r)
	s2 := f.addMapped(t, r)

	f.ws.Configure(s1.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ws.Configure(s2.Handle, surface.MaskSize, surface.Params{Width: 300, Height: 300})
	require.Equal(t, 2, f.ws.Sentinel())

	f.ack(s1)
	assert.Equal(t, 1, f.ws.Sentinel())

	// A second ack from the same surface must not count again.
	f.ack(s1)
	assert.Equal(t, 1, f.ws.Sentinel())
	assert.True(t, f.ws.TransactionRunning())

	f.ack(s2)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 200, s1.Current.Width)
	assert.Equal(t, 300, s2.Current.Width)
}

func TestLateAckAfterWatchdogIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 500, Height: 500})
	serial := f.notifier.LastSerial(s.ID())

	require.Eventually(t, func() bool {
		return !f.ws.TransactionRunning()
	}, time.Second, 5*time.Millisecond)

	// The round is over; the straggler's ack must not resurrect it.
	f.ws.Ack(s.Handle, serial)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 100, s.Current.Width)
}

func TestReconfigureSameRoundNotDoubleCounted(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 250, Height: 250})

	// Configured twice in one round, counted once.
	assert.Equal(t, 1, f.ws.Sentinel())
	assert.Equal(t, 250, s.Pending.Width)

	f.ack(s)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 250, s.Current.Width)
}

func TestReconfigureAfterAckNeedsFreshAck(t *testing.T) {
	f := newFixture(t)
	s1 := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})
	s2 := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s1.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ws.Configure(s2.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ack(s1)
	require.Equal(t, 1, f.ws.Sentinel())

	// s1 is reconfigured in the same round; its earlier ack no longer
	// covers the pending state.
	f.ws.Configure(s1.Handle, surface.MaskSize, surface.Params{Width: 400, Height: 400})
	assert.Equal(t, 2, f.ws.Sentinel())

	f.ack(s1)
	f.ack(s2)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 400, s1.Current.Width)
}

func TestStaleSerialIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	old := f.notifier.LastSerial(s.ID())
	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 300, Height: 300})

	f.ws.Ack(s.Handle, old)
	assert.True(t, f.ws.TransactionRunning(), "stale serial must not count")

	f.ack(s)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 300, s.Current.Width)
}

func TestAckForUnknownSurfaceDropped(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	// Neither call may panic or start a round.
	f.ws.Ack(surface.Handle(0xdeadbeef), 1)
	f.ws.Configure(surface.Handle(0xdeadbeef), surface.MaskSize, surface.Params{Width: 1})

	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 100, s.Current.Width)
}

func TestSentinelClampedOnInvariantViolation(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})

	// Corrupt the sentinel the way a miscounted round would.
	f.ws.mu.Lock()
	f.ws.tx.sentinel = 0
	f.ws.mu.Unlock()

	f.ack(s)

	assert.GreaterOrEqual(t, f.ws.Sentinel(), 0)
	assert.False(t, f.ws.TransactionRunning())
}

func TestConfigureDuringCommitReentersCollecting(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	// Simulate a configure arriving while the previous round is mid-commit.
	f.ws.tx.phase = txCommitting
	f.ws.configureLocked(s, surface.MaskSize, surface.Params{Width: 640, Height: 480})
	require.Len(t, f.ws.tx.deferred, 1)
	require.False(t, s.TxRunning)

	f.ws.commitLocked(false)

	// The deferred configure re-opened a round with no idle gap.
	assert.True(t, f.ws.TransactionRunning())
	assert.Equal(t, 1, f.ws.Sentinel())
	assert.True(t, s.TxRunning)
	assert.Equal(t, 640, s.Pending.Width)
	assert.Empty(t, f.ws.tx.deferred)
}

func TestSnapshotsCapturedAndReleased(t *testing.T) {
	f := newFixture(t)
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	s1 := f.addMapped(t, r)
	f.addMapped(t, r)

	f.ws.Configure(s1.Handle, surface.MaskSize, surface.Params{Width: 500, Height: 500})

	// Content + decoration for each of the two visible surfaces.
	assert.Equal(t, 4, f.ws.tx.snapshots.Len())

	f.ack(s1)
	assert.Equal(t, 0, f.ws.tx.snapshots.Len())
}

func TestSnapshotCaptureFailureDoesNotBlockRound(t *testing.T) {
	f := newFixture(t)
	f.renderer.FailCaptures = true
	s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 500, Height: 500})
	require.True(t, f.ws.TransactionRunning())

	f.ack(s)
	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 500, s.Current.Width)
}

func TestRemoveSurfaceMidTransaction(t *testing.T) {
	f := newFixture(t)
	r := geometry.Rect{Width: 100, Height: 100}
	s1 := f.addMapped(t, r)
	s2 := f.addMapped(t, r)

	f.ws.Configure(s1.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ws.Configure(s2.Handle, surface.MaskSize, surface.Params{Width: 200, Height: 200})
	f.ack(s1)
	require.Equal(t, 1, f.ws.Sentinel())

	// s2's client disconnected mid-round. The round must still finish.
	f.ws.RemoveSurface(s2.Handle)

	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 200, s1.Current.Width)
}

func TestExplicitTransactionEntryPoints(t *testing.T) {
	f := newFixture(t)
	s1 := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})
	s2 := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})

	// NoTransaction is overridden on the explicit round entry points.
	f.ws.TransactionStart(s1.Handle, surface.MaskSize, surface.Params{
		Width: 200, Height: 200, NoTransaction: true,
	})
	f.ws.TransactionUpdate(s2.Handle, surface.MaskSize, surface.Params{Width: 300, Height: 300})
	require.True(t, f.ws.TransactionRunning())
	require.Equal(t, 2, f.ws.Sentinel())

	f.ack(s1)
	f.ws.TransactionCommit()

	assert.False(t, f.ws.TransactionRunning())
	assert.Equal(t, 200, s1.Current.Width)
	// The unacknowledged participant stays frozen, as on a watchdog commit.
	assert.Equal(t, 100, s2.Current.Width)

	// Committing with no round open is a no-op.
	f.ws.TransactionCommit()
	assert.False(t, f.ws.TransactionRunning())
}

func TestConcurrentSurfaceCreationDuringRounds(t *testing.T) {
	f := newFixture(t)
	f.cfg.Transactions.TimeoutMs = 1

	// Grow the shared arena from one goroutine while watchdog commits walk
	// it from timer goroutines. Run under -race.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			s := f.arena.Add(surface.KindToplevel, surface.Parent{
				Kind: surface.ParentWorkspace, Workspace: "ws-0",
			})
			if _, err := f.arena.Get(s.Handle); err != nil {
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		s := f.addMapped(t, geometry.Rect{Width: 100, Height: 100})
		f.ws.Configure(s.Handle, surface.MaskSize, surface.Params{Width: 150, Height: 150})
		time.Sleep(2 * time.Millisecond)
	}
	<-done

	require.Eventually(t, func() bool {
		return !f.ws.TransactionRunning()
	}, time.Second, 5*time.Millisecond)
}

func TestFullscreenUsesOutputBounds(t *testing.T) {
	f := newFixture(t)
	s := f.addMapped(t, geometry.Rect{X: 5, Y: 50, Width: 100, Height: 100})

	f.ws.Configure(s.Handle, surface.MaskFullscreen, surface.Params{Fullscreen: true})

	// Fullscreen covers the whole output, panel included.
	assert.Equal(t, f.ws.Output().Bounds, s.Pending.Geometry())
	assert.True(t, s.Pending.Fullscreen)
}

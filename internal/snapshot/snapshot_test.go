package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenwm/lumen/internal/geometry"
	"github.com/lumenwm/lumen/internal/platform"
)

func TestAppend_ExclusiveMembership(t *testing.T) {
	a := NewList()
	b := NewList()
	s := &Snapshot{Kind: KindContent}

	a.Append(s)
	require.Equal(t, 1, a.Len())
	assert.True(t, s.InList())

	// Moving to another list detaches from the first.
	b.Append(s)
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestRemove_ClearsMembership(t *testing.T) {
	l := NewList()
	s := &Snapshot{}
	l.Append(s)

	l.Remove(s)

	assert.False(t, s.InList())
	assert.Equal(t, 0, l.Len())

	// Removing from a list it does not belong to is a no-op.
	other := NewList()
	other.Remove(s)
	assert.Equal(t, 0, other.Len())
}

func TestReleaseAll_DropsBufferRefs(t *testing.T) {
	released := 0
	l := NewList()
	for i := 0; i < 3; i++ {
		l.Append(&Snapshot{Buffer: platform.NewBufferRef(func() { released++ })})
	}

	l.ReleaseAll()

	assert.Equal(t, 3, released)
	assert.Equal(t, 0, l.Len())
}

func TestReleaseAll_SharedBufferSurvivesOtherHolder(t *testing.T) {
	released := false
	buf := platform.NewBufferRef(func() { released = true })

	l := NewList()
	l.Append(&Snapshot{Buffer: buf.Retain()})

	l.ReleaseAll()
	assert.False(t, released, "render backend still holds a reference")

	buf.Release()
	assert.True(t, released)
}

func TestCapture_ToleratesFailure(t *testing.T) {
	r := &platform.NopRenderer{FailCaptures: true}
	s := Capture(r, 1, KindContent, geometry.Rect{Width: 100, Height: 50})

	require.NotNil(t, s)
	assert.Nil(t, s.Buffer)
	assert.Equal(t, 100, s.Region.Width)
	assert.False(t, s.TakenAt.IsZero())
}

func TestCapture_PopulatesBufferAndRegion(t *testing.T) {
	r := &platform.NopRenderer{}
	s := Capture(r, 7, KindDecoration, geometry.Rect{X: 10, Y: 10, Width: 320, Height: 240})

	require.NotNil(t, s.Buffer)
	assert.Equal(t, 1, s.Buffer.Refs())
	assert.Equal(t, KindDecoration, s.Kind)
	assert.Equal(t, geometry.Rect{Width: 320, Height: 240}, s.Region)
}

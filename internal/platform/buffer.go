package platform

import "sync/atomic"

// BufferRef is a reference-counted handle to a presented pixel buffer. The
// buffer itself is owned by the render backend; holders may share the
// reference but must never mutate the contents. When the last reference is
// released the backend's release callback runs and the buffer may be reused.
type BufferRef struct {
	refs    atomic.Int32
	release func()
}

// NewBufferRef creates a buffer reference with an initial count of one.
// release is invoked exactly once when the count drops to zero; it may be nil.
func NewBufferRef(release func()) *BufferRef {
	b := &BufferRef{release: release}
	b.refs.Store(1)
	return b
}

// Retain increments the reference count and returns the same handle.
func (b *BufferRef) Retain() *BufferRef {
	b.refs.Add(1)
	return b
}

// Release decrements the reference count, invoking the release callback when
// it reaches zero. Releasing an already-freed buffer is a no-op.
func (b *BufferRef) Release() {
	if b == nil {
		return
	}
	n := b.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		// Over-release; clamp so a double Release cannot run the
		// callback twice.
		b.refs.Store(0)
		return
	}
	if b.release != nil {
		b.release()
	}
}

// Refs returns the current reference count.
func (b *BufferRef) Refs() int {
	return int(b.refs.Load())
}

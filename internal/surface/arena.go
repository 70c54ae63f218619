package surface

import (
	"sync"

	"github.com/pkg/errors"
)

// Handle is a stable surface identifier: slot index in the high bits,
// generation in the low bits. A handle outlives pointer validity checks; a
// stale handle simply fails to resolve.
type Handle uint64

// None is the zero handle; it never resolves.
const None Handle = 0

func makeHandle(index int, gen uint32) Handle {
	return Handle(uint64(index+1)<<32 | uint64(gen))
}

func (h Handle) index() int         { return int(h>>32) - 1 }
func (h Handle) generation() uint32 { return uint32(h) }

// ErrNotFound is returned when a handle does not resolve to a live surface.
var ErrNotFound = errors.New("surface: not found")

type slot struct {
	surf *Surface
	gen  uint32
}

// Arena owns every surface in the compositor. Surfaces reference each other
// by handle only, never by pointer, so parent/child trees stay acyclic in
// memory even though they are cyclic-adjacent conceptually.
//
// The arena carries its own lock: the compositor and the workspaces reach it
// from different goroutines (watchdog and idle timers included), and slot
// growth must never race a concurrent lookup. Surface field access stays
// serialized by the owning workspace's lock.
type Arena struct {
	mu    sync.RWMutex
	slots []slot
	free  []int
}

// NewArena creates an empty surface arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add allocates a surface of the given kind under the given parent. For
// ParentSurface parents the child is registered in the master's child list.
func (a *Arena) Add(kind Kind, parent Parent) *Surface {
	a.mu.Lock()
	defer a.mu.Unlock()

	var index int
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		index = len(a.slots) - 1
	}

	sl := &a.slots[index]
	sl.gen++
	h := makeHandle(index, sl.gen)
	sl.surf = &Surface{Handle: h, Kind: kind, Parent: parent}

	if parent.Kind == ParentSurface {
		if master, err := a.getLocked(parent.Surface); err == nil {
			master.Children = append(master.Children, h)
		}
	}
	return sl.surf
}

// Get resolves a handle to its surface.
func (a *Arena) Get(h Handle) (*Surface, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.getLocked(h)
}

func (a *Arena) getLocked(h Handle) (*Surface, error) {
	idx := h.index()
	if h == None || idx < 0 || idx >= len(a.slots) {
		return nil, ErrNotFound
	}
	sl := a.slots[idx]
	if sl.surf == nil || sl.gen != h.generation() {
		return nil, ErrNotFound
	}
	return sl.surf, nil
}

// Remove destroys a surface and its entire subtree. Temporaries and
// subsurfaces never outlive their master.
func (a *Arena) Remove(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(h)
}

func (a *Arena) removeLocked(h Handle) {
	s, err := a.getLocked(h)
	if err != nil {
		return
	}

	for _, child := range s.Children {
		a.removeLocked(child)
	}

	if s.Parent.Kind == ParentSurface {
		if master, err := a.getLocked(s.Parent.Surface); err == nil {
			master.Children = removeHandle(master.Children, h)
		}
	}

	idx := h.index()
	a.slots[idx].surf = nil
	a.free = append(a.free, idx)
}

// Subtree returns the handle and every live descendant, depth-first. The
// walk happens under the arena lock so it cannot race a concurrent Add.
func (a *Arena) Subtree(h Handle) []Handle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.subtreeLocked(h, nil)
}

func (a *Arena) subtreeLocked(h Handle, out []Handle) []Handle {
	s, err := a.getLocked(h)
	if err != nil {
		return out
	}
	out = append(out, h)
	for _, child := range s.Children {
		out = a.subtreeLocked(child, out)
	}
	return out
}

// Each calls fn for every live surface. Iteration order is slot order and
// has no semantic meaning.
func (a *Arena) Each(fn func(*Surface)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.slots {
		if a.slots[i].surf != nil {
			fn(a.slots[i].surf)
		}
	}
}

// Len returns the number of live surfaces.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots) - len(a.free)
}

func removeHandle(list []Handle, h Handle) []Handle {
	for i, v := range list {
		if v == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

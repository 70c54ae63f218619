package snapshot

// List is an ordered collection of snapshots. A snapshot belongs to at most
// one list at a time; appending moves it out of any previous list.
type List struct {
	items []*Snapshot
}

// NewList creates an empty snapshot list.
func NewList() *List {
	return &List{}
}

// Append adds the snapshot to the list, detaching it from its previous list
// first.
func (l *List) Append(s *Snapshot) {
	if s == nil {
		return
	}
	if s.list != nil {
		s.list.detach(s)
	}
	s.list = l
	l.items = append(l.items, s)
}

// Remove takes the snapshot out of the list without dropping its buffer
// reference.
func (l *List) Remove(s *Snapshot) {
	if s == nil || s.list != l {
		return
	}
	l.detach(s)
}

func (l *List) detach(s *Snapshot) {
	for i, v := range l.items {
		if v == s {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	s.list = nil
}

// ReleaseAll drops every snapshot's buffer reference and empties the list.
// Called when the transaction that captured them commits.
func (l *List) ReleaseAll() {
	for _, s := range l.items {
		s.release()
		s.list = nil
	}
	l.items = nil
}

// Len returns the number of snapshots in the list.
func (l *List) Len() int { return len(l.items) }

// Each calls fn for every snapshot in order.
func (l *List) Each(fn func(*Snapshot)) {
	for _, s := range l.items {
		fn(s)
	}
}

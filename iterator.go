package lazyset

import "github.com/metailurini/lazyset/internal/epoch"

// Iterator provides a forward-only view over the set in ascending key order.
// It holds a reclamation guard from creation until Close or exhaustion, so
// removed nodes are not recycled while it is open; close iterators promptly.
type Iterator struct {
	s       *Set
	guard   epoch.Guard
	open    bool
	current *node
	key     int64
	valid   bool
}

// Iterator returns a new iterator positioned before the first key.
func (s *Set) Iterator() *Iterator {
	return &Iterator{
		s:     s,
		guard: s.pin(s.rng.nextRandom64()),
		open:  true,
	}
}

// Valid reports whether the iterator currently points at a key.
func (it *Iterator) Valid() bool {
	if it == nil {
		return false
	}
	return it.valid
}

// Key returns the key at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator) Key() int64 {
	if it == nil || !it.valid {
		return Absent
	}
	return it.key
}

// Next advances to the next live key and reports whether one exists. Keys
// are strictly increasing across calls; a key deleted after it was passed
// is not revisited and a key inserted behind the cursor is not seen.
func (it *Iterator) Next() bool {
	if it == nil || !it.open {
		return false
	}

	start := it.current
	if !it.valid {
		start = nil
	}
	next := it.s.advanceFrom(start)
	if next == nil {
		it.Close()
		return false
	}

	it.current = next
	it.key = next.key
	it.valid = true
	return true
}

// SeekGE positions the iterator at the first live key greater than or equal
// to key. It returns true if such a key exists.
func (it *Iterator) SeekGE(key int64) bool {
	if it == nil || !it.open {
		return false
	}
	it.invalidate()

	_, next := it.s.find(key)
	switch {
	case next == it.s.tail:
		next = nil
	case isMarked(next.next.Load()):
		next = it.s.advanceFrom(next)
	}
	if next == nil {
		it.Close()
		return false
	}
	it.current = next
	it.key = next.key
	it.valid = true
	return true
}

// Close releases the iterator's guard. It is safe to call more than once.
func (it *Iterator) Close() {
	if it == nil || !it.open {
		return
	}
	it.invalidate()
	it.open = false
	it.guard.Unpin()
}

func (it *Iterator) invalidate() {
	it.current = nil
	it.valid = false
	it.key = Absent
}

// Range calls fn for each live key in ascending order until fn returns false.
func (s *Set) Range(fn func(key int64) bool) {
	it := s.Iterator()
	defer it.Close()
	for it.Next() {
		if !fn(it.Key()) {
			return
		}
	}
}

// Keys returns the live keys in ascending order.
func (s *Set) Keys() []int64 {
	var keys []int64
	s.Range(func(key int64) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

package lazyset

import (
	"errors"
	"fmt"
)

// ErrInvariant is returned by CheckInvariants when the chain is corrupt.
var ErrInvariant = errors.New("set invariant violated")

// CheckInvariants walks the chain from the head and verifies that the
// sentinels are intact, that keys are strictly increasing (so no key appears
// twice) and that no logically deleted node is still linked. The last check
// only holds while no delete is in flight, so it must be called on a quiescent
// set.
func (s *Set) CheckInvariants() error {
	g := s.pin(s.rng.nextRandom64())
	defer g.Unpin()

	if s.head.key != MinKey || s.tail.key != MaxKey {
		return fmt.Errorf("%w: sentinel keys changed to %d and %d", ErrInvariant, s.head.key, s.tail.key)
	}
	if isMarked(s.head.next.Load()) {
		return fmt.Errorf("%w: head sentinel is marked", ErrInvariant)
	}

	prev := s.head
	count := int64(0)
	for n := s.head.next.Load().n; n != s.tail; n = n.next.Load().n {
		if n.key <= prev.key {
			return fmt.Errorf("%w: key %d follows %d", ErrInvariant, n.key, prev.key)
		}
		if isMarked(n.next.Load()) {
			return fmt.Errorf("%w: deleted key %d is still linked", ErrInvariant, n.key)
		}
		prev = n
		count++
	}
	if tailNext := s.tail.next.Load(); tailNext != nil {
		return fmt.Errorf("%w: tail sentinel has a successor", ErrInvariant)
	}
	if l := s.Len(); l != count {
		return fmt.Errorf("%w: walk found %d keys, counters report %d", ErrInvariant, count, l)
	}
	return nil
}

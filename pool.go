package lazyset

import "github.com/rs/zerolog/log"

// acquireNode returns an unpublished node carrying key whose successor is succ.
func (s *Set) acquireNode(key int64, succ *ref) *node {
	n := s.nodePool.Get().(*node)
	n.key = key
	n.next.Store(succ)
	return n
}

// releaseNode recycles a node whose grace period has elapsed. It is called by
// the reclamation domain only; the node is unreachable from the head and no
// pinned operation still holds it.
func (s *Set) releaseNode(n *node) {
	if n == nil || n == s.head || n == s.tail {
		return
	}
	if !n.mu.TryLock() {
		// A node is always unlocked by the delete that retired it.
		log.Error().Int64("key", n.key).Msg("retired node still locked; dropping it")
		return
	}
	n.mu.Unlock()

	n.key = 0
	n.next.Store(nil)
	s.nodePool.Put(n)
}

package lazyset

import "github.com/metailurini/lazyset/internal/epoch"

// insert links a new node for key after validating its anchor.
// It returns false if the key is already present.
func (s *Set) insert(key int64) bool {
	for {
		pred, curr := s.find(key)
		if curr.key == key {
			return false
		}

		if afterFindHook != nil {
			afterFindHook(pred, curr)
		}

		if !lockRef(pred, curr) {
			s.metrics.IncValidationRetry(uint64(key))
			continue
		}

		n := s.acquireNode(key, &curr.live)
		// Publishing the fully formed node is the linearization point.
		pred.next.Store(&n.live)
		pred.mu.Unlock()

		s.metrics.IncInsert(uint64(key))
		s.metrics.AddLen(uint64(key), 1)
		return true
	}
}

// delete removes key in two phases: the mark on the node's successor slot makes
// it logically absent, then the predecessor is redirected past it. The removed
// node is retired under g and recycled once no pinned operation can reach it.
func (s *Set) delete(g epoch.Guard, key int64) bool {
	for {
		pred, curr := s.find(key)
		if curr.key != key {
			return false
		}
		next := strip(curr.next.Load()).n

		if afterFindHook != nil {
			afterFindHook(pred, curr)
		}

		if !lockVal(pred, key) {
			s.metrics.IncValidationRetry(uint64(key))
			continue
		}
		// The node carrying key may have been replaced since the traversal.
		curr = pred.next.Load().n

		if !lockRef(curr, next) {
			pred.mu.Unlock()
			s.metrics.IncValidationRetry(uint64(key))
			continue
		}

		curr.next.Store(mark(&next.live))
		if beforeUnlinkHook != nil {
			beforeUnlinkHook(curr)
		}
		pred.next.Store(&next.live)

		curr.mu.Unlock()
		pred.mu.Unlock()

		s.metrics.IncDelete(uint64(key))
		s.metrics.AddLen(uint64(key), -1)
		s.reclaimer.Retire(g, curr)
		return true
	}
}

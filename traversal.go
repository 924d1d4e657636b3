package lazyset

// find returns the anchor for key: the last node with a smaller key and the
// first node whose key is greater than or equal to it. It takes no locks and
// may pass through nodes that are being deleted; callers validate before
// mutating.
func (s *Set) find(key int64) (pred, curr *node) {
	pred = s.head
	curr = strip(pred.next.Load()).n
	for curr.key < key {
		pred = curr
		curr = strip(curr.next.Load()).n
	}
	return pred, curr
}

// lockRef locks pred if it is live and its successor is still expected.
// It reports false, leaving pred unlocked, when the adjacency no longer holds.
func lockRef(pred, expected *node) bool {
	r := pred.next.Load()
	if isMarked(r) || r.n != expected {
		return false
	}
	pred.mu.Lock()
	// Re-check: the slot may have changed between the load and the lock.
	r = pred.next.Load()
	if isMarked(r) || r.n != expected {
		pred.mu.Unlock()
		return false
	}
	return true
}

// lockVal is lockRef keyed by the successor's key instead of its identity.
func lockVal(pred *node, key int64) bool {
	r := pred.next.Load()
	if isMarked(r) || r.n.key != key {
		return false
	}
	pred.mu.Lock()
	r = pred.next.Load()
	if isMarked(r) || r.n.key != key {
		pred.mu.Unlock()
		return false
	}
	return true
}

// advanceFrom returns the first unmarked node after start, or nil at the tail.
// Keys along the returned path are strictly greater than start's key even if
// start has been unlinked, since a removed node keeps its last successor.
func (s *Set) advanceFrom(start *node) *node {
	if start == nil {
		start = s.head
	}
	n := strip(start.next.Load()).n
	for n != s.tail {
		r := n.next.Load()
		if !isMarked(r) {
			return n
		}
		n = strip(r).n
	}
	return nil
}

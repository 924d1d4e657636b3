package lazyset

import (
	"math"
	"sync"
	"sync/atomic"
)

// ref is the value stored in a successor slot: the next node together with the
// logically-deleted bit of the slot's owner. refs are immutable, so a single
// atomic load observes target and mark together.
type ref struct {
	n      *node
	marked bool
}

// node holds one key of the set.
type node struct {
	key int64
	// next is the successor slot. A marked ref means this node is logically deleted.
	next atomic.Pointer[ref]
	// mu guards the right to store into next.
	mu sync.Mutex

	// live and dead are the two canonical refs pointing at this node. Every slot
	// that points here holds one of them, so ref identity equals (node, mark).
	live ref
	dead ref
}

const (
	// MinKey and MaxKey are the keys held by the head and tail sentinels.
	// They are outside the set's key domain.
	MinKey = int64(math.MinInt64)
	MaxKey = int64(math.MaxInt64)

	// Absent is the distinguished "no key" value for layers built on top of the set.
	Absent = MinKey
)

func newNode(key int64) *node {
	n := &node{key: key}
	n.live = ref{n: n}
	n.dead = ref{n: n, marked: true}
	return n
}

func newSentinels() (*node, *node) {
	head := newNode(MinKey)
	tail := newNode(MaxKey)
	head.next.Store(&tail.live)
	return head, tail
}

// strip returns r with the mark cleared.
func strip(r *ref) *ref { return &r.n.live }

// mark returns r with the mark set.
func mark(r *ref) *ref { return &r.n.dead }

func isMarked(r *ref) bool { return r.marked }

// inDomain reports whether key can be stored; the sentinel keys cannot.
func inDomain(key int64) bool {
	return key != MinKey && key != MaxKey
}

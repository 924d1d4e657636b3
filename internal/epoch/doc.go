// Package epoch implements epoch-based reclamation for structures whose
// readers traverse without locks.
//
// Every operation that may dereference shared nodes runs inside a Guard:
//
//	g := d.Pin(hint)
//	defer g.Unpin()
//
// A node that has been made unreachable is handed to Retire instead of being
// reused right away. The domain keeps a global epoch and three limbo lists.
// The epoch may move from N to N+1 only when no guard pinned in N-1 remains,
// so while a guard from epoch E is active the global epoch is at most E+1.
// A node retired under a guard from epoch E can therefore be reached only by
// guards from E-1, E or E+1, and is released when the epoch reaches E+3,
// at which point all of those guards have been unpinned.
//
// Pinning never blocks: it is two atomic adds on a sharded counter plus a
// re-check of the global epoch.
package epoch

package lazyset

// IntSet is the contract a workload driver programs against. Callers invoke
// InitParticipation once per worker before its first operation and
// EndParticipation once after its last.
type IntSet interface {
	InitParticipation(id int)
	EndParticipation(id int)
	// InsertIfAbsent adds key unless it is present and reports whether it already was.
	InsertIfAbsent(key int64) (alreadyPresent bool)
	// Remove deletes key and reports whether it was present.
	Remove(key int64) (wasPresent bool)
	Contains(key int64) bool
}

var _ IntSet = (*Set)(nil)

// InitParticipation implements IntSet. Workers need no registration.
func (s *Set) InitParticipation(int) {}

// EndParticipation implements IntSet. It is a quiescent point for the worker
// and gives removed nodes a chance to be recycled.
func (s *Set) EndParticipation(int) {
	s.reclaimer.TryAdvance()
}

// InsertIfAbsent implements IntSet.
func (s *Set) InsertIfAbsent(key int64) bool {
	return !s.Insert(key)
}

// Remove implements IntSet.
func (s *Set) Remove(key int64) bool {
	return s.Delete(key)
}

package lazyset

import (
	"sync"

	"github.com/metailurini/lazyset/internal/epoch"
)

// Set is a concurrent ordered set of int64 keys implemented as a lazy list:
// traversals never lock, mutations lock at most two adjacent nodes after
// validating them, and deletion marks a node before unlinking it.
//
// The keys MinKey and MaxKey are reserved for the sentinels; operations on
// them report false and do not modify the set.
type Set struct {
	head *node
	tail *node

	metrics   *Metrics
	rng       *RNG
	reclaimer *epoch.Domain[node]
	nodePool  sync.Pool
}

// Config holds configuration for a Set.
type Config struct {
	// metricShards is the number of counter shards, 0 means GOMAXPROCS.
	metricShards int

	// epochShards is the number of pin counters in the reclamation domain, 0 means GOMAXPROCS.
	epochShards int

	// reclaimThreshold is the number of deletes between automatic reclamation attempts.
	reclaimThreshold int64

	// seed seeds the generator used by Fill, 0 means time-based.
	seed uint64
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		reclaimThreshold: epoch.DefaultThreshold,
	}
}

// WithMetricShards sets the number of counter shards.
func WithMetricShards(n int) func(*Config) {
	return func(c *Config) { c.metricShards = n }
}

// WithEpochShards sets the number of pin counters used for reclamation.
func WithEpochShards(n int) func(*Config) {
	return func(c *Config) { c.epochShards = n }
}

// WithReclaimThreshold sets how many deletes accumulate before the set tries
// to recycle removed nodes. Zero or less leaves reclamation to EndParticipation
// and Reclaim.
func WithReclaimThreshold(n int64) func(*Config) {
	return func(c *Config) { c.reclaimThreshold = n }
}

// WithSeed seeds the generator used by Fill.
func WithSeed(seed uint64) func(*Config) {
	return func(c *Config) { c.seed = seed }
}

// New returns an empty Set.
func New(opts ...func(*Config)) *Set {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	head, tail := newSentinels()
	s := &Set{
		head:    head,
		tail:    tail,
		metrics: newMetrics(cfg.metricShards),
	}
	if cfg.seed != 0 {
		s.rng = newRNGWithSeed(cfg.seed)
	} else {
		s.rng = newRNG()
	}
	s.nodePool.New = func() any { return newNode(0) }

	epochOpts := []epoch.Option{epoch.WithThreshold(cfg.reclaimThreshold)}
	if cfg.epochShards > 0 {
		epochOpts = append(epochOpts, epoch.WithShards(cfg.epochShards))
	}
	s.reclaimer = epoch.New(s.releaseNode, epochOpts...)
	return s
}

func (s *Set) pin(hint uint64) epoch.Guard {
	return s.reclaimer.Pin(mix64(hint))
}

// Contains reports whether key is in the set. It never blocks.
func (s *Set) Contains(key int64) bool {
	if !inDomain(key) {
		return false
	}
	g := s.pin(uint64(key))
	defer g.Unpin()

	_, curr := s.find(key)
	return curr.key == key && !isMarked(curr.next.Load())
}

// Insert adds key to the set. It returns false if key was already present.
func (s *Set) Insert(key int64) bool {
	if !inDomain(key) {
		return false
	}
	g := s.pin(uint64(key))
	defer g.Unpin()

	return s.insert(key)
}

// Delete removes key from the set. It returns false if key was not present.
func (s *Set) Delete(key int64) bool {
	if !inDomain(key) {
		return false
	}
	g := s.pin(uint64(key))
	defer g.Unpin()

	return s.delete(g, key)
}

// Len returns the number of keys in the set, maintained by counters.
func (s *Set) Len() int64 {
	return s.metrics.Len()
}

// Count walks the set and counts the keys that are not logically deleted.
// Unlike Len it is O(n) and reflects the chain as the walk observed it.
func (s *Set) Count() int {
	g := s.pin(s.rng.nextRandom64())
	defer g.Unpin()

	count := 0
	for n := s.advanceFrom(nil); n != nil; n = s.advanceFrom(n) {
		count++
	}
	return count
}

// Clear deletes every key observed by a walk of the set. Keys inserted
// concurrently with Clear may survive it.
func (s *Set) Clear() {
	for _, key := range s.Keys() {
		s.Delete(key)
	}
}

// Fill inserts distinct keys drawn uniformly from [1, keyRange] until size keys
// have been added, and returns how many were added. It stops early once the
// set holds keyRange keys.
func (s *Set) Fill(keyRange int64, size int) int {
	if keyRange < 1 || size <= 0 {
		return 0
	}
	added := 0
	for added < size && s.Len() < keyRange {
		if s.Insert(s.rng.KeyIn(keyRange)) {
			added++
		}
	}
	return added
}

// Reclaim tries to advance the reclamation epoch so that removed nodes can be
// reused. It never blocks and reports whether the epoch advanced.
func (s *Set) Reclaim() bool {
	return s.reclaimer.TryAdvance()
}

// Stats is a snapshot of a Set's counters.
type Stats struct {
	Len               int64
	Inserts           int64
	Deletes           int64
	ValidationRetries int64

	Epoch          uint64
	RetiredNodes   int64
	ReclaimedNodes int64
	PendingNodes   int64
}

// Stats returns the current counters. Fields are read independently and may
// be mutually inconsistent while operations are in flight.
func (s *Set) Stats() Stats {
	inserts, deletes := s.metrics.MutationStats()
	return Stats{
		Len:               s.metrics.Len(),
		Inserts:           inserts,
		Deletes:           deletes,
		ValidationRetries: s.metrics.ValidationRetries(),
		Epoch:             s.reclaimer.Epoch(),
		RetiredNodes:      s.reclaimer.Retired(),
		ReclaimedNodes:    s.reclaimer.Reclaimed(),
		PendingNodes:      s.reclaimer.Pending(),
	}
}

package lazyset

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

type metricShard struct {
	validationRetries atomic.Int64
	inserts           atomic.Int64
	deletes           atomic.Int64
	length            atomic.Int64
	// Pad to cache line size to prevent false sharing.
	_ [32]byte
}

// Metrics counts set activity on sharded counters so that hot paths on
// different cores do not contend on one cache line.
type Metrics struct {
	shards []metricShard
	mask   uint64
}

func newMetrics(shardCount int) *Metrics {
	if shardCount <= 0 {
		shardCount = runtime.GOMAXPROCS(0)
	}
	shardCount = nextPowerOfTwo(shardCount)
	return &Metrics{
		shards: make([]metricShard, shardCount),
		mask:   uint64(shardCount - 1),
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

// shard picks the counters for hint, normally the key being operated on.
func (m *Metrics) shard(hint uint64) *metricShard {
	return &m.shards[mix64(hint)&m.mask]
}

func (m *Metrics) IncValidationRetry(hint uint64) {
	m.shard(hint).validationRetries.Add(1)
}

func (m *Metrics) IncInsert(hint uint64) {
	m.shard(hint).inserts.Add(1)
}

func (m *Metrics) IncDelete(hint uint64) {
	m.shard(hint).deletes.Add(1)
}

func (m *Metrics) AddLen(hint uint64, d int64) {
	m.shard(hint).length.Add(d)
}

// Len sums the length shards. Under concurrent updates the result is a
// point-in-time approximation.
func (m *Metrics) Len() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].length.Load()
	}
	return total
}

// ValidationRetries returns how many times an insert or delete restarted from the head.
func (m *Metrics) ValidationRetries() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].validationRetries.Load()
	}
	return total
}

// MutationStats returns the number of successful inserts and deletes.
func (m *Metrics) MutationStats() (inserts, deletes int64) {
	for i := range m.shards {
		inserts += m.shards[i].inserts.Load()
		deletes += m.shards[i].deletes.Load()
	}
	return inserts, deletes
}

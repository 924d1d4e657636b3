package epoch

import (
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// DefaultThreshold is the number of retirements after which Retire tries to
// advance the epoch on its own.
const DefaultThreshold = 64

type shard struct {
	active [3]atomic.Int64
	// Pad to cache line size to prevent false sharing.
	_ [40]byte
}

type limbo[T any] struct {
	mu    sync.Mutex
	items []*T
}

// Domain tracks pinned guards and retired items of type T.
type Domain[T any] struct {
	global    atomic.Uint64
	shards    []shard
	mask      uint64
	limbo     [3]limbo[T]
	advancing atomic.Bool
	release   func(*T)
	threshold int64

	sinceAdvance atomic.Int64
	retired      atomic.Int64
	reclaimed    atomic.Int64
}

// Option configures a Domain.
type Option func(*options)

type options struct {
	shards    int
	threshold int64
}

// WithShards sets the number of pin counters. It is rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) { o.shards = n }
}

// WithThreshold sets how many retirements trigger an automatic advance attempt.
// Zero or less disables automatic advances; TryAdvance must then be called explicitly.
func WithThreshold(n int64) Option {
	return func(o *options) { o.threshold = n }
}

// New returns a Domain that hands items back to release once their grace
// period has elapsed.
func New[T any](release func(*T), opts ...Option) *Domain[T] {
	o := options{
		shards:    runtime.GOMAXPROCS(0),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	n := 1
	if o.shards > 1 {
		n = 1 << bits.Len(uint(o.shards-1))
	}
	return &Domain[T]{
		shards:    make([]shard, n),
		mask:      uint64(n - 1),
		release:   release,
		threshold: o.threshold,
	}
}

// Guard marks an operation as active in one epoch.
type Guard struct {
	epoch uint64
	slot  *atomic.Int64
}

// Epoch returns the epoch the guard was pinned in.
func (g Guard) Epoch() uint64 {
	return g.epoch
}

// Unpin ends the guarded operation. Nothing read under the guard may be used afterwards.
func (g Guard) Unpin() {
	if g.slot != nil {
		g.slot.Add(-1)
	}
}

// Pin enters the current epoch. hint selects the counter shard; callers pass
// something that differs between goroutines, such as the key being operated on.
func (d *Domain[T]) Pin(hint uint64) Guard {
	s := &d.shards[hint&d.mask]
	for {
		e := d.global.Load()
		slot := &s.active[e%3]
		slot.Add(1)
		if d.global.Load() == e {
			return Guard{epoch: e, slot: slot}
		}
		// The epoch moved between the load and the increment; the count we
		// just added may belong to an epoch that is already being checked.
		slot.Add(-1)
	}
}

// Retire schedules item for release after every guard that could still reach
// it has been unpinned. g must be the guard of the operation that unlinked it.
func (d *Domain[T]) Retire(g Guard, item *T) {
	b := &d.limbo[g.epoch%3]
	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()
	d.retired.Add(1)

	if d.threshold > 0 && d.sinceAdvance.Add(1) >= d.threshold {
		d.TryAdvance()
	}
}

// TryAdvance moves the global epoch forward by one if no guard from the
// previous epoch is still pinned, releasing the items that became safe.
// It never blocks and reports whether the epoch advanced.
func (d *Domain[T]) TryAdvance() bool {
	if !d.advancing.CompareAndSwap(false, true) {
		return false
	}
	defer d.advancing.Store(false)

	e := d.global.Load()
	prev := (e + 2) % 3
	for i := range d.shards {
		if d.shards[i].active[prev].Load() != 0 {
			return false
		}
	}

	next := e + 1
	// Bucket next%3 holds items retired in epoch next-3.
	b := &d.limbo[next%3]
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.mu.Unlock()

	d.global.Store(next)
	d.sinceAdvance.Store(0)

	for _, item := range items {
		d.release(item)
	}
	d.reclaimed.Add(int64(len(items)))

	log.Trace().
		Uint64("epoch", next).
		Int("released", len(items)).
		Msg("epoch advanced")
	return true
}

// Epoch returns the current global epoch.
func (d *Domain[T]) Epoch() uint64 {
	return d.global.Load()
}

// Retired returns the number of items ever retired.
func (d *Domain[T]) Retired() int64 {
	return d.retired.Load()
}

// Reclaimed returns the number of items released after their grace period.
func (d *Domain[T]) Reclaimed() int64 {
	return d.reclaimed.Load()
}

// Pending returns the number of retired items still waiting for release.
func (d *Domain[T]) Pending() int64 {
	return d.retired.Load() - d.reclaimed.Load()
}

package lazyset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPowerOfTwo(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {8, 8}, {9, 16},
	} {
		assert.Equal(t, tc.want, nextPowerOfTwo(tc.in), "nextPowerOfTwo(%d)", tc.in)
	}
}

func TestMetricsAggregateAcrossShards(t *testing.T) {
	m := newMetrics(8)
	assert.Len(t, m.shards, 8)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 1000 {
				hint := uint64(w*1000 + i)
				m.IncInsert(hint)
				m.AddLen(hint, 1)
				if i%4 == 0 {
					m.IncDelete(hint)
					m.AddLen(hint, -1)
					m.IncValidationRetry(hint)
				}
			}
		}(w)
	}
	wg.Wait()

	inserts, deletes := m.MutationStats()
	assert.Equal(t, int64(8000), inserts)
	assert.Equal(t, int64(2000), deletes)
	assert.Equal(t, int64(6000), m.Len())
	assert.Equal(t, int64(2000), m.ValidationRetries())
}

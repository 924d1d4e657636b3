package lazyset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkedReferences(t *testing.T) {
	n := newNode(12)
	live := &n.live

	assert.False(t, isMarked(live))
	assert.True(t, isMarked(mark(live)))

	assert.Same(t, n, mark(live).n, "marking keeps the target")
	assert.Same(t, live, strip(mark(live)), "strip undoes mark")
	assert.Same(t, live, strip(live), "strip is idempotent")
	assert.Same(t, mark(live), mark(mark(live)), "mark is idempotent")

	other := newNode(12)
	assert.NotSame(t, live, &other.live, "equal keys do not make equal references")
}

func TestSentinels(t *testing.T) {
	head, tail := newSentinels()

	assert.Equal(t, MinKey, head.key)
	assert.Equal(t, MaxKey, tail.key)
	assert.Same(t, &tail.live, head.next.Load())
	assert.Nil(t, tail.next.Load())
	assert.False(t, inDomain(MinKey))
	assert.False(t, inDomain(MaxKey))
	assert.True(t, inDomain(0))
}

package lazyset

import (
	"sync"
	"testing"
)

func TestIteratorNextTraversesKeysInOrder(t *testing.T) {
	s := New()
	for _, key := range []int64{5, 1, 3} {
		s.Insert(key)
	}

	it := s.Iterator()

	var keys []int64
	for it.Next() {
		keys = append(keys, it.Key())
	}

	expectedKeys := []int64{1, 3, 5}
	if len(keys) != len(expectedKeys) {
		t.Fatalf("expected %d keys from iterator, got %d", len(expectedKeys), len(keys))
	}
	for i, want := range expectedKeys {
		if keys[i] != want {
			t.Fatalf("expected key %d at position %d, got %d", want, i, keys[i])
		}
	}

	if it.Valid() {
		t.Fatalf("expected iterator to be invalid after exhaustion")
	}
	if it.Next() {
		t.Fatalf("expected exhausted iterator to stay exhausted")
	}
}

func TestIteratorSeekGEPositionsCorrectly(t *testing.T) {
	s := New()
	s.Insert(1)
	s.Insert(3)
	s.Insert(5)

	it := s.Iterator()
	defer it.Close()

	if !it.SeekGE(2) {
		t.Fatalf("expected SeekGE to locate key >= 2")
	}
	if got := it.Key(); got != 3 {
		t.Fatalf("expected key 3 after SeekGE, got %d", got)
	}

	if !it.SeekGE(3) {
		t.Fatalf("expected SeekGE to locate key 3 exactly")
	}
	if got := it.Key(); got != 3 {
		t.Fatalf("expected key 3 after exact SeekGE, got %d", got)
	}

	if !it.Next() {
		t.Fatalf("expected iterator to advance to next key")
	}
	if got := it.Key(); got != 5 {
		t.Fatalf("expected key 5 after Next, got %d", got)
	}

	if it.Next() {
		t.Fatalf("expected iterator to report exhaustion")
	}
	if it.SeekGE(0) {
		t.Fatalf("expected closed iterator to refuse SeekGE")
	}
}

func TestIteratorSeekGEBeyondLastKey(t *testing.T) {
	s := New()
	s.Insert(1)

	it := s.Iterator()
	defer it.Close()
	if it.SeekGE(6) {
		t.Fatalf("expected SeekGE beyond last key to report false, got key %d", it.Key())
	}
	if it.Key() != Absent {
		t.Fatalf("expected Absent from an invalid iterator, got %d", it.Key())
	}
}

func TestIteratorSkipsLogicallyDeletedNodes(t *testing.T) {
	s := New()
	for k := int64(1); k <= 3; k++ {
		s.Insert(k)
	}

	var once sync.Once
	beforeUnlinkHook = func(any) {
		once.Do(func() {
			// Key 2 is marked but still linked here.
			it := s.Iterator()
			defer it.Close()
			var keys []int64
			for it.Next() {
				keys = append(keys, it.Key())
			}
			if len(keys) != 2 || keys[0] != 1 || keys[1] != 3 {
				t.Errorf("expected iterator to skip the marked key, got %v", keys)
			}
			seek := s.Iterator()
			defer seek.Close()
			if !seek.SeekGE(2) || seek.Key() != 3 {
				t.Errorf("expected SeekGE(2) to land on 3 while 2 is marked")
			}
		})
	}
	t.Cleanup(func() { beforeUnlinkHook = nil })

	if !s.Delete(2) {
		t.Fatalf("expected delete of 2 to succeed")
	}
}

func TestRangeStopsEarly(t *testing.T) {
	s := New()
	for k := int64(1); k <= 10; k++ {
		s.Insert(k)
	}

	var seen []int64
	s.Range(func(key int64) bool {
		seen = append(seen, key)
		return key < 4
	})
	if len(seen) != 4 || seen[3] != 4 {
		t.Fatalf("expected Range to stop after key 4, saw %v", seen)
	}

	// Range must release its guard so that removed nodes can be reclaimed.
	s.Delete(1)
	for range 3 {
		s.Reclaim()
	}
	if pending := s.Stats().PendingNodes; pending != 0 {
		t.Fatalf("expected no pending nodes after Range returned, got %d", pending)
	}
}

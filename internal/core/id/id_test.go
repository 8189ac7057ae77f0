package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Monotonic(t *testing.T) {
	seq := NewSequence()

	prev := seq.Next()
	for i := 0; i < 100; i++ {
		next := seq.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestNext_ConcurrentUniqueness(t *testing.T) {
	const goroutines = 32
	const perGoroutine = 500

	seq := NewSequence()
	results := make([][]ID, goroutines)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ids := make([]ID, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, seq.Next())
			}
			results[g] = ids
		}(g)
	}
	wg.Wait()

	seen := make(map[ID]struct{}, goroutines*perGoroutine)
	for _, ids := range results {
		for _, v := range ids {
			_, dup := seen[v]
			require.False(t, dup, "id %d issued twice", v)
			seen[v] = struct{}{}
		}
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestNextSuitable_SkipsRejected(t *testing.T) {
	seq := NewSequence()

	// Reject everything below 5.
	got := seq.NextSuitable(func(v ID) bool { return v >= 5 })
	assert.Equal(t, ID(5), got)

	// Counter does not roll back after skipping.
	assert.Equal(t, ID(6), seq.Next())
}

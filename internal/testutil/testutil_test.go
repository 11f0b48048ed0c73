package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_AdvancesByStep(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := NewClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Peek())
	assert.Equal(t, start.Add(2*time.Minute), clock.Peek(), "Peek does not advance")
}

func TestIDSequence(t *testing.T) {
	ids := NewIDSequence("toast")
	assert.Equal(t, "toast-1", ids.Next())
	assert.Equal(t, "toast-2", ids.Next())

	assert.Equal(t, "id-1", NewIDSequence("").Next())
}

func TestIDSequence_ConcurrentUniqueness(t *testing.T) {
	ids := NewIDSequence("x")
	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.Next()
			_, dup := seen.LoadOrStore(id, true)
			assert.False(t, dup, "duplicate id %s", id)
		}()
	}
	wg.Wait()
}

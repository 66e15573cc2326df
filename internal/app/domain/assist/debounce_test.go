package assist

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var fired []uint64

	record := func(token uint64) {
		mu.Lock()
		fired = append(fired, token)
		mu.Unlock()
	}

	first := d.Trigger(record)
	second := d.Trigger(record)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) > 0
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()

	// Only the second trigger's run fires.
	require.Len(t, fired, 1)
	assert.Equal(t, second, fired[0])
	assert.False(t, d.Latest(first))
	assert.True(t, d.Latest(second))
}

func TestDebouncerCancelStopsPendingRun(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	ran := false

	token := d.Trigger(func(uint64) {
		mu.Lock()
		ran = true
		mu.Unlock()
	})
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, ran)
	assert.False(t, d.Latest(token))
}

func TestDebouncerTokensAreMonotonic(t *testing.T) {
	d := NewDebouncer(time.Hour)
	noop := func(uint64) {}

	first := d.Trigger(noop)
	second := d.Trigger(noop)
	third := d.Trigger(noop)

	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.True(t, d.Latest(third))
	assert.False(t, d.Latest(second))
}

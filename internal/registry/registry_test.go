package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryAcquireRelease(t *testing.T) {
	r := New()

	assert.True(t, r.TryAcquire("chan1"))
	assert.False(t, r.TryAcquire("chan1"), "second acquire for the same channel must fail")
	assert.True(t, r.TryAcquire("chan2"), "other channels are unaffected")

	r.Release("chan1")
	assert.True(t, r.TryAcquire("chan1"), "released channels can be acquired again")
}

func TestReleaseUnknownChannelIsNoOp(t *testing.T) {
	r := New()
	r.Release("never-acquired")
	assert.Empty(t, r.Active())
}

func TestActive(t *testing.T) {
	r := New()
	r.TryAcquire("a")
	r.TryAcquire("b")
	assert.ElementsMatch(t, []string{"a", "b"}, r.Active())
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	r := New()
	const workers = 64

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if r.TryAcquire("chan1") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one concurrent acquire may win")
}

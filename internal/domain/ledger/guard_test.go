package ledger_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/stretchr/testify/require"
)

func TestGuard_SingleSlot(t *testing.T) {
	var g ledger.Guard
	token, ok := g.Acquire()
	require.True(t, ok)
	require.NotEmpty(t, token)
	require.True(t, g.InFlight())

	_, ok = g.Acquire()
	require.False(t, ok)

	g.Release("someone-else")
	require.True(t, g.InFlight())

	g.Release(token)
	require.False(t, g.InFlight())

	second, ok := g.Acquire()
	require.True(t, ok)
	require.NotEqual(t, token, second)

	// A stale token must not free the new holder.
	g.Release(token)
	require.True(t, g.InFlight())
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	var g ledger.Guard
	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := g.Acquire(); ok {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	require.Equal(t, int32(1), winners.Load())
}

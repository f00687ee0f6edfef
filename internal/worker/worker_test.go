package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(context.Background(), func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(0)
	p.Stop()
	p.Stop()
	require.ErrorIs(t, p.Submit(context.Background(), func() {}), ErrStopped)
	require.ErrorIs(t, Do(context.Background(), p, func() {}), ErrStopped)
}

func TestDo(t *testing.T) {
	p := NewPool(1)
	defer p.Stop()

	ran := false
	require.NoError(t, Do(context.Background(), p, func() { ran = true }))
	require.True(t, ran)
}

func TestDoContextCanceled(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	// occupy the only worker
	require.NoError(t, p.Submit(context.Background(), func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Do(ctx, p, func() {})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.Stop()
}

package gate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire_SecondRequestIsBusy(t *testing.T) {
	g := New()

	slot, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	defer slot.Release()

	_, err = g.TryAcquire(context.Background(), 1)
	assert.True(t, errors.Is(err, domain.ErrBusy))
}

func TestTryAcquire_UsersAreIsolated(t *testing.T) {
	g := New()

	a, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	defer a.Release()

	// User 2 is not affected by user 1's held slot.
	b, err := g.TryAcquire(context.Background(), 2)
	require.NoError(t, err)
	b.Release()
}

func TestRelease_FreesSlotForNextRequest(t *testing.T) {
	g := New()

	slot, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	slot.Release()

	next, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	next.Release()
}

func TestRelease_Idempotent(t *testing.T) {
	g := New()

	slot, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)

	slot.Release()
	slot.Release()

	// A stale double-release must not free a newly granted slot.
	next, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	slot.Release()
	assert.True(t, g.Busy(1))
	next.Release()
	assert.False(t, g.Busy(1))
}

func TestCancel_PropagatesToSlotContext(t *testing.T) {
	g := New()

	slot, err := g.TryAcquire(context.Background(), 1)
	require.NoError(t, err)
	defer slot.Release()

	require.NoError(t, slot.Context().Err())
	assert.True(t, g.Cancel(1))

	select {
	case <-slot.Context().Done():
	default:
		t.Fatal("slot context not cancelled")
	}

	// Cancellation alone does not release the slot; the holder does.
	assert.True(t, g.Busy(1))
}

func TestCancel_NothingInFlight(t *testing.T) {
	g := New()
	assert.False(t, g.Cancel(42))
}

func TestTryAcquire_ConcurrentSingleWinner(t *testing.T) {
	g := New()

	const attempts = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	var granted []*Slot

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s, err := g.TryAcquire(context.Background(), 7); err == nil {
				mu.Lock()
				granted = append(granted, s)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// At most one slot may exist for a user at any instant; since no winner
	// released, exactly one acquire succeeded.
	require.Len(t, granted, 1)
	granted[0].Release()
}

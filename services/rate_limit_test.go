package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimitService(store BucketStore) *RateLimitService {
	return &RateLimitService{
		store:     store,
		anonLimit: 5,
		authLimit: 20,
		window:    time.Hour,
		storeKind: "memory",
	}
}

func TestMemoryBucketStore_ConsumesBudget(t *testing.T) {
	store := NewMemoryBucketStore()

	for i, wantRemaining := range []int{4, 3, 2, 1, 0} {
		info, err := store.Consume("203.0.113.7", 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, info.Allowed, "attempt %d should be admitted", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, wantRemaining, info.Remaining)
	}

	info, err := store.Consume("203.0.113.7", 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
}

func TestMemoryBucketStore_DenialKeepsResetTime(t *testing.T) {
	store := NewMemoryBucketStore()

	first, err := store.Consume("id", 1, time.Hour)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	denied, err := store.Consume("id", 1, time.Hour)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)
	assert.Equal(t, first.ResetTime, denied.ResetTime, "a denied attempt must not extend the window")
}

func TestMemoryBucketStore_WindowReset(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := NewMemoryBucketStore()
	store.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		info, err := store.Consume("id", 5, time.Hour)
		require.NoError(t, err)
		require.True(t, info.Allowed)
	}

	info, err := store.Consume("id", 5, time.Hour)
	require.NoError(t, err)
	require.False(t, info.Allowed)

	// Just past the window boundary the full budget is available again.
	now = now.Add(time.Hour + time.Second)

	info, err = store.Consume("id", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 4, info.Remaining)
	assert.Equal(t, now.Add(time.Hour), info.ResetTime)
}

func TestMemoryBucketStore_BackwardClockOpensFreshWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := NewMemoryBucketStore()
	store.now = func() time.Time { return now }

	_, err := store.Consume("id", 5, time.Hour)
	require.NoError(t, err)

	// resetAt is now in the future relative to the jumped-back clock, so
	// counting continues in the same window rather than resetting.
	now = now.Add(-30 * time.Minute)

	info, err := store.Consume("id", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 3, info.Remaining)
}

func TestMemoryBucketStore_IdentitiesAreIndependent(t *testing.T) {
	store := NewMemoryBucketStore()

	for i := 0; i < 5; i++ {
		info, err := store.Consume("exhausted", 5, time.Hour)
		require.NoError(t, err)
		require.True(t, info.Allowed)
	}

	blocked, err := store.Consume("exhausted", 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	fresh, err := store.Consume("untouched", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh.Allowed)
	assert.Equal(t, 4, fresh.Remaining)
}

func TestMemoryBucketStore_ConcurrentLastSlots(t *testing.T) {
	store := NewMemoryBucketStore()
	const limit = 5
	const attempts = 50

	var wg sync.WaitGroup
	allowed := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := store.Consume("contended", limit, time.Hour)
			require.NoError(t, err)
			allowed <- info.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	admitted := 0
	for ok := range allowed {
		if ok {
			admitted++
		}
	}
	assert.Equal(t, limit, admitted, "exactly the budget must be admitted under contention")
}

func TestMemoryBucketStore_Sweep(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := NewMemoryBucketStore()
	store.now = func() time.Time { return now }

	_, err := store.Consume("old", 5, time.Hour)
	require.NoError(t, err)

	now = now.Add(4 * time.Hour)

	_, err = store.Consume("recent", 5, time.Hour)
	require.NoError(t, err)

	removed := store.Sweep(2 * time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	// The swept identity starts over with a full budget.
	info, err := store.Consume("old", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 4, info.Remaining)
}

func TestRateLimitService_ClassSplit(t *testing.T) {
	svc := newTestRateLimitService(NewMemoryBucketStore())

	assert.Equal(t, 5, svc.LimitFor(false))
	assert.Equal(t, 20, svc.LimitFor(true))

	anon, err := svc.Check("198.51.100.1", false)
	require.NoError(t, err)
	assert.Equal(t, 5, anon.Limit)
	assert.Equal(t, 4, anon.Remaining)

	auth, err := svc.Check("user-1", true)
	require.NoError(t, err)
	assert.Equal(t, 20, auth.Limit)
	assert.Equal(t, 19, auth.Remaining)
}

func TestRateLimitService_Reset(t *testing.T) {
	svc := newTestRateLimitService(NewMemoryBucketStore())

	for i := 0; i < 5; i++ {
		info, err := svc.Check("198.51.100.1", false)
		require.NoError(t, err)
		require.True(t, info.Allowed, "attempt %d", i+1)
	}

	blocked, err := svc.Check("198.51.100.1", false)
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	require.NoError(t, svc.Reset("198.51.100.1"))

	info, err := svc.Check("198.51.100.1", false)
	require.NoError(t, err)
	assert.True(t, info.Allowed)
	assert.Equal(t, 4, info.Remaining)
}

func TestRateLimitService_Stats(t *testing.T) {
	svc := newTestRateLimitService(NewMemoryBucketStore())

	for i := 0; i < 3; i++ {
		_, err := svc.Check(fmt.Sprintf("identity-%d", i), false)
		require.NoError(t, err)
	}

	stats := svc.Stats()
	assert.Equal(t, 5, stats.AnonymousLimit)
	assert.Equal(t, 20, stats.AuthenticatedLimit)
	assert.Equal(t, "1h0m0s", stats.Window)
	assert.Equal(t, "memory", stats.Store)
	assert.Equal(t, 3, stats.TrackedIdentities)
}

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*TermLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewTermLocker(rdb, 10*time.Minute), mr
}

func TestAcquireAndRelease(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, 1, "run-a"))
	assert.Equal(t, 10*time.Minute, mr.TTL("schedule_lock_term_1"))

	// 同一学期的第二个任务拿不到锁，其他学期不受影响
	assert.ErrorIs(t, locker.Acquire(ctx, 1, "run-b"), ErrLocked)
	assert.NoError(t, locker.Acquire(ctx, 2, "run-c"))

	require.NoError(t, locker.Release(ctx, 1, "run-a"))
	assert.False(t, mr.Exists("schedule_lock_term_1"))
	assert.NoError(t, locker.Acquire(ctx, 1, "run-b"))
}

func TestReleaseWithWrongTokenKeepsLock(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, 1, "run-a"))
	require.NoError(t, locker.Release(ctx, 1, "run-b"))

	value, err := mr.Get("schedule_lock_term_1")
	require.NoError(t, err)
	assert.Equal(t, "run-a", value)
}

func TestLockExpires(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, 1, "run-a"))
	mr.FastForward(11 * time.Minute)

	assert.NoError(t, locker.Acquire(ctx, 1, "run-b"))
}

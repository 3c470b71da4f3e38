package throttle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(max int, window time.Duration) (*Memory, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(Config{MaxAttempts: max, Window: window})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemoryBlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := m.Allow(ctx, "ann@x.io")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d should be allowed", i+1)
		require.NoError(t, m.Fail(ctx, "ann@x.io"))
	}

	ok, err := m.Allow(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Allow(ctx, "bob@x.io")
	require.NoError(t, err)
	assert.True(t, ok, "other keys are unaffected")
}

func TestMemoryWindowExpires(t *testing.T) {
	ctx := context.Background()
	m, now := newTestMemory(1, time.Minute)

	require.NoError(t, m.Fail(ctx, "k"))
	ok, _ := m.Allow(ctx, "k")
	require.False(t, ok)

	*now = now.Add(59 * time.Second)
	ok, _ = m.Allow(ctx, "k")
	assert.False(t, ok)

	*now = now.Add(time.Second)
	ok, _ = m.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryReset(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(1, time.Hour)

	require.NoError(t, m.Fail(ctx, "k"))
	require.NoError(t, m.Reset(ctx, "k"))

	ok, err := m.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemorySweepsExpiredWindows(t *testing.T) {
	ctx := context.Background()
	m, now := newTestMemory(5, time.Minute)

	for i := 0; i < 10000; i++ {
		require.NoError(t, m.Fail(ctx, fmt.Sprintf("user%d@x.io", i)))
	}
	require.Len(t, m.windows, 10000)

	*now = now.Add(30 * time.Second)
	require.NoError(t, m.Fail(ctx, "late@x.io"))
	assert.Len(t, m.windows, 10001, "live windows survive a sweep")

	*now = now.Add(24 * time.Hour)
	require.NoError(t, m.Fail(ctx, "fresh@x.io"))
	assert.Len(t, m.windows, 1)
	assert.Contains(t, m.windows, "fresh@x.io")
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "throttle:login:ann@x.io", redisKey("ann@x.io"))
}

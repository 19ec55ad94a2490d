package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	incrErr   error
	expireErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCounter) ExpireNX(ctx context.Context, key string, d time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key, d, "nx")
	if f.expireErr != nil {
		cmd.SetErr(f.expireErr)
		return cmd
	}
	if _, ok := f.expires[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.expires[key] = d
	cmd.SetVal(true)
	return cmd
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	fc := newFakeCounter()
	l := newRedisLimiter(fc, "persuade:", 2, time.Minute)
	ctx := context.Background()

	for i, want := range []bool{true, true, false, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "hit %d", i+1)
	}

	assert.Equal(t, map[string]time.Duration{"persuade:1.2.3.4": time.Minute}, fc.expires)

	ok, err := l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	fc := newFakeCounter()
	fc.incrErr = errors.New("connection refused")
	l := newRedisLimiter(fc, "p:", 1, time.Minute)

	ok, err := l.Allow(context.Background(), "k")
	assert.True(t, ok)
	assert.ErrorContains(t, err, "connection refused")

	fc.incrErr = nil
	fc.expireErr = errors.New("readonly")
	ok, err = l.Allow(context.Background(), "k")
	assert.True(t, ok)
	assert.ErrorContains(t, err, "readonly")
}

func TestRedisLimiter_LostExpireIsRetried(t *testing.T) {
	fc := newFakeCounter()
	l := newRedisLimiter(fc, "p:", 1, time.Minute)
	ctx := context.Background()

	fc.expireErr = errors.New("transient")
	ok, err := l.Allow(ctx, "k")
	assert.True(t, ok)
	require.ErrorContains(t, err, "transient")
	assert.Empty(t, fc.expires)

	fc.expireErr = nil
	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, map[string]time.Duration{"p:k": time.Minute}, fc.expires, "the window is set on a later hit")

	_, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, fc.expires["p:k"], "an existing TTL is kept")
}

func TestNop(t *testing.T) {
	ok, err := Nop{}.Allow(context.Background(), "anything")
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestNewRedisLimiter(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, "p:", 5, time.Second)
	assert.EqualValues(t, 5, l.limit)
	assert.Equal(t, time.Second, l.window)
}

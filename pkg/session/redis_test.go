package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, clock *fakeClock) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", WithClock(clock.Now)), mr
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, clock)
	ctx := context.Background()

	token, err := store.Create(ctx, testFiles, testCreds, "/pub", time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists(DefaultRedisPrefix+token))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+token))

	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, testFiles, sess.Files)
	assert.Equal(t, testCreds, sess.Credentials)
	assert.Equal(t, "/pub", sess.CurrentPath)
	assert.True(t, clock.Now().Add(time.Minute).Equal(sess.Expires))
}

func TestRedisStore_GetUnknownToken(t *testing.T) {
	store, _ := newTestRedisStore(t, newFakeClock())

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_GetExpiredDeletes(t *testing.T) {
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, clock)
	ctx := context.Background()

	token, err := store.Create(ctx, testFiles, testCreds, "/", time.Second)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, mr.Exists(DefaultRedisPrefix+token))
}

func TestRedisStore_CorruptValueIsDropped(t *testing.T) {
	store, mr := newTestRedisStore(t, newFakeClock())

	require.NoError(t, mr.Set(DefaultRedisPrefix+"broken", "{not json"))

	_, err := store.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, mr.Exists(DefaultRedisPrefix+"broken"))
}

func TestRedisStore_SweepAndLen(t *testing.T) {
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, clock)
	ctx := context.Background()

	_, err := store.Create(ctx, nil, testCreds, "/", time.Second)
	require.NoError(t, err)
	keep, err := store.Create(ctx, nil, testCreds, "/", time.Hour)
	require.NoError(t, err)
	require.NoError(t, mr.Set("unrelated", "value"))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	clock.Advance(time.Minute)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err = store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Get(ctx, keep)
	assert.NoError(t, err)
	assert.True(t, mr.Exists("unrelated"))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0", "test:")
	require.NoError(t, err)
	defer store.Close()

	token, err := store.Create(context.Background(), nil, testCreds, "/", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:"+token))

	_, err = DialRedis(context.Background(), "::not a url", "")
	assert.Error(t, err)
}

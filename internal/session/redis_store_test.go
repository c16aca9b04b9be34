package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/admin-console/internal/session"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *session.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, session.NewRedisStore(client, prefix, ttl)
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	mr, store := newRedisStore(t, time.Hour)
	ctx := context.Background()
	sid := uuid.NewString()

	rec := session.Record{Token: "tok", User: `{"email":"a@shop.test","role":"Admin"}`}
	require.NoError(t, store.Save(ctx, sid, rec))

	raw, err := mr.Get(session.TokenKey(prefix, sid))
	require.NoError(t, err)
	assert.Equal(t, "tok", raw)
	assert.Equal(t, time.Hour, mr.TTL(session.UserKey(prefix, sid)))

	got, err := store.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, store.Clear(ctx, sid))
	assert.False(t, mr.Exists(session.TokenKey(prefix, sid)))
	assert.False(t, mr.Exists(session.UserKey(prefix, sid)))

	got, err = store.Load(ctx, sid)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestRedisStore_MissingUserKeyLoadsToken(t *testing.T) {
	mr, store := newRedisStore(t, time.Hour)
	sid := uuid.NewString()
	require.NoError(t, mr.Set(session.TokenKey(prefix, sid), "tok"))

	got, err := store.Load(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Empty(t, got.User)
}

func TestRedisStore_LoadSlidesTTL(t *testing.T) {
	mr, store := newRedisStore(t, 30*time.Minute)
	ctx := context.Background()
	sid := uuid.NewString()
	require.NoError(t, store.Save(ctx, sid, session.Record{Token: "tok", User: "{}"}))

	// activity inside the window keeps the session alive past the original expiry
	mr.FastForward(20 * time.Minute)
	_, err := store.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL(session.TokenKey(prefix, sid)))
	assert.Equal(t, 30*time.Minute, mr.TTL(session.UserKey(prefix, sid)))

	mr.FastForward(20 * time.Minute)
	got, err := store.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)

	// idle for a full window
	mr.FastForward(31 * time.Minute)
	got, err = store.Load(ctx, sid)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestRedisStore_LoadFailsWhenRedisIsDown(t *testing.T) {
	mr, store := newRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Load(context.Background(), uuid.NewString())
	assert.Error(t, err)
}

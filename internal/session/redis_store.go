package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis with a sliding TTL: every Load
// pushes the expiry of both keys forward.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, sid string) (Record, error) {
	tokenKey, userKey := TokenKey(r.prefix, sid), UserKey(r.prefix, sid)

	var token, user *redis.StringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		token = pipe.Get(ctx, tokenKey)
		user = pipe.Get(ctx, userKey)
		if r.ttl > 0 {
			pipe.Expire(ctx, tokenKey, r.ttl)
			pipe.Expire(ctx, userKey, r.ttl)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("load session: %w", err)
	}
	return Record{Token: token.Val(), User: user.Val()}, nil
}

func (r *RedisStore) Save(ctx context.Context, sid string, rec Record) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, TokenKey(r.prefix, sid), rec.Token, r.ttl)
		pipe.Set(ctx, UserKey(r.prefix, sid), rec.User, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, TokenKey(r.prefix, sid), UserKey(r.prefix, sid)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close is a no-op; the client is owned by persistence.Redis.
func (r *RedisStore) Close() error {
	return nil
}

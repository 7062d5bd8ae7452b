package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ pluginapi.Store = &RedisStore{}

type RedisStore struct {
	client RedisClient
	ns     string
	ttl    time.Duration
}

type redisStoreOption func(*RedisStore)

// WithRedisStoreTTL expires keys after ttl. Zero keeps them forever.
func WithRedisStoreTTL(ttl time.Duration) redisStoreOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func WithRedisStoreNamespace(ns string) redisStoreOption {
	return func(s *RedisStore) {
		s.ns = ns
	}
}

func NewRedisStore(client RedisClient, opts ...redisStoreOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("key", s.key(key)).Msg("get value from redis")

	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", pluginapi.ErrKeyNotFound
	}

	return v, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	zerolog.Ctx(ctx).Debug().Str("key", s.key(key)).Str("value", value).Msg("store value in redis")

	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *RedisStore) key(k string) string {
	if s.ns == "" {
		return k
	}
	return strings.Join([]string{s.ns, k}, "::")
}

// Close releases the client's connection pool when the client owns one.
func (s *RedisStore) Close() error {
	if c, ok := s.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

// RedisStore is a Redis-backed TTLStore. Values are JSON-encoded; expiry is
// enforced server-side by Redis. Infrastructure failures are logged and
// reported as cache misses so the retrieval layer degrades to re-fetching
// rather than erroring.
type RedisStore[V any] struct {
	client *redis.Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore writing keys under the given prefix.
// A ttl <= 0 falls back to DefaultTTL.
func NewRedisStore[V any](client *redis.Client, log logging.Logger, prefix string, ttl time.Duration) *RedisStore[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &RedisStore[V]{
		client: client,
		logger: log.Named("cache.redis"),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore[V]) key(k string) string {
	return s.prefix + k
}

// Get returns the decoded value stored under key and true, or the zero value
// and false on a miss, an expired entry, or any Redis/decoding failure.
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		s.logger.Warn("redis get failed", logging.String("key", key), logging.Err(err))
		return zero, false
	}
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("redis entry decode failed", logging.String("key", key), logging.Err(err))
		return zero, false
	}
	return value, true
}

// Put stores value under key with the store's TTL. Failures are logged and
// otherwise ignored; the entry is simply absent on the next lookup.
func (s *RedisStore[V]) Put(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("redis entry encode failed", logging.String("key", key), logging.Err(err))
		return
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", logging.String("key", key), logging.Err(err))
	}
}

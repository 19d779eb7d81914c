package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shortlink/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// BackendRedis names the Redis backend
const BackendRedis = "redis"

// RedisStore implements KVStore on top of Redis
type RedisStore struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisStore creates a new Redis store
func NewRedisStore(cfg *config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("Failed to connect to Redis")
	} else {
		log.Info().Str("addr", cfg.Addr).Msg("Redis connected successfully")
	}

	return &RedisStore{
		client: rdb,
		cfg:    cfg,
	}
}

// Backend returns the backend name
func (r *RedisStore) Backend() string {
	return BackendRedis
}

// Get returns the string value of key
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", unavailable("get", key, err)
	}
	return val, nil
}

// Set stores value under key
func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// SetNX stores value under key only when key does not exist yet
func (r *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, unavailable("setnx", key, err)
	}
	return ok, nil
}

// Incr atomically increments the counter at key
func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable("incr", key, err)
	}
	return n, nil
}

// HSet sets one hash field
func (r *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return unavailable("hset", key, err)
	}
	return nil
}

// HSetAll sets several hash fields at once
func (r *RedisStore) HSetAll(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	if err := r.client.HSet(ctx, key, values).Err(); err != nil {
		return unavailable("hset", key, err)
	}
	return nil
}

// HGetAll returns every field of a hash, empty when the key is missing
func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, unavailable("hgetall", key, err)
	}
	return fields, nil
}

// ZAdd sets the score of member
func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return unavailable("zadd", key, err)
	}
	return nil
}

// ZIncrBy atomically increments the score of member
func (r *RedisStore) ZIncrBy(ctx context.Context, key string, delta float64, member string) (float64, error) {
	score, err := r.client.ZIncrBy(ctx, key, delta, member).Result()
	if err != nil {
		return 0, unavailable("zincrby", key, err)
	}
	return score, nil
}

// ZRange returns members by ascending score
func (r *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.client.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, unavailable("zrange", key, err)
	}
	return members, nil
}

// ZRangeWithScores returns members and scores by ascending score
func (r *RedisStore) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	zs, err := r.client.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, unavailable("zrange", key, err)
	}
	return toScoredMembers(zs), nil
}

// ZRevRangeWithScores returns members and scores by descending score
func (r *RedisStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, unavailable("zrevrange", key, err)
	}
	return toScoredMembers(zs), nil
}

// ZRem removes member from a sorted set
func (r *RedisStore) ZRem(ctx context.Context, key, member string) error {
	if err := r.client.ZRem(ctx, key, member).Err(); err != nil {
		return unavailable("zrem", key, err)
	}
	return nil
}

// Exists checks if key exists
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, unavailable("exists", key, err)
	}
	return n > 0, nil
}

// Rename moves oldKey to newKey
func (r *RedisStore) Rename(ctx context.Context, oldKey, newKey string) (bool, error) {
	err := r.client.Rename(ctx, oldKey, newKey).Err()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return false, nil
		}
		return false, unavailable("rename", oldKey, err)
	}
	return true, nil
}

// Del removes key
func (r *RedisStore) Del(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, unavailable("del", key, err)
	}
	return n > 0, nil
}

// Expire sets the lifetime of key
func (r *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, unavailable("expire", key, err)
	}
	return ok, nil
}

// Persist removes the lifetime of key
func (r *RedisStore) Persist(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.Persist(ctx, key).Result()
	if err != nil {
		return false, unavailable("persist", key, err)
	}
	return ok, nil
}

// TTL returns the remaining lifetime of key in seconds
func (r *RedisStore) TTL(ctx context.Context, key string) (int64, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, unavailable("ttl", key, err)
	}
	// go-redis passes the -1/-2 markers through unscaled
	if d < 0 {
		return int64(d), nil
	}
	return int64(d / time.Second), nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func toScoredMembers(zs []redis.Z) []ScoredMember {
	out := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, ScoredMember{Member: member, Score: z.Score})
	}
	return out
}

func unavailable(op, key string, err error) error {
	msg := err.Error()
	if strings.HasPrefix(msg, "WRONGTYPE") || strings.Contains(msg, "not an integer") {
		return fmt.Errorf("%w: %s %s", ErrWrongType, op, key)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrStoreUnavailable, op, key, err)
}

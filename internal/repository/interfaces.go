package repository

import (
	"context"
	"errors"
	"time"

	"shortlink/internal/model"
)

var (
	// ErrKeyNotFound is returned by Get when the key does not exist
	ErrKeyNotFound = errors.New("key not found")
	// ErrStoreUnavailable wraps every backend failure
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWrongType is returned when an operation targets a key holding another kind of value
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")
)

// Values returned by TTL for keys without a remaining lifetime
const (
	TTLNoExpiry int64 = -1
	TTLMissing  int64 = -2
)

// ScoredMember is one entry of a sorted set
type ScoredMember struct {
	Member string
	Score  float64
}

// KVStore is the key-value contract shared by the Redis and in-memory
// backends. Sorted-set ranges order by score and break ties by member, in
// ascending order for ZRange* and descending order for ZRevRangeWithScores.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl stores it without expiry and
	// clears any previous one.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	HSet(ctx context.Context, key, field, value string) error
	HSetAll(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZIncrBy(ctx context.Context, key string, delta float64, member string) (float64, error)
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
	ZRem(ctx context.Context, key, member string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Rename moves oldKey to newKey, overwriting newKey. It reports false
	// when oldKey does not exist.
	Rename(ctx context.Context, oldKey, newKey string) (bool, error)
	Del(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Persist(ctx context.Context, key string) (bool, error)
	// TTL returns the remaining lifetime in seconds, TTLNoExpiry or TTLMissing.
	TTL(ctx context.Context, key string) (int64, error)
	Backend() string
	Close() error
}

// ClickLogRepositoryInterface defines the interface for the raw click archive
type ClickLogRepositoryInterface interface {
	SaveClickLog(ctx context.Context, click *model.ClickLog) error
	GetClickLogs(ctx context.Context, slug string, limit int) ([]model.ClickLog, error)
	RenameSlug(ctx context.Context, oldSlug, newSlug string) error
	DeleteBySlug(ctx context.Context, slug string) (int64, error)
	Close() error
}

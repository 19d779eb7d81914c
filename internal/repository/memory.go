package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BackendMemory names the in-process backend
const BackendMemory = "memory"

// MemoryStore implements KVStore in process memory. It mirrors the Redis
// semantics the services rely on: one key namespace across strings, hashes
// and sorted sets, per-key expiry and the same range ordering. Data is lost
// on restart and is not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	strs    map[string]string
	hashes  map[string]map[string]string
	zsets   map[string]map[string]float64
	expires map[string]time.Time
	timers  map[string]*time.Timer
	closed  bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	log.Warn().Msg("Using in-memory store; data is not persisted and not shared across instances")

	return &MemoryStore{
		strs:    make(map[string]string),
		hashes:  make(map[string]map[string]string),
		zsets:   make(map[string]map[string]float64),
		expires: make(map[string]time.Time),
		timers:  make(map[string]*time.Timer),
	}
}

// Backend returns the backend name
func (m *MemoryStore) Backend() string {
	return BackendMemory
}

// Get returns the string value of key
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return "", err
	}
	if !m.isString(key) {
		if m.exists(key) {
			return "", wrongType("get", key)
		}
		return "", ErrKeyNotFound
	}
	return m.strs[key], nil
}

// Set stores value under key, replacing any value and expiry it had
func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return err
	}
	m.set(key, value, ttl)
	return nil
}

// SetNX stores value under key only when key does not exist yet
func (m *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return false, err
	}
	if m.exists(key) {
		return false, nil
	}
	m.set(key, value, ttl)
	return true, nil
}

// Incr increments the counter at key, keeping its expiry
func (m *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return 0, err
	}
	if m.exists(key) && !m.isString(key) {
		return 0, wrongType("incr", key)
	}

	var n int64
	if v, ok := m.strs[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, wrongType("incr", key)
		}
		n = parsed
	}
	n++
	m.strs[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// HSet sets one hash field
func (m *MemoryStore) HSet(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return err
	}
	h, err := m.hash(key, "hset")
	if err != nil {
		return err
	}
	h[field] = value
	return nil
}

// HSetAll sets several hash fields at once
func (m *MemoryStore) HSetAll(_ context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return err
	}
	h, err := m.hash(key, "hset")
	if err != nil {
		return err
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

// HGetAll returns a copy of every field of a hash, empty when the key is missing
func (m *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return nil, err
	}
	if m.exists(key) && m.hashes[key] == nil {
		return nil, wrongType("hgetall", key)
	}

	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

// ZAdd sets the score of member
func (m *MemoryStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return err
	}
	z, err := m.zset(key, "zadd")
	if err != nil {
		return err
	}
	z[member] = score
	return nil
}

// ZIncrBy increments the score of member
func (m *MemoryStore) ZIncrBy(_ context.Context, key string, delta float64, member string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return 0, err
	}
	z, err := m.zset(key, "zincrby")
	if err != nil {
		return 0, err
	}
	z[member] += delta
	return z[member], nil
}

// ZRange returns members by ascending score
func (m *MemoryStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	scored, err := m.ZRangeWithScores(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(scored))
	for _, sm := range scored {
		members = append(members, sm.Member)
	}
	return members, nil
}

// ZRangeWithScores returns members and scores by ascending score
func (m *MemoryStore) ZRangeWithScores(_ context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	return m.zrange(key, start, stop, false)
}

// ZRevRangeWithScores returns members and scores by descending score
func (m *MemoryStore) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	return m.zrange(key, start, stop, true)
}

// ZRem removes member from a sorted set
func (m *MemoryStore) ZRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return err
	}
	if m.exists(key) && m.zsets[key] == nil {
		return wrongType("zrem", key)
	}
	z := m.zsets[key]
	delete(z, member)
	if z != nil && len(z) == 0 {
		m.remove(key)
	}
	return nil
}

// Exists checks if key exists
func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return false, err
	}
	return m.exists(key), nil
}

// Rename moves oldKey and its expiry to newKey
func (m *MemoryStore) Rename(_ context.Context, oldKey, newKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(oldKey); err != nil {
		return false, err
	}
	m.expireIfDue(newKey)
	if !m.exists(oldKey) {
		return false, nil
	}
	if oldKey == newKey {
		return true, nil
	}

	deadline, hasDeadline := m.expires[oldKey]
	m.remove(newKey)
	switch {
	case m.isString(oldKey):
		m.strs[newKey] = m.strs[oldKey]
	case m.hashes[oldKey] != nil:
		m.hashes[newKey] = m.hashes[oldKey]
	default:
		m.zsets[newKey] = m.zsets[oldKey]
	}
	m.remove(oldKey)
	if hasDeadline {
		m.expireAt(newKey, deadline)
	}
	return true, nil
}

// Del removes key
func (m *MemoryStore) Del(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return false, err
	}
	if !m.exists(key) {
		return false, nil
	}
	m.remove(key)
	return true, nil
}

// Expire sets the lifetime of key. A non-positive ttl deletes the key.
func (m *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return false, err
	}
	if !m.exists(key) {
		return false, nil
	}
	if ttl <= 0 {
		m.remove(key)
		return true, nil
	}
	m.expireAt(key, time.Now().Add(ttl))
	return true, nil
}

// Persist removes the lifetime of key
func (m *MemoryStore) Persist(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return false, err
	}
	if _, ok := m.expires[key]; !ok || !m.exists(key) {
		return false, nil
	}
	m.clearExpiry(key)
	return true, nil
}

// TTL returns the remaining lifetime of key in seconds
func (m *MemoryStore) TTL(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return 0, err
	}
	if !m.exists(key) {
		return TTLMissing, nil
	}
	deadline, ok := m.expires[key]
	if !ok {
		return TTLNoExpiry, nil
	}
	remaining := time.Until(deadline)
	return int64((remaining + 500*time.Millisecond) / time.Second), nil
}

// Close stops the expiry timers and drops every key
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.timers {
		t.Stop()
	}
	m.strs = make(map[string]string)
	m.hashes = make(map[string]map[string]string)
	m.zsets = make(map[string]map[string]float64)
	m.expires = make(map[string]time.Time)
	m.timers = make(map[string]*time.Timer)
	m.closed = true
	return nil
}

// begin must be called with the lock held
func (m *MemoryStore) begin(key string) error {
	if m.closed {
		return fmt.Errorf("%w: memory store closed", ErrStoreUnavailable)
	}
	m.expireIfDue(key)
	return nil
}

func (m *MemoryStore) zrange(key string, start, stop int64, reverse bool) ([]ScoredMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.begin(key); err != nil {
		return nil, err
	}
	if m.exists(key) && m.zsets[key] == nil {
		return nil, wrongType("zrange", key)
	}

	all := make([]ScoredMember, 0, len(m.zsets[key]))
	for member, score := range m.zsets[key] {
		all = append(all, ScoredMember{Member: member, Score: score})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score < all[j].Score
		}
		return all[i].Member < all[j].Member
	})
	if reverse {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	lo, hi, ok := rangeBounds(int64(len(all)), start, stop)
	if !ok {
		return []ScoredMember{}, nil
	}
	return all[lo : hi+1], nil
}

// rangeBounds resolves Redis-style inclusive indexes, where negative values
// count from the end.
func rangeBounds(n, start, stop int64) (int64, int64, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}

func (m *MemoryStore) set(key, value string, ttl time.Duration) {
	m.remove(key)
	m.strs[key] = value
	if ttl > 0 {
		m.expireAt(key, time.Now().Add(ttl))
	}
}

func (m *MemoryStore) hash(key, op string) (map[string]string, error) {
	if h := m.hashes[key]; h != nil {
		return h, nil
	}
	if m.exists(key) {
		return nil, wrongType(op, key)
	}
	h := make(map[string]string)
	m.hashes[key] = h
	return h, nil
}

func (m *MemoryStore) zset(key, op string) (map[string]float64, error) {
	if z := m.zsets[key]; z != nil {
		return z, nil
	}
	if m.exists(key) {
		return nil, wrongType(op, key)
	}
	z := make(map[string]float64)
	m.zsets[key] = z
	return z, nil
}

func (m *MemoryStore) isString(key string) bool {
	_, ok := m.strs[key]
	return ok
}

func (m *MemoryStore) exists(key string) bool {
	return m.isString(key) || m.hashes[key] != nil || m.zsets[key] != nil
}

func (m *MemoryStore) expireIfDue(key string) {
	if deadline, ok := m.expires[key]; ok && !time.Now().Before(deadline) {
		m.remove(key)
	}
}

func (m *MemoryStore) expireAt(key string, deadline time.Time) {
	m.clearExpiry(key)
	m.expires[key] = deadline
	m.timers[key] = time.AfterFunc(time.Until(deadline), func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// The key may have been given a new deadline since this timer was armed.
		if current, ok := m.expires[key]; ok && current.Equal(deadline) {
			m.remove(key)
		}
	})
}

func (m *MemoryStore) clearExpiry(key string) {
	if t, ok := m.timers[key]; ok {
		t.Stop()
		delete(m.timers, key)
	}
	delete(m.expires, key)
}

func (m *MemoryStore) remove(key string) {
	m.clearExpiry(key)
	delete(m.strs, key)
	delete(m.hashes, key)
	delete(m.zsets, key)
}

func wrongType(op, key string) error {
	return fmt.Errorf("%w: %s %s", ErrWrongType, op, key)
}

package service

import (
	"context"
	"fmt"
	"time"

	"shortlink/internal/repository"

	"github.com/rs/zerolog/log"
)

// Rate-limit key scopes
const (
	ScopeTrack  = ""
	ScopeCreate = "create"
)

// RateLimiter enforces a fixed-window cap per IP and per session using the
// store's atomic counters.
type RateLimiter struct {
	store  repository.KVStore
	scope  string
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a new RateLimiter allowing limit calls per window
func NewRateLimiter(store repository.KVStore, scope string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		scope:  scope,
		limit:  limit,
		window: window,
	}
}

// Allow counts one call for ip and sid. It returns ErrRateLimited when either
// window is full, and the store error when the counters cannot be read.
// Empty identifiers are not limited.
func (r *RateLimiter) Allow(ctx context.Context, ip, sid string) error {
	if ip != "" {
		if err := r.hit(ctx, repository.RateIPKey(r.scope, ip)); err != nil {
			return err
		}
	}
	if sid != "" {
		if err := r.hit(ctx, repository.RateSIDKey(r.scope, sid)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RateLimiter) hit(ctx context.Context, key string) error {
	count, err := r.store.Incr(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to count request: %w", err)
	}

	if count == 1 {
		if _, err := r.store.Expire(ctx, key, r.window); err != nil {
			return fmt.Errorf("failed to start rate window: %w", err)
		}
	}

	if count <= r.limit {
		return nil
	}

	// A counter left without expiry (lost EXPIRE after INCR) would block forever
	ttl, err := r.store.TTL(ctx, key)
	if err == nil && ttl == repository.TTLNoExpiry {
		log.Warn().Str("key", key).Msg("Rate counter had no expiry, restoring window")
		if _, err := r.store.Expire(ctx, key, r.window); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to restore rate window")
		}
	}
	return ErrRateLimited
}

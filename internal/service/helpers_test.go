package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/model"
	"shortlink/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (repository.KVStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	store := repository.NewRedisStore(&config.RedisConfig{Addr: s.Addr()})
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func testLinksConfig() config.LinksConfig {
	return config.LinksConfig{
		SlugLength:      7,
		MaxSlugRetries:  10,
		OwnerCanDelete:  false,
		CreateRateLimit: 10,
		ListPageSize:    50,
		ListPageMax:     100,
	}
}

// stepClock returns a clock that advances by step on every call
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(step)
		return now
	}
}

func newTestLinkService(t *testing.T) (*LinkService, repository.KVStore, *miniredis.Miniredis) {
	t.Helper()

	store, s := newMiniredisStore(t)
	svc := NewLinkService(store, nil, testLinksConfig())
	svc.now = stepClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Second)
	return svc, store, s
}

func mustCreate(t *testing.T, svc *LinkService, url, slug, owner string) *model.Link {
	t.Helper()

	link, err := svc.Create(context.Background(), &model.CreateLinkRequest{URL: url, Slug: slug}, owner)
	require.NoError(t, err)
	return link
}

// allowAll is a limiter that never rejects
type allowAll struct{}

func (allowAll) Allow(context.Context, string, string) error { return nil }

// faultyStore fails the listed operations with ErrStoreUnavailable
type faultyStore struct {
	repository.KVStore
	fail map[string]bool
}

func (f *faultyStore) err(op string) error {
	if f.fail[op] {
		return fmt.Errorf("%w: %s injected", repository.ErrStoreUnavailable, op)
	}
	return nil
}

func (f *faultyStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.err("exists"); err != nil {
		return false, err
	}
	return f.KVStore.Exists(ctx, key)
}

func (f *faultyStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := f.err("incr"); err != nil {
		return 0, err
	}
	return f.KVStore.Incr(ctx, key)
}

func (f *faultyStore) ZIncrBy(ctx context.Context, key string, delta float64, member string) (float64, error) {
	if err := f.err("zincrby"); err != nil {
		return 0, err
	}
	return f.KVStore.ZIncrBy(ctx, key, delta, member)
}

func (f *faultyStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]repository.ScoredMember, error) {
	if err := f.err("zrevrange"); err != nil {
		return nil, err
	}
	return f.KVStore.ZRevRangeWithScores(ctx, key, start, stop)
}

func (f *faultyStore) HSetAll(ctx context.Context, key string, fields map[string]string) error {
	if err := f.err("hset"); err != nil {
		return err
	}
	return f.KVStore.HSetAll(ctx, key, fields)
}

func (f *faultyStore) Del(ctx context.Context, key string) (bool, error) {
	if err := f.err("del"); err != nil {
		return false, err
	}
	return f.KVStore.Del(ctx, key)
}

// renameHookStore runs onRename before every Rename and fails it when the
// hook returns an error
type renameHookStore struct {
	repository.KVStore
	onRename func(oldKey, newKey string) error
}

func (r *renameHookStore) Rename(ctx context.Context, oldKey, newKey string) (bool, error) {
	if r.onRename != nil {
		if err := r.onRename(oldKey, newKey); err != nil {
			return false, err
		}
	}
	return r.KVStore.Rename(ctx, oldKey, newKey)
}

// takenStore reports every key as existing
type takenStore struct {
	repository.KVStore
}

func (takenStore) Exists(context.Context, string) (bool, error) { return true, nil }

// archiveStub records archive calls
type archiveStub struct {
	mu       sync.Mutex
	renamed  [][2]string
	deleted  []string
	clicks   []model.ClickLog
	getLimit int
}

func (a *archiveStub) SaveClickLog(_ context.Context, click *model.ClickLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clicks = append(a.clicks, *click)
	return nil
}

func (a *archiveStub) GetClickLogs(_ context.Context, slug string, limit int) ([]model.ClickLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.getLimit = limit
	var out []model.ClickLog
	for _, c := range a.clicks {
		if c.Slug == slug {
			out = append(out, c)
		}
	}
	return out, nil
}

func (a *archiveStub) RenameSlug(_ context.Context, oldSlug, newSlug string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renamed = append(a.renamed, [2]string{oldSlug, newSlug})
	for i := range a.clicks {
		if a.clicks[i].Slug == oldSlug {
			a.clicks[i].Slug = newSlug
		}
	}
	return nil
}

func (a *archiveStub) DeleteBySlug(_ context.Context, slug string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, slug)
	kept := a.clicks[:0]
	for _, c := range a.clicks {
		if c.Slug != slug {
			kept = append(kept, c)
		}
	}
	n := int64(len(a.clicks) - len(kept))
	a.clicks = kept
	return n, nil
}

func (a *archiveStub) Close() error { return nil }

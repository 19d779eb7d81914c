package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/model"
	"shortlink/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClicks(t *testing.T, store repository.KVStore, slug string, n int) {
	t.Helper()

	tracker := NewClickTracker(store, allowAll{}, nil, 30*24*time.Hour)
	for i := 0; i < n; i++ {
		require.NoError(t, tracker.Record(context.Background(), slug, &model.RequestContext{
			ClientIP:  "10.0.0.1",
			UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			Referer:   "https://news.example.com/a",
			Country:   "US",
			Region:    "CA",
		}))
	}
}

func TestNewLinkService(t *testing.T) {
	store := repository.NewMemoryStore()
	defer store.Close()

	svc := NewLinkService(store, nil, testLinksConfig())

	assert.NotNil(t, svc)
	assert.Equal(t, store, svc.store)
	assert.Nil(t, svc.archive)
	assert.Equal(t, 7, svc.encoder.Length())
}

func TestLinkService_CreateAndGet(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://example.com/page", "https://example.com/page"},
		{"root added", "http://example.com", "http://example.com/"},
		{"case folded", "HTTPS://EXAMPLE.com/Case?x=1", "https://example.com/Case?x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := svc.Create(ctx, &model.CreateLinkRequest{URL: tt.url}, "owner-1")
			require.NoError(t, err)
			assert.Len(t, link.Slug, 7)
			assert.True(t, link.Enabled)

			got, err := svc.Get(ctx, link.Slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.URL)
			assert.Equal(t, "owner-1", got.OwnerSID)
			assert.True(t, got.Enabled)
			assert.Equal(t, link.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
			assert.Zero(t, got.TotalClicks)
		})
	}
}

func TestLinkService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *model.CreateLinkRequest
		owner   string
		wantErr error
	}{
		{"missing session", &model.CreateLinkRequest{URL: "https://example.com"}, "", ErrMissingSession},
		{"relative url", &model.CreateLinkRequest{URL: "/path"}, "s1", ErrInvalidURL},
		{"ftp url", &model.CreateLinkRequest{URL: "ftp://example.com"}, "s1", ErrInvalidURL},
		{"negative ttl", &model.CreateLinkRequest{URL: "https://example.com", TTL: -1}, "s1", ErrInvalidInput},
		{"bad slug", &model.CreateLinkRequest{URL: "https://example.com", Slug: "a/b"}, "s1", ErrInvalidSlug},
		{"reserved slug", &model.CreateLinkRequest{URL: "https://example.com", Slug: "api"}, "s1", ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := svc.Create(ctx, tt.req, tt.owner)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, link)
		})
	}
}

func TestLinkService_Create_CustomSlug(t *testing.T) {
	svc, _, s := newTestLinkService(t)
	ctx := context.Background()

	link := mustCreate(t, svc, "https://example.com/a", "promo", "s1")
	assert.Equal(t, "promo", link.Slug)
	assert.Equal(t, "1", s.HGet("meta:promo", model.MetaEnabled))
	assert.Equal(t, "s1", s.HGet("meta:promo", model.MetaOwnerSID))

	_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://other.example/", Slug: "promo"}, "s2")
	assert.ErrorIs(t, err, ErrSlugTaken)

	got, err := svc.Get(ctx, "promo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", got.URL)
	assert.Equal(t, "s1", got.OwnerSID)
}

func TestLinkService_Create_Disabled(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	disabled := false

	link, err := svc.Create(context.Background(), &model.CreateLinkRequest{
		URL:     "https://example.com",
		Slug:    "off",
		Enabled: &disabled,
	}, "s1")
	require.NoError(t, err)
	assert.False(t, link.Enabled)

	_, err = svc.Resolve(context.Background(), "off")
	assert.ErrorIs(t, err, ErrLinkDisabled)
}

func TestLinkService_Create_TTL(t *testing.T) {
	svc, _, s := newTestLinkService(t)

	link, err := svc.Create(context.Background(), &model.CreateLinkRequest{
		URL:  "https://example.com",
		Slug: "brief",
		TTL:  3600,
	}, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), link.TTL)

	assert.Equal(t, time.Hour, s.TTL("link:brief"))
	assert.Equal(t, time.Hour, s.TTL("meta:brief"))
	assert.Equal(t, "3600", s.HGet("meta:brief", model.MetaTTL))

	s.FastForward(2 * time.Hour)

	_, err = svc.Get(context.Background(), "brief")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkService_Create_Indexes(t *testing.T) {
	svc, _, s := newTestLinkService(t)

	mustCreate(t, svc, "https://example.com/1", "first", "s1")
	mustCreate(t, svc, "https://example.com/2", "second", "s1")

	index, err := s.ZMembers(repository.LinksIndexKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, index)

	history, err := s.ZMembers("history:s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, history)
}

func TestLinkService_Create_NoCollisions(t *testing.T) {
	store := repository.NewMemoryStore()
	defer store.Close()

	svc := NewLinkService(store, nil, testLinksConfig())
	ctx := context.Background()

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		link, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/"}, "bulk")
		require.NoError(t, err)
		seen[link.Slug] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestLinkService_Create_ConcurrentSameSlug(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	const writers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/", Slug: "race"}, "s1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, ErrSlugTaken) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
}

func TestLinkService_Create_StoreFailures(t *testing.T) {
	t.Run("existence check failure is surfaced", func(t *testing.T) {
		store, _ := newMiniredisStore(t)
		svc := NewLinkService(&faultyStore{KVStore: store, fail: map[string]bool{"exists": true}}, nil, testLinksConfig())

		_, err := svc.Create(context.Background(), &model.CreateLinkRequest{URL: "https://example.com", Slug: "x1"}, "s1")
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("metadata failure releases the slug", func(t *testing.T) {
		store, s := newMiniredisStore(t)
		svc := NewLinkService(&faultyStore{KVStore: store, fail: map[string]bool{"hset": true}}, nil, testLinksConfig())

		_, err := svc.Create(context.Background(), &model.CreateLinkRequest{URL: "https://example.com", Slug: "x1"}, "s1")
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.False(t, s.Exists("link:x1"))
	})

	t.Run("generation gives up", func(t *testing.T) {
		store := repository.NewMemoryStore()
		defer store.Close()
		svc := NewLinkService(takenStore{KVStore: store}, nil, testLinksConfig())

		_, err := svc.Create(context.Background(), &model.CreateLinkRequest{URL: "https://example.com"}, "s1")
		assert.ErrorIs(t, err, ErrSlugGenerationExhausted)
	})
}

func TestLinkService_Resolve(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	mustCreate(t, svc, "https://example.com/dest", "go", "s1")

	dest, err := svc.Resolve(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dest", dest)

	_, err = svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkService_Update_Authorization(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()
	mustCreate(t, svc, "https://example.com/", "mine", "owner")

	disabled := false
	req := &model.UpdateLinkRequest{Enabled: &disabled}

	_, err := svc.Update(ctx, "mine", req, "intruder", false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, "mine", req, "", false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, "missing", req, "owner", false)
	assert.ErrorIs(t, err, ErrLinkNotFound)

	link, err := svc.Update(ctx, "mine", req, "owner", false)
	require.NoError(t, err)
	assert.False(t, link.Enabled)

	enabled := true
	link, err = svc.Update(ctx, "mine", &model.UpdateLinkRequest{Enabled: &enabled}, "admin-session", true)
	require.NoError(t, err)
	assert.True(t, link.Enabled)
	assert.True(t, link.LastUpdateAt.After(link.CreatedAt))
}

func TestLinkService_Update_URL(t *testing.T) {
	svc, _, s := newTestLinkService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/old", Slug: "moving", TTL: 600}, "s1")
	require.NoError(t, err)
	s.FastForward(100 * time.Second)

	newURL := "HTTPS://Example.com/new"
	link, err := svc.Update(ctx, "moving", &model.UpdateLinkRequest{URL: &newURL}, "s1", false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new", link.URL)
	assert.Equal(t, int64(600), link.TTL)
	assert.Equal(t, 500*time.Second, s.TTL("link:moving"))

	bad := "mailto:someone@example.com"
	_, err = svc.Update(ctx, "moving", &model.UpdateLinkRequest{URL: &bad}, "s1", false)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestLinkService_Update_TTL(t *testing.T) {
	svc, _, s := newTestLinkService(t)
	ctx := context.Background()
	mustCreate(t, svc, "https://example.com/", "timed", "s1")

	ttl := int64(120)
	link, err := svc.Update(ctx, "timed", &model.UpdateLinkRequest{TTL: &ttl}, "s1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(120), link.TTL)
	assert.Equal(t, 2*time.Minute, s.TTL("link:timed"))
	assert.Equal(t, 2*time.Minute, s.TTL("meta:timed"))

	none := int64(0)
	link, err = svc.Update(ctx, "timed", &model.UpdateLinkRequest{TTL: &none}, "s1", false)
	require.NoError(t, err)
	assert.Zero(t, link.TTL)
	assert.Zero(t, s.TTL("link:timed"))
	assert.Zero(t, s.TTL("meta:timed"))
	assert.Equal(t, "", s.HGet("meta:timed", model.MetaTTL))

	negative := int64(-5)
	_, err = svc.Update(ctx, "timed", &model.UpdateLinkRequest{TTL: &negative}, "s1", false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLinkService_Update_Rename(t *testing.T) {
	archive := &archiveStub{}
	store, s := newMiniredisStore(t)
	svc := NewLinkService(store, archive, testLinksConfig())
	ctx := context.Background()

	created := mustCreate(t, svc, "https://example.com/", "before", "owner")
	seedClicks(t, store, "before", 3)

	newSlug := "after"
	link, err := svc.Update(ctx, "before", &model.UpdateLinkRequest{NewSlug: &newSlug}, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, "after", link.Slug)
	assert.Equal(t, "https://example.com/", link.URL)
	assert.Equal(t, int64(3), link.TotalClicks)
	assert.Equal(t, "owner", link.OwnerSID)

	_, err = svc.Get(ctx, "before")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	for _, key := range s.Keys() {
		assert.NotContains(t, key, "before", "key %s left behind", key)
	}

	geo, err := s.ZScore("geo:after", "US-CA")
	require.NoError(t, err)
	assert.Equal(t, float64(3), geo)

	day := time.Now().UTC().Format(dayLayout)
	assert.True(t, s.Exists("clicks:after:byday:"+day))

	// index and owner history follow the rename even when an admin renames
	for _, key := range []string{repository.LinksIndexKey, "history:owner"} {
		members, err := s.ZMembers(key)
		require.NoError(t, err)
		assert.Equal(t, []string{"after"}, members)
		score, err := s.ZScore(key, "after")
		require.NoError(t, err)
		assert.Equal(t, float64(created.CreatedAt.UnixMilli()), score)
	}

	assert.Equal(t, [][2]string{{"before", "after"}}, archive.renamed)
}

func TestLinkService_Update_RenameConflict(t *testing.T) {
	svc, store, s := newTestLinkService(t)
	ctx := context.Background()

	mustCreate(t, svc, "https://example.com/a", "alpha", "s1")
	mustCreate(t, svc, "https://example.com/b", "beta", "s2")
	seedClicks(t, store, "alpha", 2)
	seedClicks(t, store, "beta", 5)

	keysBefore := s.Keys()

	target := "beta"
	newURL := "https://example.com/changed"
	_, err := svc.Update(ctx, "alpha", &model.UpdateLinkRequest{NewSlug: &target, URL: &newURL}, "s1", false)
	assert.ErrorIs(t, err, ErrSlugTaken)

	assert.Equal(t, keysBefore, s.Keys())

	alpha, err := svc.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", alpha.URL)
	assert.Equal(t, int64(2), alpha.TotalClicks)

	beta, err := svc.Get(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", beta.URL)
	assert.Equal(t, int64(5), beta.TotalClicks)
}

func TestLinkService_Create_ExpiredSlugStartsClean(t *testing.T) {
	archive := &archiveStub{}
	store, s := newMiniredisStore(t)
	svc := NewLinkService(store, archive, testLinksConfig())
	stats := NewStatsService(store, svc, archive, config.StatsConfig{Days: 14, TopN: 10})
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/sale", Slug: "promo", TTL: 60}, "alice")
	require.NoError(t, err)
	seedClicks(t, store, "promo", 5)
	archive.clicks = []model.ClickLog{{ID: 1, Slug: "promo", Location: "US-CA"}}

	s.FastForward(2 * time.Minute)
	require.False(t, s.Exists("link:promo"))
	require.True(t, s.Exists("geo:promo"))

	link := mustCreate(t, svc, "https://example.com/other", "promo", "bob")
	assert.Zero(t, link.TotalClicks)

	report, err := stats.Report(ctx, "promo")
	require.NoError(t, err)
	assert.Zero(t, report.TotalClicks)
	assert.Empty(t, report.TopGeo)
	assert.Empty(t, report.TopReferrers)
	assert.Empty(t, report.Devices)
	assert.Empty(t, report.OS)
	assert.Empty(t, report.Browsers)
	for _, day := range report.ByDay {
		assert.Zero(t, day.Clicks, day.Date)
	}

	clicks, err := stats.RecentClicks(ctx, "promo", 10, true)
	require.NoError(t, err)
	assert.Empty(t, clicks)

	// the previous owner no longer sees the slug
	mine, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, mine)
	history, err := s.ZMembers("history:alice")
	require.NoError(t, err)
	assert.NotContains(t, history, "promo")

	theirs, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "https://example.com/other", theirs[0].URL)
}

func TestLinkService_Update_RenameOntoExpiredSlug(t *testing.T) {
	svc, store, s := newTestLinkService(t)
	stats := NewStatsService(store, svc, nil, config.StatsConfig{Days: 14, TopN: 10})
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/old", Slug: "gone", TTL: 60}, "s1")
	require.NoError(t, err)
	seedClicks(t, store, "gone", 3)
	mustCreate(t, svc, "https://example.com/fresh", "fresh", "s2")

	s.FastForward(2 * time.Minute)

	target := "gone"
	link, err := svc.Update(ctx, "fresh", &model.UpdateLinkRequest{NewSlug: &target}, "s2", false)
	require.NoError(t, err)
	assert.Equal(t, "gone", link.Slug)
	assert.Zero(t, link.TotalClicks)

	report, err := stats.Report(ctx, "gone")
	require.NoError(t, err)
	assert.Zero(t, report.TotalClicks)
	assert.Empty(t, report.TopGeo)
	assert.Empty(t, report.TopReferrers)
	assert.Empty(t, report.Devices)
}

func TestLinkService_Update_RenameHoldsDestination(t *testing.T) {
	store, s := newMiniredisStore(t)
	hooked := &renameHookStore{KVStore: store}
	svc := NewLinkService(hooked, nil, testLinksConfig())
	ctx := context.Background()

	mustCreate(t, svc, "https://example.com/src", "src", "owner")

	var intruderErr error
	hooked.onRename = func(oldKey, _ string) error {
		if oldKey == repository.MetaKey("src") {
			_, intruderErr = svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/intruder", Slug: "dst"}, "intruder")
		}
		return nil
	}

	target := "dst"
	link, err := svc.Update(ctx, "src", &model.UpdateLinkRequest{NewSlug: &target}, "owner", false)
	require.NoError(t, err)
	assert.ErrorIs(t, intruderErr, ErrSlugTaken)

	assert.Equal(t, "owner", link.OwnerSID)
	assert.Equal(t, "https://example.com/src", link.URL)
	assert.Zero(t, s.TTL("link:dst"))
	assert.False(t, s.Exists("history:intruder"))
}

func TestLinkService_Update_RenameRollsBack(t *testing.T) {
	archive := &archiveStub{}
	store, s := newMiniredisStore(t)
	hooked := &renameHookStore{KVStore: store}
	svc := NewLinkService(hooked, archive, testLinksConfig())
	ctx := context.Background()

	mustCreate(t, svc, "https://example.com/", "before", "owner")
	seedClicks(t, store, "before", 3)

	hooked.onRename = func(oldKey, _ string) error {
		if oldKey == repository.LinkKey("before") {
			return repository.ErrStoreUnavailable
		}
		return nil
	}

	target := "after"
	_, err := svc.Update(ctx, "before", &model.UpdateLinkRequest{NewSlug: &target}, "owner", false)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	for _, key := range s.Keys() {
		assert.NotContains(t, key, "after", "key %s left behind", key)
	}

	link, err := svc.Get(ctx, "before")
	require.NoError(t, err)
	assert.Equal(t, int64(3), link.TotalClicks)
	assert.Equal(t, "owner", link.OwnerSID)
	assert.True(t, s.Exists("geo:before"))
	assert.Equal(t, [][2]string{{"before", "after"}, {"after", "before"}}, archive.renamed)

	// a retry starts from a clean state
	hooked.onRename = nil
	link, err = svc.Update(ctx, "before", &model.UpdateLinkRequest{NewSlug: &target}, "owner", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), link.TotalClicks)
}

func TestLinkService_Update_InvalidNewSlug(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()
	mustCreate(t, svc, "https://example.com/a", "alpha", "s1")

	bad := "no spaces"
	newURL := "https://example.com/changed"
	_, err := svc.Update(ctx, "alpha", &model.UpdateLinkRequest{NewSlug: &bad, URL: &newURL}, "s1", false)
	assert.ErrorIs(t, err, ErrInvalidSlug)

	link, err := svc.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", link.URL)
}

func TestLinkService_Delete(t *testing.T) {
	t.Run("non-admin refused by default", func(t *testing.T) {
		svc, _, _ := newTestLinkService(t)
		mustCreate(t, svc, "https://example.com/", "kept", "owner")

		err := svc.Delete(context.Background(), "kept", "owner", false)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.Get(context.Background(), "kept")
		assert.NoError(t, err)
	})

	t.Run("owner delete when enabled", func(t *testing.T) {
		svc, _, _ := newTestLinkService(t)
		svc.cfg.OwnerCanDelete = true
		mustCreate(t, svc, "https://example.com/", "ownable", "owner")

		assert.ErrorIs(t, svc.Delete(context.Background(), "ownable", "someone-else", false), ErrForbidden)
		assert.NoError(t, svc.Delete(context.Background(), "ownable", "owner", false))
	})

	t.Run("admin delete purges every key", func(t *testing.T) {
		archive := &archiveStub{}
		store, s := newMiniredisStore(t)
		svc := NewLinkService(store, archive, testLinksConfig())
		ctx := context.Background()

		mustCreate(t, svc, "https://example.com/gone", "gone", "owner")
		mustCreate(t, svc, "https://example.com/stay", "stay", "owner")
		seedClicks(t, store, "gone", 4)
		archive.deleted = nil

		require.NoError(t, svc.Delete(ctx, "gone", "admin", true))

		_, err := svc.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrLinkNotFound)
		for _, key := range s.Keys() {
			assert.NotContains(t, key, "gone", "key %s left behind", key)
		}
		history, err := s.ZMembers("history:owner")
		require.NoError(t, err)
		assert.Equal(t, []string{"stay"}, history)
		assert.Equal(t, []string{"gone"}, archive.deleted)

		err = svc.Delete(ctx, "gone", "admin", true)
		assert.ErrorIs(t, err, ErrLinkNotFound)
	})

	t.Run("failures are joined and the link key is still removed", func(t *testing.T) {
		store, s := newMiniredisStore(t)
		faulty := &faultyStore{KVStore: store, fail: map[string]bool{}}
		svc := NewLinkService(faulty, nil, testLinksConfig())
		mustCreate(t, svc, "https://example.com/", "partial", "owner")

		faulty.fail["del"] = true
		err := svc.Delete(context.Background(), "partial", "admin", true)
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
		assert.True(t, s.Exists("link:partial"))

		faulty.fail["del"] = false
		assert.NoError(t, svc.Delete(context.Background(), "partial", "admin", true))
		assert.False(t, s.Exists("link:partial"))
	})
}

func TestLinkService_List(t *testing.T) {
	svc, store, s := newTestLinkService(t)
	ctx := context.Background()

	mustCreate(t, svc, "https://example.com/1", "one", "s1")
	mustCreate(t, svc, "https://example.com/2", "two", "s1")
	mustCreate(t, svc, "https://example.com/3", "three", "s2")

	links, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "two", links[0].Slug)
	assert.Equal(t, "one", links[1].Slug)

	_, err = svc.List(ctx, "")
	assert.ErrorIs(t, err, ErrMissingSession)

	empty, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	t.Run("expired links are reaped", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.CreateLinkRequest{URL: "https://example.com/t", Slug: "temp", TTL: 60}, "s1")
		require.NoError(t, err)
		seedClicks(t, store, "temp", 2)
		require.True(t, s.Exists("geo:temp"))

		s.FastForward(2 * time.Minute)

		links, err := svc.List(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, links, 2)

		assert.False(t, s.Exists("geo:temp"))
		assert.False(t, s.Exists("clicks:temp:total"))
		history, err := s.ZMembers("history:s1")
		require.NoError(t, err)
		assert.NotContains(t, history, "temp")
	})
}

func TestLinkService_ListAll(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	for _, slug := range []string{"l1", "l2", "l3", "l4", "l5"} {
		mustCreate(t, svc, "https://example.com/"+slug, slug, "s1")
	}

	_, err := svc.ListAll(ctx, 0, 10, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListAll(ctx, -1, 10, true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	page, err := svc.ListAll(ctx, 0, 2, true)
	require.NoError(t, err)
	require.Len(t, page.Links, 2)
	assert.Equal(t, "l1", page.Links[0].Slug)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, int64(2), *page.NextCursor)

	page, err = svc.ListAll(ctx, *page.NextCursor, 2, true)
	require.NoError(t, err)
	assert.Equal(t, "l3", page.Links[0].Slug)
	assert.True(t, page.HasMore)

	page, err = svc.ListAll(ctx, 4, 2, true)
	require.NoError(t, err)
	require.Len(t, page.Links, 1)
	assert.Equal(t, "l5", page.Links[0].Slug)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)

	t.Run("limit is clamped", func(t *testing.T) {
		svc.cfg.ListPageMax = 3
		page, err := svc.ListAll(ctx, 0, 1000, true)
		require.NoError(t, err)
		assert.Len(t, page.Links, 3)
	})
}

package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/model"
	"shortlink/internal/repository"

	"github.com/rs/zerolog/log"
)

const defaultRecentClicks = 50

// StatsService builds analytics reports from the click aggregates
type StatsService struct {
	store   repository.KVStore
	links   LinkReader
	archive repository.ClickLogRepositoryInterface
	days    int
	topN    int64
	now     func() time.Time
}

// NewStatsService creates a new StatsService. archive may be nil.
func NewStatsService(
	store repository.KVStore,
	links LinkReader,
	archive repository.ClickLogRepositoryInterface,
	cfg config.StatsConfig,
) *StatsService {
	return &StatsService{
		store:   store,
		links:   links,
		archive: archive,
		days:    cfg.Days,
		topN:    cfg.TopN,
		now:     time.Now,
	}
}

// Report returns the analytics report of slug
func (s *StatsService) Report(ctx context.Context, slug string) (*model.Report, error) {
	link, err := s.links.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, link), nil
}

// ReportFor returns the report when the requester owns the link or is an admin
func (s *StatsService) ReportFor(ctx context.Context, slug, requesterSID string, isAdmin bool) (*model.Report, error) {
	link, err := s.links.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canManage(link, requesterSID, isAdmin) {
		return nil, ErrForbidden
	}
	return s.build(ctx, link), nil
}

// RecentClicks returns the latest archived clicks of slug, newest first
func (s *StatsService) RecentClicks(ctx context.Context, slug string, limit int, isAdmin bool) ([]model.ClickLog, error) {
	if !isAdmin {
		return nil, ErrForbidden
	}
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if _, err := s.links.Get(ctx, slug); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultRecentClicks {
		limit = defaultRecentClicks
	}

	clicks, err := s.archive.GetClickLogs(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	if clicks == nil {
		clicks = []model.ClickLog{}
	}
	return clicks, nil
}

// build reads every aggregate of the link. A failed read degrades to zero
// or an empty breakdown.
func (s *StatsService) build(ctx context.Context, link *model.Link) *model.Report {
	slug := link.Slug

	return &model.Report{
		Slug:         slug,
		TotalClicks:  readTotalClicks(ctx, s.store, slug),
		ByDay:        s.byDay(ctx, slug),
		TopGeo:       s.breakdown(ctx, repository.GeoKey(slug), s.topN),
		TopReferrers: s.breakdown(ctx, repository.RefKey(slug), s.topN),
		Devices:      s.breakdown(ctx, repository.UADeviceKey(slug), 0),
		OS:           s.breakdown(ctx, repository.UAOSKey(slug), 0),
		Browsers:     s.breakdown(ctx, repository.UABrowserKey(slug), 0),
		Metadata:     link,
	}
}

// readTotalClicks reads the total click counter, degrading to zero
func readTotalClicks(ctx context.Context, store repository.KVStore, slug string) int64 {
	val, err := store.Get(ctx, repository.ClicksTotalKey(slug))
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			log.Warn().Err(err).Str("slug", slug).Msg("Failed to read total clicks")
		}
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Malformed total clicks counter")
		return 0
	}
	return n
}

// byDay returns exactly s.days entries ending today (UTC), oldest first
func (s *StatsService) byDay(ctx context.Context, slug string) []model.DayCount {
	counts := make(map[string]int64)
	entries, err := s.store.ZRangeWithScores(ctx, repository.ClicksByDayKey(slug), 0, -1)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to read daily clicks")
	}
	for _, e := range entries {
		counts[e.Member] = int64(e.Score)
	}

	today := s.now().UTC()
	days := make([]model.DayCount, 0, s.days)
	for i := s.days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dayLayout)
		days = append(days, model.DayCount{Date: date, Clicks: counts[date]})
	}
	return days
}

// breakdown returns the top n members by clicks, or all of them when n is 0
func (s *StatsService) breakdown(ctx context.Context, key string, n int64) []model.Breakdown {
	stop := int64(-1)
	if n > 0 {
		stop = n - 1
	}

	entries, err := s.store.ZRevRangeWithScores(ctx, key, 0, stop)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read breakdown")
		return []model.Breakdown{}
	}

	out := make([]model.Breakdown, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Breakdown{Name: e.Member, Clicks: int64(e.Score)})
	}
	return out
}

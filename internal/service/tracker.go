package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shortlink/internal/metrics"
	"shortlink/internal/model"
	"shortlink/internal/mq"
	"shortlink/internal/repository"
	"shortlink/internal/useragent"

	"github.com/rs/zerolog/log"
)

const dayLayout = "2006-01-02"

// ClickTracker records clicks into the per-link aggregates
type ClickTracker struct {
	store     repository.KVStore
	limiter   RateLimiterInterface
	publisher ClickPublisher
	dayTTL    time.Duration
	now       func() time.Time
}

// NewClickTracker creates a new ClickTracker. publisher may be nil.
func NewClickTracker(
	store repository.KVStore,
	limiter RateLimiterInterface,
	publisher ClickPublisher,
	dayTTL time.Duration,
) *ClickTracker {
	return &ClickTracker{
		store:     store,
		limiter:   limiter,
		publisher: publisher,
		dayTTL:    dayTTL,
		now:       time.Now,
	}
}

// Record counts one click on slug. Every aggregate is incremented on its own;
// when some of them fail the others are still written and an error wrapping
// ErrPartialRecord is returned.
func (t *ClickTracker) Record(ctx context.Context, slug string, rc *model.RequestContext) error {
	exists, err := t.store.Exists(ctx, repository.LinkKey(slug))
	if err != nil {
		metrics.ClicksRejected.WithLabelValues(metrics.ReasonStoreError).Inc()
		return fmt.Errorf("failed to check link: %w", err)
	}
	if !exists {
		metrics.ClicksRejected.WithLabelValues(metrics.ReasonNotFound).Inc()
		return ErrLinkNotFound
	}

	if err := t.limiter.Allow(ctx, rc.ClientIP, rc.SessionID); err != nil {
		if errors.Is(err, ErrRateLimited) {
			metrics.ClicksRejected.WithLabelValues(metrics.ReasonRateLimited).Inc()
		} else {
			metrics.ClicksRejected.WithLabelValues(metrics.ReasonStoreError).Inc()
		}
		return err
	}

	agent := useragent.Classify(rc.UserAgent)
	location := Location(rc.Country, rc.Region)
	refHost := referrerHost(rc.Referer)
	clickedAt := t.now().UTC()
	day := clickedAt.Format(dayLayout)

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	_, err = t.store.Incr(ctx, repository.ClicksTotalKey(slug))
	collect(err)
	_, err = t.store.ZIncrBy(ctx, repository.ClicksByDayKey(slug), 1, day)
	collect(err)

	dayKey := repository.ClicksDayKey(slug, day)
	if n, err := t.store.Incr(ctx, dayKey); err != nil {
		collect(err)
	} else {
		_, err = t.store.Expire(ctx, dayKey, t.dayTTL)
		collect(err)
		if n == 1 {
			t.trimDays(ctx, slug, clickedAt)
		}
	}

	breakdowns := []struct{ key, member string }{
		{repository.GeoKey(slug), location},
		{repository.UADeviceKey(slug), agent.Device},
		{repository.UAOSKey(slug), agent.OS},
		{repository.UABrowserKey(slug), agent.Browser},
		{repository.RefKey(slug), refHost},
	}
	for _, b := range breakdowns {
		_, err = t.store.ZIncrBy(ctx, b.key, 1, b.member)
		collect(err)
	}

	t.publish(ctx, &mq.ClickMessage{
		Slug:         slug,
		ClientIP:     rc.ClientIP,
		SessionID:    rc.SessionID,
		UserAgent:    rc.UserAgent,
		Referer:      rc.Referer,
		ReferrerHost: refHost,
		Location:     location,
		Device:       agent.Device,
		OS:           agent.OS,
		Browser:      agent.Browser,
		ClickedAt:    clickedAt,
	})

	if len(errs) > 0 {
		return fmt.Errorf("%w: %d of %d increments failed: %w",
			ErrPartialRecord, len(errs), 3+len(breakdowns), errors.Join(errs...))
	}

	metrics.ClicksRecorded.Inc()
	return nil
}

// trimDays drops the byday members whose per-day counter has expired. It
// runs on the first click of each day.
func (t *ClickTracker) trimDays(ctx context.Context, slug string, now time.Time) {
	dates, err := t.store.ZRange(ctx, repository.ClicksByDayKey(slug), 0, -1)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to list click days")
		return
	}

	cutoff := now.Add(-t.dayTTL).Format(dayLayout)
	for _, date := range dates {
		if date >= cutoff {
			continue
		}
		if err := t.store.ZRem(ctx, repository.ClicksByDayKey(slug), date); err != nil {
			log.Warn().Err(err).Str("slug", slug).Str("date", date).Msg("Failed to trim click day")
			return
		}
	}
}

func (t *ClickTracker) publish(ctx context.Context, msg *mq.ClickMessage) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.SendClick(ctx, msg); err != nil {
		log.Warn().Err(err).Str("slug", msg.Slug).Msg("Failed to publish click")
	}
}

// Location is the country, or "country-region" when the region is known
func Location(country, region string) string {
	if country == "" || strings.EqualFold(country, useragent.Unknown) {
		country = useragent.Unknown
	}
	if region == "" || strings.EqualFold(region, useragent.Unknown) {
		return country
	}
	return country + "-" + region
}

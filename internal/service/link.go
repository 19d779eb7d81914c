package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/encoder"
	"shortlink/internal/model"
	"shortlink/internal/repository"

	"github.com/rs/zerolog/log"
)

// renameHold bounds how long a rename keeps its destination slug reserved
const renameHold = time.Minute

// LinkService handles short link operations
type LinkService struct {
	store   repository.KVStore
	archive repository.ClickLogRepositoryInterface
	encoder *encoder.SlugEncoder
	cfg     config.LinksConfig
	now     func() time.Time
}

// NewLinkService creates a new LinkService. archive may be nil when no click
// archive is configured.
func NewLinkService(
	store repository.KVStore,
	archive repository.ClickLogRepositoryInterface,
	cfg config.LinksConfig,
) *LinkService {
	return &LinkService{
		store:   store,
		archive: archive,
		encoder: encoder.NewSlugEncoder(cfg.SlugLength),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Create registers a new link owned by ownerSID
func (s *LinkService) Create(ctx context.Context, req *model.CreateLinkRequest, ownerSID string) (*model.Link, error) {
	if ownerSID == "" {
		return nil, ErrMissingSession
	}

	dest, err := NormalizeURL(req.URL)
	if err != nil {
		return nil, err
	}
	if req.TTL < 0 {
		return nil, fmt.Errorf("%w: ttl must not be negative", ErrInvalidInput)
	}
	if req.Slug != "" && !s.encoder.IsValid(req.Slug) {
		return nil, ErrInvalidSlug
	}

	ttl := time.Duration(req.TTL) * time.Second

	var slug string
	if req.Slug != "" {
		slug = req.Slug
		if err := s.claim(ctx, slug, dest, ttl); err != nil {
			return nil, err
		}
	} else {
		slug, err = s.claimGenerated(ctx, dest, ttl)
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	link := &model.Link{
		Slug:         slug,
		URL:          dest,
		OwnerSID:     ownerSID,
		Enabled:      req.Enabled == nil || *req.Enabled,
		CreatedAt:    now,
		LastUpdateAt: now,
		TTL:          req.TTL,
	}

	if err := s.store.HSetAll(ctx, repository.MetaKey(slug), link.MetaFields()); err != nil {
		s.release(ctx, slug)
		return nil, fmt.Errorf("failed to save link metadata: %w", err)
	}
	if ttl > 0 {
		if _, err := s.store.Expire(ctx, repository.MetaKey(slug), ttl); err != nil {
			log.Error().Err(err).Str("slug", slug).Msg("Failed to expire link metadata")
		}
	}

	score := float64(now.UnixMilli())
	if err := s.store.ZAdd(ctx, repository.LinksIndexKey, score, slug); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to add link to index")
	}
	if err := s.store.ZAdd(ctx, repository.HistoryKey(ownerSID), score, slug); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to add link to owner history")
	}

	log.Info().Str("slug", slug).Str("url", dest).Int64("ttl", req.TTL).Msg("Link created")

	return link, nil
}

// claim checks that slug is free and takes it with SetNX, so the second of
// two concurrent writers gets ErrSlugTaken. Whatever an expired link left
// under the slug is cleared before the slug is handed out.
func (s *LinkService) claim(ctx context.Context, slug, dest string, ttl time.Duration) error {
	exists, err := s.store.Exists(ctx, repository.LinkKey(slug))
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return ErrSlugTaken
	}

	ok, err := s.store.SetNX(ctx, repository.LinkKey(slug), dest, ttl)
	if err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	if !ok {
		return ErrSlugTaken
	}

	if err := s.clear(ctx, slug); err != nil {
		s.release(ctx, slug)
		return fmt.Errorf("failed to clear stale link data: %w", err)
	}
	return nil
}

// release gives up a claimed slug
func (s *LinkService) release(ctx context.Context, slug string) {
	if _, err := s.store.Del(ctx, repository.LinkKey(slug)); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to release slug")
	}
}

func (s *LinkService) claimGenerated(ctx context.Context, dest string, ttl time.Duration) (string, error) {
	for i := 0; i < s.cfg.MaxSlugRetries; i++ {
		slug, err := s.encoder.Generate()
		if err != nil {
			return "", err
		}
		if encoder.IsReserved(slug) {
			continue
		}

		err = s.claim(ctx, slug, dest, ttl)
		if err == nil {
			return slug, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return "", err
		}
		log.Debug().Str("slug", slug).Int("attempt", i+1).Msg("Generated slug collided, retrying")
	}
	return "", ErrSlugGenerationExhausted
}

// Get returns the link stored under slug
func (s *LinkService) Get(ctx context.Context, slug string) (*model.Link, error) {
	dest, err := s.store.Get(ctx, repository.LinkKey(slug))
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	meta, err := s.store.HGetAll(ctx, repository.MetaKey(slug))
	if err != nil {
		return nil, fmt.Errorf("failed to get link metadata: %w", err)
	}

	link := model.LinkFromMeta(slug, dest, meta)
	link.TotalClicks = readTotalClicks(ctx, s.store, slug)
	return link, nil
}

// Resolve returns the destination of an enabled link
func (s *LinkService) Resolve(ctx context.Context, slug string) (string, error) {
	dest, err := s.store.Get(ctx, repository.LinkKey(slug))
	if errors.Is(err, repository.ErrKeyNotFound) {
		return "", ErrLinkNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve link: %w", err)
	}

	meta, err := s.store.HGetAll(ctx, repository.MetaKey(slug))
	if err != nil {
		// Read path: a metadata outage degrades to "enabled"
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to read link metadata, assuming enabled")
		return dest, nil
	}
	if meta[model.MetaEnabled] == "0" {
		return "", ErrLinkDisabled
	}
	return dest, nil
}

// Update changes the destination, enabled flag, TTL or slug of a link.
// Every input is validated, and a new slug reserved, before the link itself
// is touched.
func (s *LinkService) Update(
	ctx context.Context,
	slug string,
	req *model.UpdateLinkRequest,
	requesterSID string,
	isAdmin bool,
) (*model.Link, error) {
	link, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canManage(link, requesterSID, isAdmin) {
		return nil, ErrForbidden
	}

	var dest string
	if req.URL != nil {
		if dest, err = NormalizeURL(*req.URL); err != nil {
			return nil, err
		}
	}
	if req.TTL != nil && *req.TTL < 0 {
		return nil, fmt.Errorf("%w: ttl must not be negative", ErrInvalidInput)
	}

	newSlug := slug
	reserved := false
	if req.NewSlug != nil && *req.NewSlug != slug {
		newSlug = *req.NewSlug
		if !s.encoder.IsValid(newSlug) {
			return nil, ErrInvalidSlug
		}
		if err := s.claim(ctx, newSlug, link.URL, renameHold); err != nil {
			return nil, err
		}
		reserved = true
		defer func() {
			if reserved {
				s.release(ctx, newSlug)
			}
		}()
	}

	if dest != "" && dest != link.URL {
		if err := s.replaceURL(ctx, slug, dest); err != nil {
			return nil, err
		}
	}

	fields := map[string]string{
		model.MetaLastUpdateAt: model.FormatMillis(s.now().UTC()),
	}
	if req.Enabled != nil {
		fields[model.MetaEnabled] = model.FormatEnabled(*req.Enabled)
	}
	if req.TTL != nil {
		fields[model.MetaTTL] = ""
		if *req.TTL > 0 {
			fields[model.MetaTTL] = strconv.FormatInt(*req.TTL, 10)
		}
	}
	if err := s.store.HSetAll(ctx, repository.MetaKey(slug), fields); err != nil {
		return nil, fmt.Errorf("failed to update link metadata: %w", err)
	}

	if req.TTL != nil {
		if err := s.applyTTL(ctx, slug, *req.TTL); err != nil {
			return nil, err
		}
	}

	if newSlug != slug {
		if err := s.rename(ctx, link, newSlug); err != nil {
			return nil, err
		}
		reserved = false
	}

	log.Info().Str("slug", slug).Str("new_slug", newSlug).Msg("Link updated")

	return s.Get(ctx, newSlug)
}

// replaceURL overwrites the destination and keeps the remaining lifetime
func (s *LinkService) replaceURL(ctx context.Context, slug, dest string) error {
	remaining, err := s.store.TTL(ctx, repository.LinkKey(slug))
	if err != nil {
		return fmt.Errorf("failed to read link ttl: %w", err)
	}
	if remaining == repository.TTLMissing {
		return ErrLinkNotFound
	}

	var ttl time.Duration
	if remaining > 0 {
		ttl = time.Duration(remaining) * time.Second
	}
	if err := s.store.Set(ctx, repository.LinkKey(slug), dest, ttl); err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

// applyTTL expires the link and its metadata together, or makes both
// permanent when ttl is zero.
func (s *LinkService) applyTTL(ctx context.Context, slug string, ttl int64) error {
	for _, key := range []string{repository.LinkKey(slug), repository.MetaKey(slug)} {
		var err error
		if ttl > 0 {
			_, err = s.store.Expire(ctx, key, time.Duration(ttl)*time.Second)
		} else {
			_, err = s.store.Persist(ctx, key)
		}
		if err != nil {
			return fmt.Errorf("failed to apply ttl: %w", err)
		}
	}
	return nil
}

// rename moves every key of a link onto newSlug, which the caller has
// reserved. Aggregates move first, then the archive, metadata and finally the
// link key, so the old slug keeps resolving until the very last step. On a
// failure every key already moved is moved back.
func (s *LinkService) rename(ctx context.Context, link *model.Link, newSlug string) error {
	oldSlug := link.Slug

	dates, err := s.store.ZRange(ctx, repository.ClicksByDayKey(oldSlug), 0, -1)
	if err != nil {
		return fmt.Errorf("failed to list click days: %w", err)
	}
	moves := make([][2]string, 0, len(dates)+9)
	for _, date := range dates {
		moves = append(moves, [2]string{repository.ClicksDayKey(oldSlug, date), repository.ClicksDayKey(newSlug, date)})
	}
	oldAggregates, newAggregates := repository.AggregateKeys(oldSlug), repository.AggregateKeys(newSlug)
	for i := range oldAggregates {
		moves = append(moves, [2]string{oldAggregates[i], newAggregates[i]})
	}

	var moved [][2]string
	archiveMoved := false
	rollback := func() {
		if archiveMoved {
			if err := s.archive.RenameSlug(ctx, newSlug, oldSlug); err != nil {
				log.Error().Err(err).Str("slug", newSlug).Msg("Failed to restore archived clicks")
			}
		}
		for i := len(moved) - 1; i >= 0; i-- {
			if _, err := s.store.Rename(ctx, moved[i][1], moved[i][0]); err != nil {
				log.Error().Err(err).Str("key", moved[i][1]).Msg("Failed to restore key after failed rename")
			}
		}
	}
	move := func(from, to string) (bool, error) {
		ok, err := s.store.Rename(ctx, from, to)
		if ok {
			moved = append(moved, [2]string{from, to})
		}
		return ok, err
	}

	for _, mv := range moves {
		if _, err := move(mv[0], mv[1]); err != nil {
			rollback()
			return fmt.Errorf("failed to move %s: %w", mv[0], err)
		}
	}

	if s.archive != nil {
		if err := s.archive.RenameSlug(ctx, oldSlug, newSlug); err != nil {
			log.Error().Err(err).Str("slug", oldSlug).Str("new_slug", newSlug).Msg("Failed to rename archived clicks")
		} else {
			archiveMoved = true
		}
	}

	if _, err := move(repository.MetaKey(oldSlug), repository.MetaKey(newSlug)); err != nil {
		rollback()
		return fmt.Errorf("failed to move link metadata: %w", err)
	}
	// The reservation under newSlug is overwritten here
	ok, err := s.store.Rename(ctx, repository.LinkKey(oldSlug), repository.LinkKey(newSlug))
	if err != nil {
		rollback()
		return fmt.Errorf("failed to move link: %w", err)
	}
	if !ok {
		rollback()
		return ErrLinkNotFound
	}

	score := float64(link.CreatedAt.UnixMilli())
	indexes := []string{repository.LinksIndexKey}
	if link.OwnerSID != "" {
		indexes = append(indexes, repository.HistoryKey(link.OwnerSID))
	}
	for _, key := range indexes {
		if err := s.store.ZRem(ctx, key, oldSlug); err != nil {
			log.Error().Err(err).Str("key", key).Str("slug", oldSlug).Msg("Failed to remove renamed slug from index")
		}
		if err := s.store.ZAdd(ctx, key, score, newSlug); err != nil {
			log.Error().Err(err).Str("key", key).Str("slug", newSlug).Msg("Failed to add renamed slug to index")
		}
	}

	return nil
}

// Delete removes a link and everything derived from it
func (s *LinkService) Delete(ctx context.Context, slug, requesterSID string, isAdmin bool) error {
	if !isAdmin && !s.cfg.OwnerCanDelete {
		return ErrForbidden
	}

	link, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}
	if !canManage(link, requesterSID, isAdmin) {
		return ErrForbidden
	}

	if err := s.purge(ctx, slug, link.OwnerSID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	log.Info().Str("slug", slug).Bool("admin", isAdmin).Msg("Link deleted")

	return nil
}

// purge deletes every key of slug. It keeps going after a failure and
// returns the joined errors; the link key goes last so a partially purged
// link can be deleted again.
func (s *LinkService) purge(ctx context.Context, slug, ownerSID string) error {
	var errs []error

	if err := s.clear(ctx, slug); err != nil {
		errs = append(errs, err)
	}

	if ownerSID != "" {
		if err := s.store.ZRem(ctx, repository.HistoryKey(ownerSID), slug); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.store.ZRem(ctx, repository.LinksIndexKey, slug); err != nil {
		errs = append(errs, err)
	}

	if _, err := s.store.Del(ctx, repository.LinkKey(slug)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// clear deletes the click aggregates, archived clicks and metadata of slug,
// leaving the link key and the indexes alone.
func (s *LinkService) clear(ctx context.Context, slug string) error {
	var errs []error

	dates, err := s.store.ZRange(ctx, repository.ClicksByDayKey(slug), 0, -1)
	if err != nil {
		errs = append(errs, err)
	}
	for _, date := range dates {
		if _, err := s.store.Del(ctx, repository.ClicksDayKey(slug, date)); err != nil {
			errs = append(errs, err)
		}
	}
	for _, key := range repository.AggregateKeys(slug) {
		if _, err := s.store.Del(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	if s.archive != nil {
		if n, err := s.archive.DeleteBySlug(ctx, slug); err != nil {
			errs = append(errs, err)
		} else if n > 0 {
			log.Debug().Str("slug", slug).Int64("rows", n).Msg("Archived clicks deleted")
		}
	}

	if _, err := s.store.Del(ctx, repository.MetaKey(slug)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// reap purges what an expired link left behind. The link key is checked
// again so that a slug claimed in the meantime is left alone.
func (s *LinkService) reap(ctx context.Context, slug, ownerSID string) {
	exists, err := s.store.Exists(ctx, repository.LinkKey(slug))
	if err != nil || exists {
		return
	}
	if err := s.purge(ctx, slug, ownerSID); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to reap expired link")
		return
	}
	log.Debug().Str("slug", slug).Msg("Reaped expired link")
}

// List returns the links created by ownerSID, newest first
func (s *LinkService) List(ctx context.Context, ownerSID string) ([]model.Link, error) {
	if ownerSID == "" {
		return nil, ErrMissingSession
	}

	entries, err := s.store.ZRevRangeWithScores(ctx, repository.HistoryKey(ownerSID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]model.Link, 0, len(entries))
	for _, entry := range entries {
		link, err := s.Get(ctx, entry.Member)
		if errors.Is(err, ErrLinkNotFound) {
			s.reap(ctx, entry.Member, ownerSID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if link.OwnerSID != ownerSID {
			// The slug expired and was claimed again by another session
			if err := s.store.ZRem(ctx, repository.HistoryKey(ownerSID), entry.Member); err != nil {
				log.Warn().Err(err).Str("slug", entry.Member).Msg("Failed to drop stale history entry")
			}
			continue
		}
		links = append(links, *link)
	}
	return links, nil
}

// ListAll returns one page of every link in creation order. cursor is the
// offset into the global index.
func (s *LinkService) ListAll(ctx context.Context, cursor, limit int64, isAdmin bool) (*model.LinkPage, error) {
	if !isAdmin {
		return nil, ErrForbidden
	}
	if cursor < 0 {
		return nil, fmt.Errorf("%w: cursor must not be negative", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.cfg.ListPageSize
	}
	if limit > s.cfg.ListPageMax {
		limit = s.cfg.ListPageMax
	}

	// One extra entry tells whether another page follows
	slugs, err := s.store.ZRange(ctx, repository.LinksIndexKey, cursor, cursor+limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	page := &model.LinkPage{Links: make([]model.Link, 0, len(slugs))}
	if int64(len(slugs)) > limit {
		page.HasMore = true
		slugs = slugs[:limit]
	}

	var reaped int64
	for _, slug := range slugs {
		link, err := s.Get(ctx, slug)
		if errors.Is(err, ErrLinkNotFound) {
			s.reap(ctx, slug, "")
			reaped++
			continue
		}
		if err != nil {
			return nil, err
		}
		page.Links = append(page.Links, *link)
	}

	if page.HasMore {
		// Reaped entries left the index, shifting every later offset
		next := cursor + int64(len(slugs)) - reaped
		page.NextCursor = &next
	}
	return page, nil
}

// canManage reports whether the requester owns the link or is an admin
func canManage(link *model.Link, requesterSID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return requesterSID != "" && requesterSID == link.OwnerSID
}

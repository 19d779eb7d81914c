package model

import (
	"strconv"
	"time"
)

// Fields of the meta:{slug} hash
const (
	MetaOwnerSID     = "ownerSid"
	MetaCreatedAt    = "createdAt"
	MetaLastUpdateAt = "lastUpdateAt"
	MetaEnabled      = "enabled"
	MetaTTL          = "ttl"
)

// Link represents a short link entity
type Link struct {
	Slug         string    `json:"slug"`
	URL          string    `json:"url"`
	OwnerSID     string    `json:"owner_sid,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdateAt time.Time `json:"last_update_at"`
	// TTL is the configured lifetime in seconds, 0 when the link never expires.
	TTL         int64 `json:"ttl,omitempty"`
	TotalClicks int64 `json:"total_clicks"`
}

// MetaFields encodes the link metadata into hash fields
func (l *Link) MetaFields() map[string]string {
	fields := map[string]string{
		MetaOwnerSID:     l.OwnerSID,
		MetaCreatedAt:    FormatMillis(l.CreatedAt),
		MetaLastUpdateAt: FormatMillis(l.LastUpdateAt),
		MetaEnabled:      FormatEnabled(l.Enabled),
		MetaTTL:          "",
	}
	if l.TTL > 0 {
		fields[MetaTTL] = strconv.FormatInt(l.TTL, 10)
	}
	return fields
}

// LinkFromMeta rebuilds a link from its destination URL and metadata hash.
// A missing enabled flag means the link is enabled.
func LinkFromMeta(slug, url string, meta map[string]string) *Link {
	l := &Link{
		Slug:         slug,
		URL:          url,
		OwnerSID:     meta[MetaOwnerSID],
		Enabled:      meta[MetaEnabled] != "0",
		CreatedAt:    parseMillis(meta[MetaCreatedAt]),
		LastUpdateAt: parseMillis(meta[MetaLastUpdateAt]),
	}
	if ttl, err := strconv.ParseInt(meta[MetaTTL], 10, 64); err == nil && ttl > 0 {
		l.TTL = ttl
	}
	return l
}

// FormatEnabled encodes the enabled flag the way it is stored
func FormatEnabled(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}

// FormatMillis encodes a timestamp as unix milliseconds
func FormatMillis(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// CreateLinkRequest represents the request to create a short link
type CreateLinkRequest struct {
	URL     string `json:"url" binding:"required"`
	Slug    string `json:"slug"`
	TTL     int64  `json:"ttl" binding:"gte=0"`
	Enabled *bool  `json:"enabled"`
}

// UpdateLinkRequest represents a partial update of a short link. Nil fields
// are left untouched; a zero TTL clears the expiry.
type UpdateLinkRequest struct {
	URL     *string `json:"url"`
	NewSlug *string `json:"new_slug"`
	Enabled *bool   `json:"enabled"`
	TTL     *int64  `json:"ttl" binding:"omitempty,gte=0"`
}

// CreateLinkResponse is returned after a link has been created
type CreateLinkResponse struct {
	*Link
	ShortURL string `json:"short_url"`
}

// LinkPage is one page of the global link listing
type LinkPage struct {
	Links      []Link `json:"links"`
	NextCursor *int64 `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

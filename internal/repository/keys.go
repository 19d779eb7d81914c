package repository

// Global keys
const (
	LinksIndexKey = "links:index"
)

// LinkKey holds the destination URL of a slug
func LinkKey(slug string) string { return "link:" + slug }

// MetaKey holds the metadata hash of a slug
func MetaKey(slug string) string { return "meta:" + slug }

// ClicksTotalKey holds the total click counter of a slug
func ClicksTotalKey(slug string) string { return "clicks:" + slug + ":total" }

// ClicksByDayKey is the sorted set of dates scored by clicks
func ClicksByDayKey(slug string) string { return "clicks:" + slug + ":byday" }

// ClicksDayKey is the per-day counter of a slug; it carries its own expiry
func ClicksDayKey(slug, date string) string { return "clicks:" + slug + ":byday:" + date }

// GeoKey is the sorted set of locations scored by clicks
func GeoKey(slug string) string { return "geo:" + slug }

// UADeviceKey is the sorted set of device categories scored by clicks
func UADeviceKey(slug string) string { return "ua:" + slug + ":device" }

// UAOSKey is the sorted set of operating systems scored by clicks
func UAOSKey(slug string) string { return "ua:" + slug + ":os" }

// UABrowserKey is the sorted set of browsers scored by clicks
func UABrowserKey(slug string) string { return "ua:" + slug + ":browser" }

// RefKey is the sorted set of referrer hosts scored by clicks
func RefKey(slug string) string { return "ref:" + slug }

// HistoryKey is the per-owner sorted set of slugs scored by creation time
func HistoryKey(sid string) string { return "history:" + sid }

// RateIPKey is the rate-limit counter of an IP. An empty scope yields the
// click-tracking key space.
func RateIPKey(scope, ip string) string { return rateKey(scope, "ip", ip) }

// RateSIDKey is the rate-limit counter of a session
func RateSIDKey(scope, sid string) string { return rateKey(scope, "sid", sid) }

func rateKey(scope, kind, id string) string {
	if scope == "" {
		return "rate:" + kind + ":" + id
	}
	return "rate:" + scope + ":" + kind + ":" + id
}

// AggregateKeys lists the click aggregate keys of a slug, excluding the
// per-day counters which are enumerated from the byday sorted set.
func AggregateKeys(slug string) []string {
	return []string{
		ClicksTotalKey(slug),
		ClicksByDayKey(slug),
		GeoKey(slug),
		UADeviceKey(slug),
		UAOSKey(slug),
		UABrowserKey(slug),
		RefKey(slug),
	}
}

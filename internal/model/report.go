package model

// Report is the analytics report of one short link
type Report struct {
	Slug         string      `json:"slug"`
	TotalClicks  int64       `json:"total_clicks"`
	ByDay        []DayCount  `json:"by_day"`
	TopGeo       []Breakdown `json:"top_geo"`
	TopReferrers []Breakdown `json:"top_referrers"`
	Devices      []Breakdown `json:"devices"`
	OS           []Breakdown `json:"os"`
	Browsers     []Breakdown `json:"browsers"`
	Metadata     *Link       `json:"metadata,omitempty"`
}

// DayCount is the number of clicks on one calendar day (UTC)
type DayCount struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// Breakdown is one ranked category of a breakdown
type Breakdown struct {
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

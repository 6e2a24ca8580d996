package models

import (
	"time"
)

// NewsItem is a raw, pre-aggregation feed story. The ID is a
// provider-assigned opaque identifier, unique only within one provider
// session; it is used purely as a pagination cursor, never as a dedup key.
type NewsItem struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
}

// NewsDigest is one aggregated record combining every story published on
// a single calendar date. Titles and links are concatenations of the raw
// items in arrival order.
type NewsDigest struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
	Link  string    `json:"link"`
}

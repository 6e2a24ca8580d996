package news

import (
	"sort"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// Aggregate combines raw stories into one digest per distinct calendar
// date, sorted descending by date. Titles are truncated to titleLimit
// runes with an ellipsis marker before concatenation; links are
// concatenated verbatim. Items sharing a date combine in input order
// with no deduplication, so the output exactly partitions the input.
func Aggregate(items []models.NewsItem, titleLimit int) []models.NewsDigest {
	if len(items) == 0 {
		return nil
	}

	index := make(map[time.Time]int)
	var digests []models.NewsDigest

	for _, item := range items {
		date := time.Date(item.Time.Year(), item.Time.Month(), item.Time.Day(), 0, 0, 0, 0, time.UTC)

		i, ok := index[date]
		if !ok {
			i = len(digests)
			index[date] = i
			digests = append(digests, models.NewsDigest{Date: date})
		}

		digests[i].Title += truncateTitle(item.Title, titleLimit)
		digests[i].Link += item.URL
	}

	sort.Slice(digests, func(a, b int) bool {
		return digests[a].Date.After(digests[b].Date)
	})

	return digests
}

// truncateTitle bounds a title to limit runes and appends the ellipsis
// marker used by the digest format.
func truncateTitle(title string, limit int) string {
	runes := []rune(title)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}

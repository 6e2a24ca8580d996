package news

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

func item(id string, ts time.Time, title, link string) models.NewsItem {
	return models.NewsItem{ID: id, Time: ts, Title: title, URL: link}
}

func TestAggregate_SingleItemRoundTrip(t *testing.T) {
	ts := time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC)
	digests := Aggregate([]models.NewsItem{
		item("1", ts, "Apple beats earnings estimates", "https://example.com/a"),
	}, DefaultTitleLimit)

	require.Len(t, digests, 1)
	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), digests[0].Date)
	assert.Equal(t, "Apple beats earnings estimates...", digests[0].Title)
	assert.Equal(t, "https://example.com/a", digests[0].Link)
}

func TestAggregate_GroupsByCalendarDate(t *testing.T) {
	day1 := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 8, 13, 0, 0, 0, 0, time.UTC)

	digests := Aggregate([]models.NewsItem{
		item("1", day1.Add(16*time.Hour), "first", "l1"),
		item("2", day1.Add(9*time.Hour), "second", "l2"),
		item("3", day2.Add(11*time.Hour), "third", "l3"),
	}, DefaultTitleLimit)

	require.Len(t, digests, 2)
	assert.Equal(t, day1, digests[0].Date)
	assert.Equal(t, "first...second...", digests[0].Title)
	assert.Equal(t, "l1l2", digests[0].Link)
	assert.Equal(t, day2, digests[1].Date)
	assert.Equal(t, "third...", digests[1].Title)
}

func TestAggregate_SortedDescending(t *testing.T) {
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	// Arrival order is newest-first per page but scrambled across pages;
	// output order must not depend on it.
	digests := Aggregate([]models.NewsItem{
		item("1", base.AddDate(0, 0, 3), "a", "l"),
		item("2", base, "b", "l"),
		item("3", base.AddDate(0, 0, 7), "c", "l"),
		item("4", base.AddDate(0, 0, 1), "d", "l"),
	}, DefaultTitleLimit)

	require.Len(t, digests, 4)
	for i := 1; i < len(digests); i++ {
		assert.True(t, digests[i].Date.Before(digests[i-1].Date))
	}
}

func TestAggregate_PartitionsInputExactly(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var items []models.NewsItem
	for i := 0; i < 50; i++ {
		ts := base.AddDate(0, 0, i%7).Add(time.Duration(i) * time.Minute)
		items = append(items, item("x", ts, "t", "|"))
	}

	digests := Aggregate(items, DefaultTitleLimit)
	require.Len(t, digests, 7)

	// Every item lands in exactly one digest: link markers sum to input size.
	total := 0
	for _, d := range digests {
		total += strings.Count(d.Link, "|")
	}
	assert.Equal(t, len(items), total)
}

func TestAggregate_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 200)
	ts := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

	digests := Aggregate([]models.NewsItem{item("1", ts, long, "l")}, DefaultTitleLimit)
	require.Len(t, digests, 1)
	assert.Equal(t, strings.Repeat("x", 90)+"...", digests[0].Title)
}

func TestAggregate_TruncationCountsRunes(t *testing.T) {
	long := strings.Repeat("é", 120)
	ts := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)

	digests := Aggregate([]models.NewsItem{item("1", ts, long, "l")}, DefaultTitleLimit)
	require.Len(t, digests, 1)
	assert.Equal(t, strings.Repeat("é", 90)+"...", digests[0].Title)
}

func TestAggregate_NoDeduplication(t *testing.T) {
	ts := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	digests := Aggregate([]models.NewsItem{
		item("1", ts, "same story", "l"),
		item("2", ts.Add(time.Hour), "same story", "l"),
	}, DefaultTitleLimit)

	require.Len(t, digests, 1)
	assert.Equal(t, "same story...same story...", digests[0].Title)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, DefaultTitleLimit))
}

// Package news provides cursor-paginated news acquisition and per-day
// aggregation.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/interfaces"
	"github.com/portlandmobile/ai-news-chart/internal/models"
)

const (
	// DefaultMaxPages caps pagination to guard against a provider that
	// keeps returning items from the same moment in time.
	DefaultMaxPages = 10

	// DefaultWindow is the trailing fetch window.
	DefaultWindow = 90 * 24 * time.Hour

	// DefaultTitleLimit is the per-title truncation applied before
	// digest concatenation.
	DefaultTitleLimit = 90
)

// Service implements NewsService.
type Service struct {
	feed       interfaces.FeedClient
	logger     *common.Logger
	now        func() time.Time // injectable clock for testing
	maxPages   int
	window     time.Duration
	titleLimit int
}

// ServiceOption configures the news service
type ServiceOption func(*Service)

// WithMaxPages sets the pagination cap
func WithMaxPages(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithWindow sets the trailing fetch window
func WithWindow(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// NewService creates a new news service.
func NewService(feed interfaces.FeedClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		feed:       feed,
		logger:     logger,
		now:        time.Now,
		maxPages:   DefaultMaxPages,
		window:     DefaultWindow,
		titleLimit: DefaultTitleLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetchCursor is the per-fetch pagination state. A new value is computed
// each iteration; nothing is shared across fetches.
type fetchCursor struct {
	hoursAgo int
	lastID   string
	page     int
}

// advance computes the next cursor from the oldest item fetched so far.
// hoursAgo accumulates the offset between now and the oldest timestamp;
// the oldest item's id becomes the exclusive "last" marker.
func (c fetchCursor) advance(now time.Time, oldest models.NewsItem) fetchCursor {
	offset := int(now.Sub(oldest.Time).Hours())
	return fetchCursor{
		hoursAgo: c.hoursAgo + offset,
		lastID:   oldest.ID,
		page:     c.page + 1,
	}
}

// fetchRaw pages through the feed for a symbol, accumulating stories in
// arrival order (newest-first per page, pages requested oldest-ward).
// Any page error or malformed response abandons the fetch and returns
// whatever accumulated so far.
func (s *Service) fetchRaw(ctx context.Context, symbol string) []models.NewsItem {
	var items []models.NewsItem
	cursor := fetchCursor{hoursAgo: 1}

	for cursor.page < s.maxPages {
		var opts []interfaces.FeedOption
		if cursor.lastID != "" {
			opts = append(opts,
				interfaces.WithHoursAgo(cursor.hoursAgo),
				interfaces.WithLast(cursor.lastID),
			)
		}

		batch, err := s.feed.GetFeed(ctx, symbol, opts...)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("symbol", symbol).
				Int("page", cursor.page).
				Int("accumulated", len(items)).
				Msg("Feed page failed, returning partial results")
			return items
		}
		if len(batch) == 0 {
			break
		}

		items = append(items, batch...)

		// Pages arrive newest-first, so the oldest story fetched so far
		// is the last one in arrival order.
		oldest := items[len(items)-1]
		if oldest.Time.Before(s.now().Add(-s.window)) {
			break
		}

		cursor = cursor.advance(s.now(), oldest)
	}

	return items
}

// GetDigests fetches and aggregates news for a symbol into one digest
// per calendar date, newest first.
func (s *Service) GetDigests(ctx context.Context, symbol string) ([]models.NewsDigest, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	raw := s.fetchRaw(ctx, symbol)
	digests := Aggregate(raw, s.titleLimit)
	if len(digests) == 0 {
		return nil, ErrNoNews
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Int("stories", len(raw)).
		Int("digests", len(digests)).
		Msg("News aggregated")

	return digests, nil
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)

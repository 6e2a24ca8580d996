// Package interfaces defines service contracts for the ai-news-chart backend
package interfaces

import (
	"context"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// PriceClient provides access to the upstream price provider. Each method
// is a distinct provider code path with its own failure modes; the chart
// service tries them in order.
type PriceClient interface {
	// ChartByRange retrieves daily bars using a relative range (e.g. "6mo").
	ChartByRange(ctx context.Context, symbol, rng, interval string) ([]models.PricePoint, error)

	// ChartByWindow retrieves daily bars for an explicit date window.
	ChartByWindow(ctx context.Context, symbol string, from, to time.Time, interval string) ([]models.PricePoint, error)

	// DownloadHistory retrieves per-symbol history via the CSV download endpoint.
	DownloadHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)

	// HistoricDaily retrieves a simplified close-price series over a fixed
	// 90-day window. Only Open and Close are populated.
	HistoricDaily(ctx context.Context, symbol string) ([]models.PricePoint, error)
}

// FeedOption configures a feed page request
type FeedOption func(*FeedParams)

// FeedParams holds feed query parameters
type FeedParams struct {
	// Last is the exclusive story-id cursor for the next page.
	Last string
	// HoursAgo offsets the page window back from now.
	HoursAgo int
	// PageSize caps stories per page (provider max 200).
	PageSize int
}

// WithLast sets the story-id pagination cursor
func WithLast(id string) FeedOption {
	return func(p *FeedParams) {
		p.Last = id
	}
}

// WithHoursAgo sets the hours-ago pagination offset
func WithHoursAgo(hours int) FeedOption {
	return func(p *FeedParams) {
		p.HoursAgo = hours
	}
}

// WithPageSize sets the page size
func WithPageSize(n int) FeedOption {
	return func(p *FeedParams) {
		p.PageSize = n
	}
}

// FeedClient provides access to the news feed provider. Pages arrive in
// reverse-chronological order (newest first).
type FeedClient interface {
	// GetFeed retrieves one page of stories for a symbol.
	GetFeed(ctx context.Context, symbol string, opts ...FeedOption) ([]models.NewsItem, error)
}

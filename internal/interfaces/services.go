package interfaces

import (
	"context"

	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// ChartService provides resilient price history acquisition.
type ChartService interface {
	// GetHistory returns price history for a symbol and period. It never
	// returns an empty series: when every provider strategy fails the
	// result is synthetic data covering the requested window.
	GetHistory(ctx context.Context, symbol string, period models.Period, interval string) (*models.PriceSeries, error)

	// GetHistoric returns a simplified 90-day series (open/close/volume
	// only, integer-rounded), falling back to synthetic data.
	GetHistoric(ctx context.Context, symbol string) (*models.PriceSeries, error)

	// RenderChart renders a PNG line chart of closing prices.
	RenderChart(series *models.PriceSeries) ([]byte, error)
}

// NewsService provides paginated news acquisition and per-day aggregation.
type NewsService interface {
	// GetDigests fetches, deduplicates by page cursor, and aggregates news
	// for a symbol into one digest per calendar date, newest first.
	// Returns ErrNoNews when the full pagination yields nothing.
	GetDigests(ctx context.Context, symbol string) ([]models.NewsDigest, error)
}

// Package chart provides resilient price history acquisition with a
// synthetic-data fallback.
package chart

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/interfaces"
	"github.com/portlandmobile/ai-news-chart/internal/models"
)

// historicDays is the fixed lookback of the simplified historic series.
const historicDays = 90

// Service implements ChartService. Provider strategies are tried in
// order; total failure falls back to a generated series and is never a
// user-visible error.
type Service struct {
	price   interfaces.PriceClient
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
	newRand func() *rand.Rand
	group   singleflight.Group
}

// NewService creates a new chart service.
func NewService(price interfaces.PriceClient, logger *common.Logger) *Service {
	return &Service{
		price:  price,
		logger: logger,
		now:    time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// priceStrategy is one alternative way to obtain a price series. Each
// either returns a non-empty point slice or fails; failures advance the
// chain without halting it.
type priceStrategy struct {
	name  string
	fetch func(ctx context.Context, symbol string, period models.Period, interval string) ([]models.PricePoint, error)
}

func (s *Service) strategies() []priceStrategy {
	return []priceStrategy{
		{
			name: "chart-range",
			fetch: func(ctx context.Context, symbol string, period models.Period, interval string) ([]models.PricePoint, error) {
				return s.price.ChartByRange(ctx, symbol, string(period), interval)
			},
		},
		{
			name: "chart-window",
			fetch: func(ctx context.Context, symbol string, period models.Period, interval string) ([]models.PricePoint, error) {
				from, to := period.Window(s.now())
				return s.price.ChartByWindow(ctx, symbol, from, to, interval)
			},
		},
		{
			name: "download-history",
			fetch: func(ctx context.Context, symbol string, period models.Period, _ string) ([]models.PricePoint, error) {
				from, to := period.Window(s.now())
				return s.price.DownloadHistory(ctx, symbol, from, to)
			},
		},
		{
			name: "historic-daily",
			fetch: func(ctx context.Context, symbol string, _ models.Period, _ string) ([]models.PricePoint, error) {
				points, err := s.price.HistoricDaily(ctx, symbol)
				if err != nil {
					return nil, err
				}
				// The simplified endpoint carries only open/close;
				// backfill high/low to satisfy the normalized shape.
				for i := range points {
					points[i].High = math.Max(points[i].Open, points[i].Close)
					points[i].Low = math.Min(points[i].Open, points[i].Close)
				}
				return points, nil
			},
		},
	}
}

// GetHistory returns price history for a symbol and period. Concurrent
// requests for the same symbol+period are collapsed into one upstream
// acquisition.
func (s *Service) GetHistory(ctx context.Context, symbol string, period models.Period, interval string) (*models.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if interval == "" {
		interval = "1d"
	}

	key := symbol + "|" + string(period) + "|" + interval
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.acquire(ctx, symbol, period, interval), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.PriceSeries), nil
}

// acquire runs the strategy chain and falls back to a synthetic walk.
func (s *Service) acquire(ctx context.Context, symbol string, period models.Period, interval string) *models.PriceSeries {
	for _, strat := range s.strategies() {
		points, err := strat.fetch(ctx, symbol, period, interval)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("symbol", symbol).
				Str("strategy", strat.name).
				Msg("Price strategy failed")
			continue
		}
		if len(points) == 0 {
			s.logger.Debug().
				Str("symbol", symbol).
				Str("strategy", strat.name).
				Msg("Price strategy returned no data")
			continue
		}

		s.logger.Debug().
			Str("symbol", symbol).
			Str("strategy", strat.name).
			Int("points", len(points)).
			Msg("Price strategy succeeded")

		return &models.PriceSeries{
			Symbol:   symbol,
			Source:   models.SourceProvider,
			Period:   string(period),
			Interval: interval,
			Points:   points,
		}
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("period", string(period)).
		Msg("All price strategies failed, generating synthetic series")

	start, end := period.Window(s.now())
	return &models.PriceSeries{
		Symbol:   symbol,
		Source:   models.SourceSynthetic,
		Period:   string(period),
		Interval: interval,
		Points:   GenerateWalk(s.newRand(), DefaultWalkConfig(), start, end),
	}
}

// GetHistoric returns the simplified fixed-window series: open, close
// and volume only, integer-rounded.
func (s *Service) GetHistoric(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	points, err := s.price.HistoricDaily(ctx, symbol)
	source := models.SourceProvider
	if err != nil || len(points) == 0 {
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Historic lookup failed, generating synthetic series")
		}
		end := s.now()
		start := end.AddDate(0, 0, -historicDays)
		points = GenerateWalk(s.newRand(), HistoricWalkConfig(), start, end)
		source = models.SourceSynthetic
	}

	rounded := make([]models.PricePoint, len(points))
	for i, p := range points {
		rounded[i] = models.PricePoint{
			Date:   p.Date,
			Open:   math.Round(p.Open),
			Close:  math.Round(p.Close),
			Volume: p.Volume,
		}
	}

	return &models.PriceSeries{
		Symbol:   symbol,
		Source:   source,
		Period:   "3mo",
		Interval: "1d",
		Points:   rounded,
	}, nil
}

// Ensure Service implements ChartService
var _ interfaces.ChartService = (*Service)(nil)

// errNoPoints guards rendering, the only chart operation that can fail
// on empty input.
var errNoPoints = fmt.Errorf("no points to render")

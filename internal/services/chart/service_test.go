package chart

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/models"
)

var errUpstream = errors.New("upstream unavailable")

// mockPriceClient lets each provider code path be scripted per test.
// Unscripted paths fail, which matches a provider outage.
type mockPriceClient struct {
	chartByRange    func(symbol, rng, interval string) ([]models.PricePoint, error)
	chartByWindow   func(symbol string, from, to time.Time, interval string) ([]models.PricePoint, error)
	downloadHistory func(symbol string, from, to time.Time) ([]models.PricePoint, error)
	historicDaily   func(symbol string) ([]models.PricePoint, error)

	calls []string
}

func (m *mockPriceClient) ChartByRange(_ context.Context, symbol, rng, interval string) ([]models.PricePoint, error) {
	m.calls = append(m.calls, "chart-range")
	if m.chartByRange == nil {
		return nil, errUpstream
	}
	return m.chartByRange(symbol, rng, interval)
}

func (m *mockPriceClient) ChartByWindow(_ context.Context, symbol string, from, to time.Time, interval string) ([]models.PricePoint, error) {
	m.calls = append(m.calls, "chart-window")
	if m.chartByWindow == nil {
		return nil, errUpstream
	}
	return m.chartByWindow(symbol, from, to, interval)
}

func (m *mockPriceClient) DownloadHistory(_ context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	m.calls = append(m.calls, "download-history")
	if m.downloadHistory == nil {
		return nil, errUpstream
	}
	return m.downloadHistory(symbol, from, to)
}

func (m *mockPriceClient) HistoricDaily(_ context.Context, symbol string) ([]models.PricePoint, error) {
	m.calls = append(m.calls, "historic-daily")
	if m.historicDaily == nil {
		return nil, errUpstream
	}
	return m.historicDaily(symbol)
}

func newTestService(client *mockPriceClient) *Service {
	s := NewService(client, common.NewSilentLogger())
	s.now = func() time.Time {
		return time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC) // a Friday
	}
	s.newRand = func() *rand.Rand {
		return rand.New(rand.NewSource(1))
	}
	return s
}

func providerPoints(n int) []models.PricePoint {
	points := make([]models.PricePoint, n)
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = models.PricePoint{
			Date:   base.AddDate(0, 0, i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100.5,
			Volume: 1_500_000,
		}
	}
	return points
}

func TestGetHistory_FirstStrategySucceeds(t *testing.T) {
	client := &mockPriceClient{
		chartByRange: func(symbol, rng, interval string) ([]models.PricePoint, error) {
			assert.Equal(t, "AAPL", symbol)
			assert.Equal(t, "1mo", rng)
			assert.Equal(t, "1d", interval)
			return providerPoints(21), nil
		},
	}

	svc := newTestService(client)
	series, err := svc.GetHistory(context.Background(), "aapl", models.Period1Mo, "1d")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, models.SourceProvider, series.Source)
	assert.Len(t, series.Points, 21)
	assert.Equal(t, []string{"chart-range"}, client.calls)
}

func TestGetHistory_EmptyResultAdvancesChain(t *testing.T) {
	client := &mockPriceClient{
		chartByRange: func(string, string, string) ([]models.PricePoint, error) {
			return nil, nil // success but zero rows
		},
		chartByWindow: func(string, time.Time, time.Time, string) ([]models.PricePoint, error) {
			return providerPoints(5), nil
		},
	}

	svc := newTestService(client)
	series, err := svc.GetHistory(context.Background(), "MSFT", models.Period6Mo, "")
	require.NoError(t, err)

	assert.Equal(t, models.SourceProvider, series.Source)
	assert.Equal(t, []string{"chart-range", "chart-window"}, client.calls)
}

func TestGetHistory_StrategyOrder(t *testing.T) {
	client := &mockPriceClient{} // every path fails

	svc := newTestService(client)
	_, err := svc.GetHistory(context.Background(), "TSLA", models.Period3Mo, "1d")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"chart-range", "chart-window", "download-history", "historic-daily"},
		client.calls)
}

func TestGetHistory_AllStrategiesFailFallsBackToSynthetic(t *testing.T) {
	client := &mockPriceClient{}

	svc := newTestService(client)
	series, err := svc.GetHistory(context.Background(), "AAPL", models.Period1Mo, "1d")
	require.NoError(t, err)

	assert.Equal(t, models.SourceSynthetic, series.Source)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, "1mo", series.Period)

	// Weekdays inside a trailing 30-day window
	assert.GreaterOrEqual(t, len(series.Points), 20)
	assert.LessOrEqual(t, len(series.Points), 23)

	start := svc.now().AddDate(0, 0, -30)
	first := series.Points[0].Date
	assert.False(t, first.Before(dateOnly(start)))
	assert.True(t, first.Sub(dateOnly(start)) <= 48*time.Hour, "first point should sit at the window edge")
	for _, p := range series.Points {
		assert.NotEqual(t, time.Saturday, p.Date.Weekday())
		assert.NotEqual(t, time.Sunday, p.Date.Weekday())
	}
}

func TestGetHistory_NeverEmptyForAnyPeriod(t *testing.T) {
	periods := []models.Period{
		models.Period1Mo, models.Period3Mo, models.Period6Mo,
		models.Period1Y, models.Period2Y, models.Period5Y,
		models.Period("bogus"),
	}

	for _, period := range periods {
		svc := newTestService(&mockPriceClient{})
		series, err := svc.GetHistory(context.Background(), "NVDA", period, "1d")
		require.NoError(t, err, "period %s", period)
		assert.NotEmpty(t, series.Points, "period %s returned an empty series", period)
		assert.Equal(t, models.SourceSynthetic, series.Source)
	}
}

func TestGetHistory_HistoricDailyBackfillsHighLow(t *testing.T) {
	client := &mockPriceClient{
		historicDaily: func(string) ([]models.PricePoint, error) {
			return []models.PricePoint{
				{Date: time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), Open: 102, Close: 100},
				{Date: time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC), Open: 100, Close: 104},
			}, nil
		},
	}

	svc := newTestService(client)
	series, err := svc.GetHistory(context.Background(), "AMZN", models.Period6Mo, "1d")
	require.NoError(t, err)
	require.Len(t, series.Points, 2)

	// Backfill must keep low ≤ open,close ≤ high even when close < open.
	assert.Equal(t, 102.0, series.Points[0].High)
	assert.Equal(t, 100.0, series.Points[0].Low)
	assert.Equal(t, 104.0, series.Points[1].High)
	assert.Equal(t, 100.0, series.Points[1].Low)
}

func TestGetHistoric_ProviderRoundsToIntegers(t *testing.T) {
	client := &mockPriceClient{
		historicDaily: func(string) ([]models.PricePoint, error) {
			return []models.PricePoint{
				{Date: time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), Open: 101.6, Close: 99.4, Volume: 12345},
			}, nil
		},
	}

	svc := newTestService(client)
	series, err := svc.GetHistoric(context.Background(), "ibm")
	require.NoError(t, err)

	assert.Equal(t, "IBM", series.Symbol)
	assert.Equal(t, models.SourceProvider, series.Source)
	require.Len(t, series.Points, 1)
	assert.Equal(t, 102.0, series.Points[0].Open)
	assert.Equal(t, 99.0, series.Points[0].Close)
	assert.Equal(t, int64(12345), series.Points[0].Volume)
}

func TestGetHistoric_FallsBackToSynthetic(t *testing.T) {
	svc := newTestService(&mockPriceClient{})

	series, err := svc.GetHistoric(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, models.SourceSynthetic, series.Source)
	assert.NotEmpty(t, series.Points)
	for _, p := range series.Points {
		assert.Equal(t, p.Open, float64(int64(p.Open)), "open not integer-rounded")
		assert.Equal(t, p.Close, float64(int64(p.Close)), "close not integer-rounded")
	}
}

func TestGetHistory_SymbolUppercasedBeforeDispatch(t *testing.T) {
	var seen string
	client := &mockPriceClient{
		chartByRange: func(symbol, _, _ string) ([]models.PricePoint, error) {
			seen = symbol
			return providerPoints(1), nil
		},
	}

	svc := newTestService(client)
	_, err := svc.GetHistory(context.Background(), "  tsla ", models.Period1Mo, "1d")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", seen)
}

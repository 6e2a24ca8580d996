// Package yahoo provides a client for the Yahoo Finance chart and
// download APIs.
package yahoo

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/interfaces"
	"github.com/portlandmobile/ai-news-chart/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the PriceClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// do performs a rate-limited GET request and returns the response body.
func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; newschart/1.0)")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	return body, nil
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, result interface{}) error {
	body, err := c.do(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// chartResponse is the columnar chart API shape. Price and volume slices
// use pointers because the provider emits nulls for halted days.
type chartResponse struct {
	Chart struct {
		Result []chartResult   `json:"result"`
		Error  json.RawMessage `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// toPoints converts a columnar chart result to price points, skipping
// rows with null prices.
func (r *chartResult) toPoints() []models.PricePoint {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	points := make([]models.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}

		var volume int64
		if i < len(q.Volume) && q.Volume[i] != nil {
			volume = *q.Volume[i]
		}

		day := time.Unix(ts, 0).UTC()
		points = append(points, models.PricePoint{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   *q.Open[i],
			High:   *q.High[i],
			Low:    *q.Low[i],
			Close:  *q.Close[i],
			Volume: volume,
		})
	}

	return points
}

func (c *Client) chart(ctx context.Context, symbol string, params url.Values) ([]models.PricePoint, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Chart.Error) > 0 && string(resp.Chart.Error) != "null" {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, resp.Chart.Error)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	return resp.Chart.Result[0].toPoints(), nil
}

// ChartByRange retrieves daily bars using a relative range such as "6mo".
func (c *Client) ChartByRange(ctx context.Context, symbol, rng, interval string) ([]models.PricePoint, error) {
	if interval == "" {
		interval = "1d"
	}
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)
	return c.chart(ctx, symbol, params)
}

// ChartByWindow retrieves daily bars for an explicit date window.
func (c *Client) ChartByWindow(ctx context.Context, symbol string, from, to time.Time, interval string) ([]models.PricePoint, error) {
	if interval == "" {
		interval = "1d"
	}
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", interval)
	return c.chart(ctx, symbol, params)
}

// DownloadHistory retrieves per-symbol history from the CSV download
// endpoint. This is a separate provider code path with its own failure
// modes (plain-text errors, row-oriented data).
func (c *Client) DownloadHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	path := fmt.Sprintf("/v7/finance/download/%s", url.PathEscape(symbol))

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")

	body, err := c.do(ctx, path, params)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	// Header: Date,Open,High,Low,Close,Adj Close,Volume
	points := make([]models.PricePoint, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 7 {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		closePx, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			// "null" rows for non-trading days
			continue
		}
		volume, _ := strconv.ParseInt(rec[6], 10, 64)

		points = append(points, models.PricePoint{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}

	return points, nil
}

// sparkResponse is the simplified close-only series shape.
type sparkResponse struct {
	Spark struct {
		Result []struct {
			Symbol   string        `json:"symbol"`
			Response []chartResult `json:"response"`
		} `json:"result"`
		Error json.RawMessage `json:"error"`
	} `json:"spark"`
}

// HistoricDaily retrieves a simplified 90-day close series via the spark
// endpoint. Only Open and Close are populated: close from the provider,
// open carried over from the previous close.
func (c *Client) HistoricDaily(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("symbols", symbol)
	params.Set("range", "3mo")
	params.Set("interval", "1d")

	var resp sparkResponse
	if err := c.getJSON(ctx, "/v8/finance/spark", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Spark.Error) > 0 && string(resp.Spark.Error) != "null" {
		return nil, fmt.Errorf("spark error for %s: %s", symbol, resp.Spark.Error)
	}
	if len(resp.Spark.Result) == 0 || len(resp.Spark.Result[0].Response) == 0 {
		return nil, nil
	}

	result := resp.Spark.Result[0].Response[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := result.Indicators.Quote[0].Close

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	prevClose := 0.0
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		closePx := *closes[i]
		open := prevClose
		if open == 0 {
			open = closePx
		}

		day := time.Unix(ts, 0).UTC()
		points = append(points, models.PricePoint{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:  open,
			Close: closePx,
		})
		prevClose = closePx
	}

	return points, nil
}

// Ensure Client implements PriceClient
var _ interfaces.PriceClient = (*Client)(nil)

// Package tickertick provides a client for the TickerTick news feed API
package tickertick

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/interfaces"
	"github.com/portlandmobile/ai-news-chart/internal/models"
)

const (
	DefaultBaseURL   = "https://api.tickertick.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second; the feed API is rate-limited
	DefaultPageSize  = 200
)

// feedSources are the story sources included in every feed query.
var feedSources = []string{"tickerreport", "seekingalpha"}

// Client implements the FeedClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
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

// NewClient creates a new TickerTick client. Requests run through a
// circuit breaker so a flapping provider trips open instead of hammering
// the API; an open breaker surfaces as a page failure to the paginator.
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

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tickertick-feed",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn().
				Str("circuit", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tickertick API error: %s (status: %d)", e.Message, e.StatusCode)
}

// feedQuery builds the boolean query expression scoping the feed to a
// symbol plus the configured story sources.
func feedQuery(symbol string) string {
	sources := make([]string, len(feedSources))
	for i, s := range feedSources {
		sources[i] = "s:" + s
	}
	return fmt.Sprintf("(and tt:%s (or %s))", strings.ToLower(symbol), strings.Join(sources, " "))
}

type feedResponse struct {
	Stories []storyResponse `json:"stories"`
	LastID  string          `json:"last_id"`
}

type storyResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Site  string `json:"site"`
	Time  int64  `json:"time"` // epoch milliseconds
}

// GetFeed retrieves one page of stories for a symbol, newest first.
func (c *Client) GetFeed(ctx context.Context, symbol string, opts ...interfaces.FeedOption) ([]models.NewsItem, error) {
	params := &interfaces.FeedParams{
		PageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(params)
	}

	query := url.Values{}
	query.Set("q", feedQuery(symbol))
	query.Set("lang", "en")
	query.Set("n", strconv.Itoa(params.PageSize))
	if params.HoursAgo > 0 {
		query.Set("hours_ago", strconv.Itoa(params.HoursAgo))
	}
	if params.Last != "" {
		query.Set("last", params.Last)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/feed?%s", c.baseURL, query.Encode())

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		c.logger.Debug().Str("symbol", symbol).Str("last", params.Last).Msg("TickerTick feed request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(data)),
			}
		}

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	var feed feedResponse
	if err := json.Unmarshal(body.([]byte), &feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(feed.Stories))
	for _, story := range feed.Stories {
		items = append(items, models.NewsItem{
			ID:    story.ID,
			Time:  time.UnixMilli(story.Time).UTC(),
			Title: story.Title,
			URL:   story.URL,
		})
	}

	return items, nil
}

// Ensure Client implements FeedClient
var _ interfaces.FeedClient = (*Client)(nil)
